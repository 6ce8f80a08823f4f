package royalty

import "fmt"

// Validate checks that a schedule can be stored: at most MaxBeneficiaries
// entries whose shares sum to strictly less than TotalBasisPoints, so the
// seller always keeps a positive residual. Individual shares may be zero.
func Validate(schedule Schedule) error {
	if len(schedule) > MaxBeneficiaries {
		return fmt.Errorf("%w: got %d", ErrTooManyBeneficiaries, len(schedule))
	}
	if total := schedule.Total(); total >= TotalBasisPoints {
		return fmt.Errorf("%w: shares sum to %d", ErrRoyaltyExceedsTotal, total)
	}
	return nil
}

// ValidatePayout checks that payout is exactly what the schedule yields for a
// sale of amount by owner. Marketplaces use it to verify a payout returned by
// a remote call before settling it.
func ValidatePayout(payout Payout, schedule Schedule, owner AccountID, amount Amount) error {
	expected, err := Compute(schedule, owner, amount, uint32(len(schedule)))
	if err != nil {
		return err
	}
	if len(payout) != len(expected) {
		return fmt.Errorf("%w: %d recipients, expected %d", ErrPayoutMismatch, len(payout), len(expected))
	}
	for acct, want := range expected {
		got, ok := payout[acct]
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrPayoutMismatch, acct)
		}
		if got.Cmp(want) != 0 {
			return fmt.Errorf("%w: %s gets %s, expected %s", ErrPayoutMismatch, acct, got, want)
		}
	}
	return nil
}
