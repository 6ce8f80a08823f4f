package royalty

import "fmt"

// CheckPayout reports whether Compute would accept the inputs, without
// computing anything. Callers that must commit other writes before the split
// use it to fail early, so it rejects every input Compute can fail on.
func CheckPayout(schedule Schedule, amount Amount, maxRecipients uint32) error {
	if uint64(len(schedule)) > uint64(maxRecipients) {
		return fmt.Errorf("%w: %d recipients, cap %d", ErrTooManyRecipientsForCaller, len(schedule), maxRecipients)
	}
	if total := schedule.Total(); total > TotalBasisPoints {
		return fmt.Errorf("%w: shares sum to %d", ErrRoyaltyExceedsTotal, total)
	}
	if amount.v.BitLen() > amountBits {
		return fmt.Errorf("%w: sale amount %s", ErrArithmeticOverflow, amount)
	}
	return nil
}

// Compute splits a sale of amount between the schedule's beneficiaries and
// the token owner.
//
// Every beneficiary other than owner receives floor(share*amount/10000). The
// owner receives floor((10000-perpetual)*amount/10000), where perpetual is
// the sum of the other beneficiaries' shares; an owner entry in the schedule
// is folded into that residual. Rounding losses are not redistributed, so
// the payout total may fall short of amount by up to one unit per recipient.
func Compute(schedule Schedule, owner AccountID, amount Amount, maxRecipients uint32) (Payout, error) {
	if err := CheckPayout(schedule, amount, maxRecipients); err != nil {
		return nil, err
	}
	return computeEntries(schedule.Entries(), owner, amount)
}

func computeEntries(entries []Entry, owner AccountID, amount Amount) (Payout, error) {
	payout := make(Payout, len(entries)+1)
	var perpetual uint64

	for _, e := range entries {
		if e.Account == owner {
			continue
		}
		owed, err := basisPointsOf(uint64(e.Share), amount)
		if err != nil {
			return nil, err
		}
		payout[e.Account] = owed
		perpetual += uint64(e.Share)
	}

	if perpetual > TotalBasisPoints {
		return nil, fmt.Errorf("%w: perpetual shares sum to %d", ErrRoyaltyExceedsTotal, perpetual)
	}
	residual, err := basisPointsOf(TotalBasisPoints-perpetual, amount)
	if err != nil {
		return nil, err
	}
	payout[owner] = residual
	return payout, nil
}
