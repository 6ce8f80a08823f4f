package royalty

import "errors"

var (
	// ErrTooManyBeneficiaries indicates a schedule names more than MaxBeneficiaries accounts.
	ErrTooManyBeneficiaries = errors.New("royalty: cannot add more than 6 royalty amounts")

	// ErrRoyaltyExceedsTotal indicates the shares of a schedule sum to 100% or more.
	ErrRoyaltyExceedsTotal = errors.New("royalty: cannot set 100% or more for royalties")

	// ErrTooManyRecipientsForCaller indicates the schedule exceeds the caller's payout cap.
	ErrTooManyRecipientsForCaller = errors.New("royalty: market cannot payout to that many receivers")

	// ErrArithmeticOverflow indicates an amount does not fit the supported 128-bit range.
	ErrArithmeticOverflow = errors.New("royalty: arithmetic overflow")

	// ErrInvalidAmount indicates an amount string could not be parsed.
	ErrInvalidAmount = errors.New("royalty: invalid amount")

	// ErrPayoutMismatch indicates a payout differs from the one the schedule produces.
	ErrPayoutMismatch = errors.New("royalty: payout does not match schedule")
)
