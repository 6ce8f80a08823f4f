package settle

import "errors"

var (
	// ErrUnknownBeneficiary indicates a payout recipient has no address in the book.
	ErrUnknownBeneficiary = errors.New("settle: beneficiary has no settlement address")

	// ErrAmountTooLarge indicates a payout amount does not fit an output value.
	ErrAmountTooLarge = errors.New("settle: amount exceeds output value range")

	// ErrInvalidAddress indicates an address is not a 20-byte public key hash.
	ErrInvalidAddress = errors.New("settle: address must be a 20-byte public key hash")

	// ErrScriptBuild indicates locking script construction failed.
	ErrScriptBuild = errors.New("settle: script build failed")

	// ErrEmptyPayout indicates no recipient is owed anything.
	ErrEmptyPayout = errors.New("settle: nothing to pay")
)
