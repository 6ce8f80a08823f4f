package ledger

import "errors"

var (
	// ErrNoSuchToken indicates the token is not in the ledger.
	ErrNoSuchToken = errors.New("ledger: token not found")

	// ErrTokenExists indicates a token with this ID was already minted.
	ErrTokenExists = errors.New("ledger: token already exists")

	// ErrNotApproved indicates the sender may not move the token, or presented a stale approval ID.
	ErrNotApproved = errors.New("ledger: sender not approved")

	// ErrNotOwner indicates an owner-only token operation was called by someone else.
	ErrNotOwner = errors.New("ledger: caller does not own the token")

	// ErrSelfTransfer indicates the receiver already owns the token.
	ErrSelfTransfer = errors.New("ledger: current and next owner must differ")

	// ErrStateNotFound indicates no extension state has been saved yet.
	ErrStateNotFound = errors.New("ledger: extension state not found")

	// ErrInvalidTokenID indicates an empty token ID.
	ErrInvalidTokenID = errors.New("ledger: invalid token ID")
)
