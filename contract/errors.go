package contract

import (
	"errors"

	"github.com/bitfsorg/nftext-go/ledger"
	"github.com/bitfsorg/nftext-go/royalty"
)

var (
	// ErrUnauthorized indicates the caller is not the collection owner.
	ErrUnauthorized = errors.New("contract: unauthorized")

	// ErrLocked indicates a lock-gated mutation was attempted after Lock.
	ErrLocked = errors.New("contract: locked function")

	// ErrPaymentMarkerRequired indicates the call did not attach exactly one unit.
	ErrPaymentMarkerRequired = errors.New("contract: requires attached deposit of exactly 1 unit")

	// ErrMetadataUnsupported indicates the contract was built without a metadata store.
	ErrMetadataUnsupported = errors.New("contract: token metadata not supported")

	// ErrAlreadyInitialized indicates Init was called on a store that already holds state.
	ErrAlreadyInitialized = errors.New("contract: already initialized")

	// ErrNilParam indicates a required dependency is nil.
	ErrNilParam = errors.New("contract: required parameter is nil")
)

// ErrorKind is the caller-visible tag of a rejected call.
type ErrorKind string

const (
	KindUnauthorized               ErrorKind = "Unauthorized"
	KindLocked                     ErrorKind = "Locked"
	KindPaymentMarkerRequired      ErrorKind = "PaymentMarkerRequired"
	KindTooManyBeneficiaries       ErrorKind = "TooManyBeneficiaries"
	KindRoyaltyExceedsTotal        ErrorKind = "RoyaltyExceedsTotal"
	KindTooManyRecipientsForCaller ErrorKind = "TooManyRecipientsForCaller"
	KindArithmeticOverflow         ErrorKind = "ArithmeticOverflow"
	KindNoSuchToken                ErrorKind = "NoSuchToken"
	KindNotApproved                ErrorKind = "NotApproved"
	KindSelfTransfer               ErrorKind = "SelfTransfer"
	KindInternal                   ErrorKind = "Internal"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrUnauthorized, KindUnauthorized},
	{ledger.ErrNotOwner, KindUnauthorized},
	{ErrLocked, KindLocked},
	{ErrPaymentMarkerRequired, KindPaymentMarkerRequired},
	{royalty.ErrTooManyBeneficiaries, KindTooManyBeneficiaries},
	{royalty.ErrRoyaltyExceedsTotal, KindRoyaltyExceedsTotal},
	{royalty.ErrTooManyRecipientsForCaller, KindTooManyRecipientsForCaller},
	{royalty.ErrArithmeticOverflow, KindArithmeticOverflow},
	{ledger.ErrNoSuchToken, KindNoSuchToken},
	{ledger.ErrNotApproved, KindNotApproved},
	{ledger.ErrSelfTransfer, KindSelfTransfer},
}

// KindOf classifies err. Errors outside the taxonomy are KindInternal; a nil
// error has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
