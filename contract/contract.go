package contract

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/nftext-go/events"
	"github.com/bitfsorg/nftext-go/ledger"
	"github.com/bitfsorg/nftext-go/royalty"
)

// Locker is the one-way extension lock.
type Locker interface {
	// Lock permanently disables royalty and metadata mutation.
	Lock(c Call) error

	// IsLocked reports the lock state.
	IsLocked() IsLocked
}

// RoyaltyAdmin manages the royalty schedule and computes payouts from it.
type RoyaltyAdmin interface {
	// SetRoyalty replaces the royalty schedule.
	SetRoyalty(c Call, schedule royalty.Schedule) error

	// Royalty returns the schedule in force.
	Royalty() JSONRoyalty

	// Payout previews the split of a sale of the token without transferring it.
	Payout(id ledger.TokenID, amount royalty.Amount, maxRecipients uint32) (royalty.Payout, error)

	// TransferPayout transfers the token and returns the split of the sale.
	TransferPayout(c Call, req TransferRequest) (royalty.Payout, error)
}

// MetadataAdmin mutates token metadata.
type MetadataAdmin interface {
	// SetTokenMetadata replaces one token's metadata.
	SetTokenMetadata(c Call, id ledger.TokenID, md ledger.TokenMetadata) error
}

// Compile-time interface checks.
var (
	_ Locker        = (*Contract)(nil)
	_ RoyaltyAdmin  = (*Contract)(nil)
	_ MetadataAdmin = (*Contract)(nil)
)

// Deps are the collaborators a Contract calls into.
type Deps struct {
	Tokens   ledger.TokenLedger   // required
	States   ledger.StateStore    // required
	Metadata ledger.MetadataStore // nil disables SetTokenMetadata
	Events   events.Sink          // nil discards events
	Logger   *zap.Logger          // nil disables logging
}

func (d *Deps) check() error {
	if d.Tokens == nil {
		return fmt.Errorf("%w: token ledger", ErrNilParam)
	}
	if d.States == nil {
		return fmt.Errorf("%w: state store", ErrNilParam)
	}
	if d.Events == nil {
		d.Events = events.Discard
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return nil
}

// Contract is the NFT extension state aggregate. It holds the only state that
// outlives a call (collection owner, royalty schedule, lock) and implements
// Locker, RoyaltyAdmin and MetadataAdmin over it.
//
// Calls are expected to be serialized by the host; Contract does no locking
// of its own. Every mutation persists a complete new state before the
// in-memory copy is replaced, so a rejected call leaves no trace.
type Contract struct {
	state    ledger.ExtensionState
	states   ledger.StateStore
	tokens   ledger.TokenLedger
	metadata ledger.MetadataStore
	sink     events.Sink
	log      *zap.Logger
}

// Init creates the extension state for a collection owned by owner: empty
// schedule, unlocked.
func Init(owner royalty.AccountID, deps Deps) (*Contract, error) {
	if err := deps.check(); err != nil {
		return nil, err
	}
	if owner == "" {
		return nil, fmt.Errorf("%w: owner", ErrNilParam)
	}
	_, err := deps.States.LoadState()
	switch {
	case err == nil:
		return nil, ErrAlreadyInitialized
	case !errors.Is(err, ledger.ErrStateNotFound):
		return nil, fmt.Errorf("contract: load state: %w", err)
	}

	st := ledger.ExtensionState{Owner: owner, Royalty: royalty.Schedule{}}
	if err := deps.States.SaveState(st); err != nil {
		return nil, fmt.Errorf("contract: save initial state: %w", err)
	}
	c := newContract(st, deps)
	c.log.Info("contract initialized", zap.String("owner", string(owner)))
	return c, nil
}

// Load restores a Contract from previously saved state.
func Load(deps Deps) (*Contract, error) {
	if err := deps.check(); err != nil {
		return nil, err
	}
	st, err := deps.States.LoadState()
	if err != nil {
		return nil, fmt.Errorf("contract: load state: %w", err)
	}
	if st.Royalty == nil {
		st.Royalty = royalty.Schedule{}
	}
	if err := royalty.Validate(st.Royalty); err != nil {
		return nil, fmt.Errorf("contract: saved royalty schedule: %w", err)
	}
	return newContract(st, deps), nil
}

func newContract(st ledger.ExtensionState, deps Deps) *Contract {
	return &Contract{
		state:    st,
		states:   deps.States,
		tokens:   deps.Tokens,
		metadata: deps.Metadata,
		sink:     deps.Events,
		log:      deps.Logger,
	}
}

// Owner returns the collection owner.
func (c *Contract) Owner() royalty.AccountID { return c.state.Owner }

// State returns a copy of the persisted state.
func (c *Contract) State() ledger.ExtensionState { return c.state.Clone() }

// commit persists next and makes it current.
func (c *Contract) commit(next ledger.ExtensionState) error {
	if err := c.states.SaveState(next); err != nil {
		return fmt.Errorf("contract: save state: %w", err)
	}
	c.state = next
	return nil
}

// authorizeGated runs the checks shared by every lock-gated mutation.
func (c *Contract) authorizeGated(call Call) error {
	if err := call.requireOneUnit(); err != nil {
		return err
	}
	if c.state.Locked {
		return ErrLocked
	}
	if call.Caller != c.state.Owner {
		return fmt.Errorf("%w: %s is not the collection owner", ErrUnauthorized, call.Caller)
	}
	return nil
}

func (c *Contract) reject(op string, call Call, err error) error {
	c.log.Debug("call rejected",
		zap.String("op", op),
		zap.String("caller", string(call.Caller)),
		zap.String("kind", string(KindOf(err))),
		zap.Error(err))
	return err
}
