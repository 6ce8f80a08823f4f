package ledger

import (
	"fmt"
	"sync"

	"github.com/bitfsorg/nftext-go/royalty"
)

// TokenLedger owns token ownership and approvals.
type TokenLedger interface {
	// OwnerOf returns the current owner of a token.
	OwnerOf(id TokenID) (royalty.AccountID, error)

	// Transfer moves a token from its owner to receiver on behalf of sender.
	Transfer(sender, receiver royalty.AccountID, id TokenID, approvalID *uint64, memo string) (*TransferResult, error)
}

// MetadataStore owns per-token metadata.
type MetadataStore interface {
	// Metadata returns the token's metadata, or nil if none was set.
	Metadata(id TokenID) (*TokenMetadata, error)

	// SetMetadata replaces the token's metadata.
	SetMetadata(id TokenID, md TokenMetadata) error
}

// StateStore persists the collection-level ExtensionState.
type StateStore interface {
	// LoadState returns the saved state, or ErrStateNotFound.
	LoadState() (ExtensionState, error)

	// SaveState replaces the saved state.
	SaveState(s ExtensionState) error
}

// MemStore is an in-memory implementation of TokenLedger, MetadataStore and
// StateStore for testing.
type MemStore struct {
	mu       sync.RWMutex
	tokens   map[TokenID]*Token
	metadata map[TokenID]TokenMetadata
	state    *ExtensionState
}

// Compile-time interface checks.
var (
	_ TokenLedger   = (*MemStore)(nil)
	_ MetadataStore = (*MemStore)(nil)
	_ StateStore    = (*MemStore)(nil)
)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		tokens:   make(map[TokenID]*Token),
		metadata: make(map[TokenID]TokenMetadata),
	}
}

// Mint creates a token owned by owner with optional metadata.
func (s *MemStore) Mint(id TokenID, owner royalty.AccountID, md *TokenMetadata) error {
	if id == "" {
		return ErrInvalidTokenID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[id]; exists {
		return fmt.Errorf("%w: %s", ErrTokenExists, id)
	}
	s.tokens[id] = &Token{ID: id, Owner: owner, Approvals: map[royalty.AccountID]uint64{}}
	if md != nil {
		s.metadata[id] = *md
	}
	return nil
}

// Token returns a copy of the token record.
func (s *MemStore) Token(id TokenID) (*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tok, ok := s.tokens[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchToken, id)
	}
	return tok.clone(), nil
}

// OwnerOf returns the current owner of a token.
func (s *MemStore) OwnerOf(id TokenID) (royalty.AccountID, error) {
	tok, err := s.Token(id)
	if err != nil {
		return "", err
	}
	return tok.Owner, nil
}

// Approve lets account transfer the token on the owner's behalf.
func (s *MemStore) Approve(caller royalty.AccountID, id TokenID, account royalty.AccountID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSuchToken, id)
	}
	next := tok.clone()
	approvalID, err := approve(next, caller, account)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", err, id)
	}
	s.tokens[id] = next
	return approvalID, nil
}

// Transfer moves a token from its owner to receiver on behalf of sender.
func (s *MemStore) Transfer(sender, receiver royalty.AccountID, id TokenID, approvalID *uint64, memo string) (*TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchToken, id)
	}
	next := tok.clone()
	res, err := transfer(next, sender, receiver, approvalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, id)
	}
	s.tokens[id] = next
	return res, nil
}

// Metadata returns the token's metadata, or nil if none was set.
func (s *MemStore) Metadata(id TokenID) (*TokenMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.tokens[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchToken, id)
	}
	md, ok := s.metadata[id]
	if !ok {
		return nil, nil
	}
	return &md, nil
}

// SetMetadata replaces the token's metadata.
func (s *MemStore) SetMetadata(id TokenID, md TokenMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchToken, id)
	}
	s.metadata[id] = md
	return nil
}

// LoadState returns the saved state, or ErrStateNotFound.
func (s *MemStore) LoadState() (ExtensionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return ExtensionState{}, ErrStateNotFound
	}
	return s.state.Clone(), nil
}

// SaveState replaces the saved state.
func (s *MemStore) SaveState(st ExtensionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := st.Clone()
	s.state = &c
	return nil
}
