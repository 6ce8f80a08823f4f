package ledger

import "github.com/bitfsorg/nftext-go/royalty"

// TokenID identifies a token within the collection.
type TokenID string

// Token is the ledger record of a single token.
type Token struct {
	ID             TokenID
	Owner          royalty.AccountID
	Approvals      map[royalty.AccountID]uint64 // approved account -> approval ID
	NextApprovalID uint64
}

func (t *Token) clone() *Token {
	c := *t
	c.Approvals = cloneApprovals(t.Approvals)
	return &c
}

func cloneApprovals(in map[royalty.AccountID]uint64) map[royalty.AccountID]uint64 {
	out := make(map[royalty.AccountID]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// TransferResult describes the token as it was before a transfer.
type TransferResult struct {
	PreviousOwner     royalty.AccountID
	PreviousApprovals map[royalty.AccountID]uint64
}

// TokenMetadata is the per-token metadata record (NEP-177 fields).
type TokenMetadata struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Media         *string `json:"media"`
	MediaHash     *string `json:"media_hash"`
	Copies        *uint64 `json:"copies"`
	IssuedAt      *string `json:"issued_at"`
	ExpiresAt     *string `json:"expires_at"`
	StartsAt      *string `json:"starts_at"`
	UpdatedAt     *string `json:"updated_at"`
	Extra         *string `json:"extra"`
	Reference     *string `json:"reference"`
	ReferenceHash *string `json:"reference_hash"`
}

// ExtensionState is the collection-level record kept next to the tokens: the
// collection owner, the royalty schedule in force and the extension lock.
type ExtensionState struct {
	Owner   royalty.AccountID
	Royalty royalty.Schedule
	Locked  bool
}

// Clone returns a deep copy of s.
func (s ExtensionState) Clone() ExtensionState {
	s.Royalty = s.Royalty.Clone()
	return s
}

// transfer applies NEP-171 transfer rules to tok in place. The sender must own
// the token or hold an approval; a supplied approval ID must match the one on
// record. Approvals are cleared on success.
func transfer(tok *Token, sender, receiver royalty.AccountID, approvalID *uint64) (*TransferResult, error) {
	if sender != tok.Owner {
		id, ok := tok.Approvals[sender]
		if !ok {
			return nil, ErrNotApproved
		}
		if approvalID != nil && *approvalID != id {
			return nil, ErrNotApproved
		}
	}
	if receiver == tok.Owner {
		return nil, ErrSelfTransfer
	}

	res := &TransferResult{
		PreviousOwner:     tok.Owner,
		PreviousApprovals: cloneApprovals(tok.Approvals),
	}
	tok.Owner = receiver
	tok.Approvals = map[royalty.AccountID]uint64{}
	return res, nil
}

// approve grants account an approval on tok and returns its approval ID.
func approve(tok *Token, caller, account royalty.AccountID) (uint64, error) {
	if caller != tok.Owner {
		return 0, ErrNotOwner
	}
	if tok.Approvals == nil {
		tok.Approvals = map[royalty.AccountID]uint64{}
	}
	id := tok.NextApprovalID
	tok.Approvals[account] = id
	tok.NextApprovalID++
	return id, nil
}
