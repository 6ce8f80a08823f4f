package contract

import (
	"go.uber.org/zap"

	"github.com/bitfsorg/nftext-go/events"
	"github.com/bitfsorg/nftext-go/ledger"
	"github.com/bitfsorg/nftext-go/royalty"
)

// JSONRoyalty is the JSON view of the royalty schedule.
type JSONRoyalty struct {
	Royalty royalty.Schedule `json:"royalty"`
}

// TransferRequest holds the arguments of TransferPayout.
type TransferRequest struct {
	Receiver      royalty.AccountID
	TokenID       ledger.TokenID
	ApprovalID    *uint64 // required to match when the caller is an approved account
	Memo          string
	Amount        royalty.Amount
	MaxRecipients uint32
}

// SetRoyalty validates and stores a new schedule, replacing the old one
// wholesale, and emits a SetRoyalty event carrying both.
func (c *Contract) SetRoyalty(call Call, schedule royalty.Schedule) error {
	if err := c.authorizeGated(call); err != nil {
		return c.reject("set_royalty", call, err)
	}
	if err := royalty.Validate(schedule); err != nil {
		return c.reject("set_royalty", call, err)
	}

	previous := c.state.Royalty.Clone()
	next := c.state.Clone()
	next.Royalty = schedule.Clone()
	if err := c.commit(next); err != nil {
		return c.reject("set_royalty", call, err)
	}

	c.sink.Emit(events.SetRoyalty{PreviousRoyalty: previous, NewRoyalty: next.Royalty.Clone()})
	c.log.Info("royalty schedule replaced",
		zap.Int("beneficiaries", len(schedule)),
		zap.Uint64("total_bps", schedule.Total()))
	return nil
}

// Royalty returns the schedule in force.
func (c *Contract) Royalty() JSONRoyalty {
	return JSONRoyalty{Royalty: c.state.Royalty.Clone()}
}

// Payout previews the split of a sale of the token by its current owner.
// It performs no checks on the caller and changes nothing.
func (c *Contract) Payout(id ledger.TokenID, amount royalty.Amount, maxRecipients uint32) (royalty.Payout, error) {
	owner, err := c.tokens.OwnerOf(id)
	if err != nil {
		return nil, err
	}
	return royalty.Compute(c.state.Royalty, owner, amount, maxRecipients)
}

// TransferPayout transfers the token to req.Receiver and returns how the sale
// amount splits between the schedule's beneficiaries and the previous owner.
// No currency moves; settling the payout is the caller's job.
//
// The payout preconditions are checked before the transfer so that a call
// rejected for its payout arguments never moves the token.
func (c *Contract) TransferPayout(call Call, req TransferRequest) (royalty.Payout, error) {
	if err := call.requireOneUnit(); err != nil {
		return nil, c.reject("transfer_payout", call, err)
	}
	schedule := c.state.Royalty
	if err := royalty.CheckPayout(schedule, req.Amount, req.MaxRecipients); err != nil {
		return nil, c.reject("transfer_payout", call, err)
	}

	res, err := c.tokens.Transfer(call.Caller, req.Receiver, req.TokenID, req.ApprovalID, req.Memo)
	if err != nil {
		return nil, c.reject("transfer_payout", call, err)
	}

	payout, err := royalty.Compute(schedule, res.PreviousOwner, req.Amount, req.MaxRecipients)
	if err != nil {
		// CheckPayout rejects every input Compute fails on.
		c.log.Error("payout failed after transfer",
			zap.String("token_id", string(req.TokenID)),
			zap.Error(err))
		return nil, err
	}

	c.log.Info("token transferred with payout",
		zap.String("token_id", string(req.TokenID)),
		zap.String("from", string(res.PreviousOwner)),
		zap.String("to", string(req.Receiver)),
		zap.Stringer("amount", req.Amount),
		zap.Int("recipients", len(payout)))
	return payout, nil
}
