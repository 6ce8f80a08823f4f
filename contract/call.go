package contract

import "github.com/bitfsorg/nftext-go/royalty"

// Call is the authorization context of one invocation: who is calling and
// how much value they attached.
type Call struct {
	Caller          royalty.AccountID
	AttachedDeposit uint64
}

// OneUnit returns a Call from caller carrying the one-unit payment marker
// every mutating entry point requires.
func OneUnit(caller royalty.AccountID) Call {
	return Call{Caller: caller, AttachedDeposit: 1}
}

func (c Call) requireOneUnit() error {
	if c.AttachedDeposit != 1 {
		return ErrPaymentMarkerRequired
	}
	return nil
}
