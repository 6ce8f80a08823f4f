package contract

import (
	"fmt"

	"go.uber.org/zap"
)

// IsLocked is the JSON view of the extension lock.
type IsLocked struct {
	IsLocked bool `json:"is_locked"`
}

// Lock sets the extension lock. Only the collection owner may call it, with
// the payment marker attached. Locking an already locked contract is a no-op.
// There is no unlock.
func (c *Contract) Lock(call Call) error {
	if err := call.requireOneUnit(); err != nil {
		return c.reject("lock", call, err)
	}
	if call.Caller != c.state.Owner {
		return c.reject("lock", call, fmt.Errorf("%w: %s is not the collection owner", ErrUnauthorized, call.Caller))
	}
	if c.state.Locked {
		return nil
	}

	next := c.state.Clone()
	next.Locked = true
	if err := c.commit(next); err != nil {
		return c.reject("lock", call, err)
	}
	c.log.Info("extension locked", zap.String("owner", string(call.Caller)))
	return nil
}

// IsLocked reports the lock state.
func (c *Contract) IsLocked() IsLocked {
	return IsLocked{IsLocked: c.state.Locked}
}
