package contract

import (
	"go.uber.org/zap"

	"github.com/bitfsorg/nftext-go/events"
	"github.com/bitfsorg/nftext-go/ledger"
)

// SetTokenMetadata replaces one token's metadata and emits a SetTokenMetadata
// event with the previous value. It is gated by the extension lock.
func (c *Contract) SetTokenMetadata(call Call, id ledger.TokenID, md ledger.TokenMetadata) error {
	if err := c.authorizeGated(call); err != nil {
		return c.reject("set_token_metadata", call, err)
	}
	if c.metadata == nil {
		return c.reject("set_token_metadata", call, ErrMetadataUnsupported)
	}

	previous, err := c.metadata.Metadata(id)
	if err != nil {
		return c.reject("set_token_metadata", call, err)
	}
	if err := c.metadata.SetMetadata(id, md); err != nil {
		return c.reject("set_token_metadata", call, err)
	}

	c.sink.Emit(events.SetTokenMetadata{TokenID: id, PreviousTokenMetadata: previous, NewTokenMetadata: md})
	c.log.Info("token metadata replaced", zap.String("token_id", string(id)))
	return nil
}
