package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bitfsorg/nftext-go/ledger"
	"github.com/bitfsorg/nftext-go/royalty"
)

const (
	// Standard is the standard name carried by every event.
	Standard = "nft_extensions"

	// Version is the event schema version.
	Version = "1.0.0"

	// LinePrefix marks a log line as a structured event.
	LinePrefix = "EVENT_JSON:"
)

// Kind names an event type.
type Kind string

const (
	KindSetRoyalty       Kind = "set_royalty"
	KindSetTokenMetadata Kind = "set_token_metadata"
)

// Event is a record of one mutation.
type Event interface {
	Kind() Kind
}

// SetRoyalty records a royalty schedule replacement.
type SetRoyalty struct {
	PreviousRoyalty royalty.Schedule `json:"previous_royalty"`
	NewRoyalty      royalty.Schedule `json:"new_royalty"`
}

// Kind implements Event.
func (SetRoyalty) Kind() Kind { return KindSetRoyalty }

// SetTokenMetadata records a token metadata replacement.
type SetTokenMetadata struct {
	TokenID               ledger.TokenID        `json:"token_id"`
	PreviousTokenMetadata *ledger.TokenMetadata `json:"previous_token_metadata"`
	NewTokenMetadata      ledger.TokenMetadata  `json:"new_token_metadata"`
}

// Kind implements Event.
func (SetTokenMetadata) Kind() Kind { return KindSetTokenMetadata }

// Envelope is the JSON shape of an emitted event.
type Envelope struct {
	Standard string          `json:"standard"`
	Version  string          `json:"version"`
	Event    Kind            `json:"event"`
	Data     json.RawMessage `json:"data"`
}

// Wrap builds the envelope for ev.
func Wrap(ev Event) (Envelope, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: encode %s: %w", ev.Kind(), err)
	}
	return Envelope{Standard: Standard, Version: Version, Event: ev.Kind(), Data: data}, nil
}

// Encode renders ev as a single prefixed log line, without a trailing newline.
func Encode(ev Event) (string, error) {
	env, err := Wrap(ev)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("events: encode envelope: %w", err)
	}
	return LinePrefix + string(body), nil
}

// Decode parses a prefixed log line back into its envelope.
func Decode(line string) (Envelope, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(line), LinePrefix)
	if !ok {
		return Envelope{}, ErrNotEventLine
	}
	var env Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if env.Standard != Standard || env.Event == "" {
		return Envelope{}, fmt.Errorf("%w: standard %q event %q", ErrInvalidEvent, env.Standard, env.Event)
	}
	return env, nil
}

// DecodeData unmarshals the envelope payload into the typed record for its kind.
func (e Envelope) DecodeData() (Event, error) {
	var ev Event
	switch e.Event {
	case KindSetRoyalty:
		var r SetRoyalty
		if err := json.Unmarshal(e.Data, &r); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
		ev = r
	case KindSetTokenMetadata:
		var m SetTokenMetadata
		if err := json.Unmarshal(e.Data, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
		ev = m
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Event)
	}
	return ev, nil
}
