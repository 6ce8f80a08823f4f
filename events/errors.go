package events

import "errors"

var (
	// ErrNotEventLine indicates a log line does not carry the event prefix.
	ErrNotEventLine = errors.New("events: line is not an event")

	// ErrInvalidEvent indicates an event line could not be decoded.
	ErrInvalidEvent = errors.New("events: invalid event")
)
