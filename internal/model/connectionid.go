// Package model holds the data shapes captured while proxying GraphQL
// traffic: connection identity, the message envelope published to the
// broadcast bus, and the enums used to classify and filter it.
package model

import "github.com/google/uuid"

// ConnectionID identifies a single proxied exchange (one HTTP
// request/response pair, or one WS session) across every Message it
// produces. It wraps a string behind a pointer so clones stay O(1) and
// every Message sharing a connection points at the same backing value.
type ConnectionID struct {
	value *string
}

// NewConnectionID mints a fresh UUID-shaped connection identifier.
func NewConnectionID() ConnectionID {
	s := uuid.NewString()
	return ConnectionID{value: &s}
}

// String returns the opaque identifier.
func (c ConnectionID) String() string {
	if c.value == nil {
		return ""
	}
	return *c.value
}
