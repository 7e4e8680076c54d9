package util

import (
	"github.com/google/uuid"
)

// NewSessionID returns an opaque identifier for a visitor's storage scope.
func NewSessionID() string {
	return uuid.NewString()
}

// IsSessionID reports whether s looks like an identifier issued by NewSessionID.
func IsSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
