package core

import (
	"github.com/google/uuid"
)

// ID identifies an element for its whole lifetime
// IDs are UUIDv7 strings: unique, and lexicographic order is issue order
type ID string

// NoID is the empty identity
const NoID ID = ""

// NewID issues a fresh identity
func NewID() ID {
	u, err := uuid.NewV7()
	if err != nil {
		// Entropy failure, v4 is still unique though not ordered
		return ID(uuid.NewString())
	}
	return ID(u.String())
}

// Newer reports whether a was issued after b
func (a ID) Newer(b ID) bool {
	return a > b
}

// Short returns the trailing random segment for logs
func (a ID) Short() string {
	s := string(a)
	if len(s) > 8 {
		return s[len(s)-8:]
	}
	return s
}
