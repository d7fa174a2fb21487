// Package id provides UUIDv7 generation for all platform entities.
// UUIDv7 is time-ordered, so primary keys sort by creation time and
// keep good B-tree locality in PostgreSQL.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// V7 only fails when the random source does; fall back to V4.
		return uuid.New()
	}
	return id
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil checks if ID is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
