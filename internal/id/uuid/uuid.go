// Package uuid names trail runs.
package uuid

import (
	"github.com/google/uuid"
)

// Generator creates run IDs. IDs are UUIDv7 so they sort by start time.
type Generator struct{}

// New creates a new Generator.
func New() Generator {
	return Generator{}
}

// NewID returns a UUIDv7 string, or a random UUIDv4 string when the v7
// generator cannot read the clock sequence.
func (Generator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
