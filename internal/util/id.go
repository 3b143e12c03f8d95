package util

import "github.com/google/uuid"

// NewID generates a new unique identifier used for messages, threads and
// consultation ids throughout the engine.
func NewID() string { return uuid.NewString() }

// ShortID returns the first eight hex characters of a fresh UUID. Used for
// human-scannable identifiers such as consultation thread ids.
func ShortID() string {
	id := uuid.New()
	return id.String()[:8]
}
