package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	SessionID    ID
	PredictionID ID
)

func NewSessionID() SessionID       { return SessionID(NewID()) }
func NewPredictionID() PredictionID { return PredictionID(NewID()) }

func (id SessionID) String() string    { return ID(id).String() }
func (id PredictionID) String() string { return ID(id).String() }

// ParseSessionID parses a string into SessionID
func ParseSessionID(s string) (SessionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid session ID %q: %w", s, err)
	}
	return SessionID(s), nil
}

// Seed derives a deterministic int64 from the identifier's random bits
func (id SessionID) Seed() int64 {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return 0
	}
	var seed int64
	for _, b := range u[8:] {
		seed = seed<<8 | int64(b)
	}
	return seed
}
