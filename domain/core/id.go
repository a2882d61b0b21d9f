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
		// Fallback to v4 if v7 fails
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
	ResultID ID
	TestName ID
)

func (id ResultID) String() string { return ID(id).String() }
func (n TestName) String() string  { return ID(n).String() }

// NewResultID creates a fresh identifier for an evaluation result
func NewResultID() ResultID {
	return ResultID(NewID())
}

// ParseTestName normalizes and validates an evaluator name
func ParseTestName(s string) (TestName, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return "", fmt.Errorf("test name cannot be empty")
	}
	return TestName(name), nil
}
