// Package corpus holds the corpus aggregate: one independently indexed
// set of ingested documents managed by a retrieval provider.
package corpus

import (
	"fmt"
	"strings"
)

// State is the lifecycle state reported by the provider.
type State string

const (
	// StateActive means the corpus is queryable.
	StateActive State = "active"
	// StateCreating means indexing resources are still being provisioned.
	StateCreating State = "creating"
	// StateError means the provider reports the corpus unusable.
	StateError State = "error"
)

// IsValid checks if the state is a known lifecycle state.
func (s State) IsValid() bool {
	return s == StateActive || s == StateCreating || s == StateError
}

// Corpus is an immutable value object describing one collection.
type Corpus struct {
	id          string
	displayName string
	description string
	fileCount   int
	state       State
	createdAt   int64
}

// ValidateDisplayName checks a caller-supplied display name.
// Non-empty after trimming, max 128 chars.
func ValidateDisplayName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("display name is required")
	}
	if len(trimmed) > 128 {
		return fmt.Errorf("display name too long (max 128)")
	}
	return nil
}

// ValidateDescription checks a caller-supplied description.
func ValidateDescription(desc string) error {
	if len(desc) > 1024 {
		return fmt.Errorf("description too long (max 1024)")
	}
	return nil
}

// New validates and creates a Corpus.
func New(id, displayName, description string, fileCount int, state State, createdAt int64) (Corpus, error) {
	if id == "" {
		return Corpus{}, fmt.Errorf("corpus id is required")
	}
	if err := ValidateDisplayName(displayName); err != nil {
		return Corpus{}, err
	}
	if err := ValidateDescription(description); err != nil {
		return Corpus{}, err
	}
	if state == "" {
		state = StateActive
	}
	if !state.IsValid() {
		return Corpus{}, fmt.Errorf("invalid corpus state: %q", state)
	}
	if fileCount < 0 {
		return Corpus{}, fmt.Errorf("file count must not be negative")
	}
	return Corpus{
		id:          id,
		displayName: strings.TrimSpace(displayName),
		description: description,
		fileCount:   fileCount,
		state:       state,
		createdAt:   createdAt,
	}, nil
}

// Reconstruct creates a Corpus without validation (provider hydration).
func Reconstruct(id, displayName, description string, fileCount int, state State, createdAt int64) Corpus {
	if state == "" {
		state = StateActive
	}
	return Corpus{
		id:          id,
		displayName: displayName,
		description: description,
		fileCount:   fileCount,
		state:       state,
		createdAt:   createdAt,
	}
}

// ID returns the provider-assigned corpus identifier.
func (c Corpus) ID() string { return c.id }

// DisplayName returns the human-readable name.
func (c Corpus) DisplayName() string { return c.displayName }

// Description returns the free-form description.
func (c Corpus) Description() string { return c.description }

// FileCount returns the number of imported files.
func (c Corpus) FileCount() int { return c.fileCount }

// State returns the lifecycle state.
func (c Corpus) State() State { return c.state }

// CreatedAt returns the creation timestamp (unix millis, 0 when unknown).
func (c Corpus) CreatedAt() int64 { return c.createdAt }

// NameMatches reports whether the display name equals the given name
// after trimming, ignoring case. Used by name resolution.
func (c Corpus) NameMatches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(c.displayName), strings.TrimSpace(name))
}
