// Package prompts implements the prompt store for veridoc. It manages the
// verification prompt templates (system role + task instructions), the
// single-active-prompt invariant, and cached active reads.
package prompts

import (
	"time"

	"github.com/google/uuid"
)

// Prompt is a stored verification prompt template. Role is the system
// persona sent with every inference; Tasks holds the task instructions.
// At most one prompt is active at any time observable by a new read.
type Prompt struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Tasks     string    `json:"tasks"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to create a new prompt.
type CreateCommand struct {
	Role   string `json:"role"`
	Tasks  string `json:"tasks"`
	Active bool   `json:"active"`
}

// UpdateCommand carries the data needed to update an existing prompt.
type UpdateCommand struct {
	Role  string `json:"role"`
	Tasks string `json:"tasks"`
}
