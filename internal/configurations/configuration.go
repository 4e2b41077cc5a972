// Package configurations implements the configuration store for veridoc.
// It manages model selector and inference parameter records with cached
// active reads and optimistic-concurrency writes.
package configurations

import (
	"encoding/json"
	"slices"
	"time"
)

// Group partitions configuration records by concern.
type Group string

// Valid configuration groups.
const (
	GroupModels    Group = "MODEL_IDS"
	GroupInference Group = "INFERENCE_PARAMS"
)

var groups = []Group{
	GroupModels,
	GroupInference,
}

// Groups returns the list of valid configuration groups.
func Groups() []Group {
	return groups
}

// UnmarshalJSON validates that the decoded string is a known group value.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Group(raw)
	if !slices.Contains(groups, v) {
		return ErrInvalidGroup
	}
	*g = v
	return nil
}

// ParseGroup validates a string as a known configuration group.
// Returns ErrInvalidGroup if the value is not recognized.
func ParseGroup(s string) (Group, error) {
	v := Group(s)
	if !slices.Contains(groups, v) {
		return "", ErrInvalidGroup
	}
	return v, nil
}

// Configuration is a single entry within a configuration group. UpdatedAt
// doubles as the optimistic-concurrency token: writes carry the value they
// last read and fail when the stored value has moved.
type Configuration struct {
	Group       Group     `json:"group"`
	Name        string    `json:"name"`
	Value       string    `json:"value"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to create a new configuration entry.
type CreateCommand struct {
	Group       Group   `json:"group"`
	Name        string  `json:"name"`
	Value       string  `json:"value"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
}

// UpdateCommand carries an optimistic configuration write. ExpectedUpdatedAt
// must match the stored token for the write to apply.
type UpdateCommand struct {
	Group             Group     `json:"group"`
	Name              string    `json:"name"`
	Value             string    `json:"value"`
	Description       *string   `json:"description"`
	Active            bool      `json:"active"`
	ExpectedUpdatedAt time.Time `json:"expected_updated_at"`
}
