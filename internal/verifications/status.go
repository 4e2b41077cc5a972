package verifications

import (
	"encoding/json"
	"fmt"
)

// Status represents the lifecycle state of a verification workflow.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusNeedsInfo  Status = "NeedsInfo"
	StatusCompleted  Status = "Completed"
	StatusFailed     Status = "Failed"
)

// transitions defines the permitted edges of the workflow state machine.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusNeedsInfo, StatusCompleted, StatusFailed},
	StatusNeedsInfo:  {StatusInProgress},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether the status is one of the defined values.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a permitted edge.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ParseStatus converts a string into a Status, failing on unknown values.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.Valid() {
		return "", fmt.Errorf("invalid verification status: %s", value)
	}
	return s, nil
}

// UnmarshalJSON implements json.Unmarshaler with validation.
func (s *Status) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	parsed, err := ParseStatus(value)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}
