package verifications_test

import (
	"testing"

	"github.com/veridoc-io/veridoc/internal/verifications"
)

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from verifications.Status
		to   verifications.Status
		want bool
	}{
		{"pending to in progress", verifications.StatusPending, verifications.StatusInProgress, true},
		{"pending to completed", verifications.StatusPending, verifications.StatusCompleted, false},
		{"in progress to needs info", verifications.StatusInProgress, verifications.StatusNeedsInfo, true},
		{"in progress to completed", verifications.StatusInProgress, verifications.StatusCompleted, true},
		{"in progress to failed", verifications.StatusInProgress, verifications.StatusFailed, true},
		{"in progress to pending", verifications.StatusInProgress, verifications.StatusPending, false},
		{"needs info to in progress", verifications.StatusNeedsInfo, verifications.StatusInProgress, true},
		{"needs info to completed", verifications.StatusNeedsInfo, verifications.StatusCompleted, false},
		{"completed is terminal", verifications.StatusCompleted, verifications.StatusInProgress, false},
		{"failed is terminal", verifications.StatusFailed, verifications.StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status verifications.Status
		want   bool
	}{
		{verifications.StatusPending, false},
		{verifications.StatusInProgress, false},
		{verifications.StatusNeedsInfo, false},
		{verifications.StatusCompleted, true},
		{verifications.StatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("Terminal(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := verifications.ParseStatus("InProgress"); err != nil {
		t.Errorf("ParseStatus(InProgress) failed: %v", err)
	}
	if _, err := verifications.ParseStatus("Running"); err == nil {
		t.Error("ParseStatus(Running) expected error, got nil")
	}
}
