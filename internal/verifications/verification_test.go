package verifications_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/veridoc-io/veridoc/internal/verifications"
)

func newInProgress() *verifications.Verification {
	return &verifications.Verification{
		ID:     uuid.New(),
		Status: verifications.StatusInProgress,
	}
}

func TestTransitionInvalidNamesCurrentStatus(t *testing.T) {
	v := &verifications.Verification{Status: verifications.StatusCompleted}

	err := v.Transition(verifications.StatusInProgress)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, verifications.ErrInvalidState) {
		t.Errorf("error = %v, want ErrInvalidState", err)
	}
	if !strings.Contains(err.Error(), "Completed") {
		t.Errorf("error %q does not name current status Completed", err.Error())
	}
	if v.Status != verifications.StatusCompleted {
		t.Errorf("status changed to %s, want Completed untouched", v.Status)
	}
}

func TestComplete(t *testing.T) {
	v := newInProgress()

	if err := v.Complete("passport", 0.9, "document verified"); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if v.Status != verifications.StatusCompleted {
		t.Errorf("status = %s, want Completed", v.Status)
	}
	if v.DocumentType == nil || *v.DocumentType != "passport" {
		t.Errorf("document type = %v, want passport", v.DocumentType)
	}
	if v.Confidence == nil || *v.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", v.Confidence)
	}
	if v.ResultSummary == nil || *v.ResultSummary != "document verified" {
		t.Errorf("result summary = %v, want document verified", v.ResultSummary)
	}
}

func TestPauseAndResume(t *testing.T) {
	v := newInProgress()

	if err := v.Pause("need more information about the issuing country"); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if v.Status != verifications.StatusNeedsInfo {
		t.Fatalf("status = %s, want NeedsInfo", v.Status)
	}
	if v.NeedsInfoRequest == nil {
		t.Fatal("needs info request not set")
	}

	if err := v.Resume("issued in Canada"); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if v.Status != verifications.StatusInProgress {
		t.Errorf("status = %s, want InProgress", v.Status)
	}
	if v.NeedsInfoRequest != nil {
		t.Error("needs info request should be cleared on resume")
	}
	if len(v.AdditionalInfo) != 1 || v.AdditionalInfo[0] != "issued in Canada" {
		t.Errorf("additional info = %v, want [issued in Canada]", v.AdditionalInfo)
	}
}

func TestResumeRejectedOutsideNeedsInfo(t *testing.T) {
	for _, status := range []verifications.Status{
		verifications.StatusPending,
		verifications.StatusInProgress,
		verifications.StatusCompleted,
		verifications.StatusFailed,
	} {
		v := &verifications.Verification{Status: status}
		err := v.Resume("extra")
		if !errors.Is(err, verifications.ErrInvalidState) {
			t.Errorf("Resume from %s: error = %v, want ErrInvalidState", status, err)
		}
		if len(v.AdditionalInfo) != 0 {
			t.Errorf("Resume from %s recorded info on failure", status)
		}
	}
}

func TestFail(t *testing.T) {
	v := newInProgress()

	if err := v.Fail("adapter unreachable"); err != nil {
		t.Fatalf("fail failed: %v", err)
	}
	if v.Status != verifications.StatusFailed {
		t.Errorf("status = %s, want Failed", v.Status)
	}
	if v.Error == nil || *v.Error != "adapter unreachable" {
		t.Errorf("error = %v, want adapter unreachable", v.Error)
	}
}

func TestStepsAppendOnly(t *testing.T) {
	v := newInProgress()

	for i, tool := range []string{"classify", "authenticate", "extract", "reconcile"} {
		v.AppendStep(verifications.StepRecord{
			StepID:    uuid.NewString(),
			Tool:      tool,
			Output:    json.RawMessage(`{"confidence": 0.5}`),
			Timestamp: time.Now().UTC(),
		})

		if len(v.Steps) != i+1 {
			t.Fatalf("after %s: steps = %d, want %d", tool, len(v.Steps), i+1)
		}
	}

	if v.Steps[0].Tool != "classify" {
		t.Errorf("first step tool = %s, want classify", v.Steps[0].Tool)
	}
}

func TestCloneSharesNoMutableState(t *testing.T) {
	docType := "passport"
	confidence := 0.85
	v := newInProgress()
	v.DocumentType = &docType
	v.Confidence = &confidence
	v.AdditionalInfo = []string{"issued 2019"}
	v.AppendStep(verifications.StepRecord{
		StepID:    uuid.NewString(),
		Tool:      "classify",
		Output:    json.RawMessage(`{"confidence": 0.85}`),
		Timestamp: time.Now().UTC(),
	})

	c := v.Clone()

	c.Status = verifications.StatusCompleted
	*c.DocumentType = "invoice"
	*c.Confidence = 0.1
	c.AdditionalInfo[0] = "altered"
	c.Steps[0].Output[2] = 'x'
	c.AppendStep(verifications.StepRecord{Tool: "authenticate"})

	if v.Status != verifications.StatusInProgress {
		t.Errorf("status = %s, want InProgress untouched", v.Status)
	}
	if *v.DocumentType != "passport" {
		t.Errorf("document type = %s, want passport", *v.DocumentType)
	}
	if *v.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", *v.Confidence)
	}
	if v.AdditionalInfo[0] != "issued 2019" {
		t.Errorf("additional info = %q, want issued 2019", v.AdditionalInfo[0])
	}
	if len(v.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(v.Steps))
	}
	if string(v.Steps[0].Output) != `{"confidence": 0.85}` {
		t.Errorf("step output mutated to %s", v.Steps[0].Output)
	}
}

func TestCloneNilOptionals(t *testing.T) {
	v := newInProgress()

	c := v.Clone()

	if c.DocumentType != nil || c.Confidence != nil || c.Error != nil {
		t.Error("clone invented optional values for a fresh record")
	}
	if c.ID != v.ID || c.Status != v.Status {
		t.Errorf("clone = %s/%s, want %s/%s", c.ID, c.Status, v.ID, v.Status)
	}
}
