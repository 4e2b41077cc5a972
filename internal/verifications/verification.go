// Package verifications defines the persisted verification workflow
// model and its storage system. A verification tracks a submitted
// document image through the tool pipeline: its lifecycle status, the
// append-only log of tool invocations, and the final verdict fields.
package verifications

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// StepRecord is one attempted tool invocation. Records are immutable
// once appended; the step log never shrinks.
type StepRecord struct {
	StepID      string          `json:"step_id"`
	Tool        string          `json:"tool"`
	InputDigest string          `json:"input_digest"`
	Output      json.RawMessage `json:"output"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Verification is the persisted workflow snapshot. The orchestrator is
// the only writer of status, steps, and verdict fields; external callers
// contribute only AdditionalInfo entries while the status is NeedsInfo.
type Verification struct {
	ID               uuid.UUID    `json:"id"`
	Status           Status       `json:"status"`
	FileKey          string       `json:"file_key"`
	DocumentType     *string      `json:"document_type,omitempty"`
	Steps            []StepRecord `json:"steps"`
	Confidence       *float64     `json:"confidence,omitempty"`
	ResultSummary    *string      `json:"result_summary,omitempty"`
	NeedsInfoRequest *string      `json:"needs_info_request,omitempty"`
	Error            *string      `json:"error,omitempty"`
	AdditionalInfo   []string     `json:"additional_info,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Clone returns a deep copy that shares no mutable state with the
// receiver, so one copy can cross a goroutine boundary while the other
// keeps serving reads.
func (v *Verification) Clone() *Verification {
	c := *v

	c.Steps = make([]StepRecord, len(v.Steps))
	for i, step := range v.Steps {
		step.Output = slices.Clone(step.Output)
		c.Steps[i] = step
	}

	c.AdditionalInfo = slices.Clone(v.AdditionalInfo)
	c.DocumentType = clonePtr(v.DocumentType)
	c.Confidence = clonePtr(v.Confidence)
	c.ResultSummary = clonePtr(v.ResultSummary)
	c.NeedsInfoRequest = clonePtr(v.NeedsInfoRequest)
	c.Error = clonePtr(v.Error)

	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Transition moves the verification to the next status, failing with an
// InvalidStateError naming the current status when the edge is not
// permitted.
func (v *Verification) Transition(next Status) error {
	if !v.Status.CanTransition(next) {
		return &InvalidStateError{Current: v.Status, Requested: next}
	}
	v.Status = next
	return nil
}

// AppendStep records a completed tool invocation in the step log.
func (v *Verification) AppendStep(step StepRecord) {
	v.Steps = append(v.Steps, step)
}

// Complete transitions to Completed and records the aggregated verdict.
func (v *Verification) Complete(documentType string, confidence float64, summary string) error {
	if err := v.Transition(StatusCompleted); err != nil {
		return err
	}
	if documentType != "" {
		v.DocumentType = &documentType
	}
	v.Confidence = &confidence
	v.ResultSummary = &summary
	return nil
}

// Pause transitions to NeedsInfo and records what additional input the
// pipeline is waiting for.
func (v *Verification) Pause(request string) error {
	if err := v.Transition(StatusNeedsInfo); err != nil {
		return err
	}
	v.NeedsInfoRequest = &request
	return nil
}

// Fail transitions to Failed and records the triggering error message.
func (v *Verification) Fail(message string) error {
	if err := v.Transition(StatusFailed); err != nil {
		return err
	}
	v.Error = &message
	return nil
}

// Resume records the provided additional input and transitions back to
// InProgress. Valid only while the status is exactly NeedsInfo.
func (v *Verification) Resume(info string) error {
	if v.Status != StatusNeedsInfo {
		return &InvalidStateError{Current: v.Status, Requested: StatusInProgress}
	}
	v.AdditionalInfo = append(v.AdditionalInfo, info)
	v.NeedsInfoRequest = nil
	v.Status = StatusInProgress
	return nil
}
