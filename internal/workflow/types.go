// Package workflow implements the verification orchestration engine:
// the four-tool pipeline (classify, authenticate, extract, reconcile)
// executed as a state graph, the orchestrator that drives it through the
// workflow state machine, and the resilient parsing of model output into
// typed tool results.
package workflow

import (
	"encoding/json"

	"github.com/veridoc-io/veridoc/internal/verifications"
)

// Tool names, in declared pipeline order.
const (
	ToolClassify     = "classify"
	ToolAuthenticate = "authenticate"
	ToolExtract      = "extract"
	ToolReconcile    = "reconcile"
)

// KeyPipeline is the state bag key holding the PipelineState.
const KeyPipeline = "pipeline"

// ClassifyResult is the typed output of the classify tool.
type ClassifyResult struct {
	DocumentType string         `json:"document_type"`
	ImageQuality string         `json:"image_quality"`
	Confidence   float64        `json:"confidence"`
	Details      map[string]any `json:"details"`
	Error        string         `json:"error,omitempty"`
}

// AuthenticateResult is the typed output of the authenticate tool.
type AuthenticateResult struct {
	IsAuthentic              bool     `json:"is_authentic"`
	Confidence               float64  `json:"confidence"`
	SecurityFeaturesDetected []string `json:"security_features_detected"`
	PotentialIssues          []string `json:"potential_issues"`
	Error                    string   `json:"error,omitempty"`
}

// ExtractResult is the typed output of the extract tool. Confidence is
// scored per field.
type ExtractResult struct {
	Fields     map[string]string  `json:"fields"`
	Confidence map[string]float64 `json:"confidence"`
	Error      string             `json:"error,omitempty"`
}

// ReconcileResult is the typed output of the reconcile tool.
type ReconcileResult struct {
	IsConsistent    bool     `json:"is_consistent"`
	Confidence      float64  `json:"confidence"`
	Inconsistencies []string `json:"inconsistencies"`
	Error           string   `json:"error,omitempty"`
}

// PipelineState is the workflow-scoped working memory threaded through
// the state graph. Narratives accumulates the raw model text of each
// tool for the end-of-pipeline insufficient-information check.
type PipelineState struct {
	DocumentType   string
	ImageDataURI   string
	AdditionalInfo []string

	Classify     *ClassifyResult
	Authenticate *AuthenticateResult
	Extract      *ExtractResult
	Reconcile    *ReconcileResult

	Narratives []string
	Summary    string
}

// Verdict is the aggregated outcome of a completed pipeline run.
type Verdict struct {
	DocumentType string
	Confidence   float64
	Summary      string
}

// ResumeState reconstructs the working memory for a workflow resuming
// from the reconciliation point. Prior tool results are recovered from
// the recorded step log so reconciliation sees the extracted fields
// without re-running earlier tools.
func ResumeState(v *verifications.Verification) PipelineState {
	ps := PipelineState{AdditionalInfo: v.AdditionalInfo}
	if v.DocumentType != nil {
		ps.DocumentType = *v.DocumentType
	}

	for _, step := range v.Steps {
		switch step.Tool {
		case ToolClassify:
			var r ClassifyResult
			if json.Unmarshal(step.Output, &r) == nil {
				ps.Classify = &r
			}
		case ToolAuthenticate:
			var r AuthenticateResult
			if json.Unmarshal(step.Output, &r) == nil {
				ps.Authenticate = &r
			}
		case ToolExtract:
			var r ExtractResult
			if json.Unmarshal(step.Output, &r) == nil {
				ps.Extract = &r
			}
		}
	}

	if ps.DocumentType == "" && ps.Classify != nil {
		ps.DocumentType = ps.Classify.DocumentType
	}

	return ps
}
