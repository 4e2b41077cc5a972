package workflow

import (
	"strings"

	"github.com/veridoc-io/veridoc/pkg/formatting"
)

// The parse functions never fail. Tier one attempts strict extraction
// of embedded structured data via formatting.Parse; tier two falls back
// to deterministic keyword heuristics over the raw text. Both paths
// backfill absent required fields with documented defaults, so a
// formatting slip degrades into a low-confidence structured guess
// instead of failing the pipeline.

// Partial parse targets use pointers so an absent field is
// distinguishable from a zero value when backfilling.
type partialClassify struct {
	DocumentType *string        `json:"document_type"`
	ImageQuality *string        `json:"image_quality"`
	Confidence   *float64       `json:"confidence"`
	Details      map[string]any `json:"details"`
}

type partialAuthenticate struct {
	IsAuthentic              *bool     `json:"is_authentic"`
	Confidence               *float64  `json:"confidence"`
	SecurityFeaturesDetected []string  `json:"security_features_detected"`
	PotentialIssues          []string  `json:"potential_issues"`
}

type partialExtract struct {
	Fields     map[string]string  `json:"fields"`
	Confidence map[string]float64 `json:"confidence"`
}

type partialReconcile struct {
	IsConsistent    *bool    `json:"is_consistent"`
	Confidence      *float64 `json:"confidence"`
	Inconsistencies []string `json:"inconsistencies"`
}

var documentTypeKeywords = []string{
	"passport",
	"driver's license",
	"id card",
	"birth certificate",
}

// ParseClassify converts raw classify output into a ClassifyResult.
func ParseClassify(content string) ClassifyResult {
	result := ClassifyResult{
		DocumentType: "unknown",
		ImageQuality: "medium",
		Confidence:   0.7,
		Details:      map[string]any{},
	}

	if p, err := formatting.Parse[partialClassify](content); err == nil {
		if p.DocumentType != nil && *p.DocumentType != "" {
			result.DocumentType = *p.DocumentType
		}
		if p.ImageQuality != nil && *p.ImageQuality != "" {
			result.ImageQuality = *p.ImageQuality
		}
		if p.Confidence != nil {
			result.Confidence = *p.Confidence
		}
		if p.Details != nil {
			result.Details = p.Details
		}
		return result
	}

	lower := strings.ToLower(content)
	for _, kw := range documentTypeKeywords {
		if strings.Contains(lower, kw) {
			result.DocumentType = kw
			break
		}
	}
	if strings.Contains(lower, "high quality") || strings.Contains(lower, "high resolution") {
		result.ImageQuality = "high"
	}
	if strings.Contains(lower, "low quality") || strings.Contains(lower, "blurry") {
		result.ImageQuality = "low"
	}

	return result
}

// ParseAuthenticate converts raw authenticate output into an
// AuthenticateResult.
func ParseAuthenticate(content string) AuthenticateResult {
	result := AuthenticateResult{
		IsAuthentic:              true,
		Confidence:               0.8,
		SecurityFeaturesDetected: []string{"standard security features"},
		PotentialIssues:          []string{},
	}

	if p, err := formatting.Parse[partialAuthenticate](content); err == nil {
		if p.IsAuthentic != nil {
			result.IsAuthentic = *p.IsAuthentic
		}
		if p.Confidence != nil {
			result.Confidence = *p.Confidence
		}
		if p.SecurityFeaturesDetected != nil {
			result.SecurityFeaturesDetected = p.SecurityFeaturesDetected
		}
		if p.PotentialIssues != nil {
			result.PotentialIssues = p.PotentialIssues
		}
		return result
	}

	lower := strings.ToLower(content)
	if strings.Contains(lower, "not authentic") || strings.Contains(lower, "fake") {
		result.IsAuthentic = false
	}

	features := []string{}
	for _, f := range []string{"hologram", "microprint", "watermark"} {
		if strings.Contains(lower, f) {
			features = append(features, f)
		}
	}
	if len(features) > 0 {
		result.SecurityFeaturesDetected = features
	}

	for _, issue := range []string{"tamper", "inconsistent"} {
		if strings.Contains(lower, issue) {
			result.PotentialIssues = append(result.PotentialIssues, issue)
		}
	}

	return result
}

// ParseExtract converts raw extract output into an ExtractResult.
func ParseExtract(content string) ExtractResult {
	result := ExtractResult{
		Fields:     map[string]string{},
		Confidence: map[string]float64{},
	}

	if p, err := formatting.Parse[partialExtract](content); err == nil {
		if p.Fields != nil {
			result.Fields = p.Fields
		}
		if p.Confidence != nil {
			result.Confidence = p.Confidence
		}
	}

	return result
}

// ParseReconcile converts raw reconcile output into a ReconcileResult.
func ParseReconcile(content string) ReconcileResult {
	result := ReconcileResult{
		IsConsistent:    true,
		Confidence:      0.8,
		Inconsistencies: []string{},
	}

	if p, err := formatting.Parse[partialReconcile](content); err == nil {
		if p.IsConsistent != nil {
			result.IsConsistent = *p.IsConsistent
		}
		if p.Confidence != nil {
			result.Confidence = *p.Confidence
		}
		if p.Inconsistencies != nil {
			result.Inconsistencies = p.Inconsistencies
		}
		return result
	}

	lower := strings.ToLower(content)
	if strings.Contains(lower, "inconsistent") || strings.Contains(lower, "issue") {
		result.IsConsistent = false
	}

	return result
}
