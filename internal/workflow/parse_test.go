package workflow_test

import (
	"testing"

	"github.com/veridoc-io/veridoc/internal/workflow"
)

func TestParseClassify(t *testing.T) {
	tests := []struct {
		name             string
		content          string
		wantType         string
		wantQuality      string
		wantConfidence   float64
	}{
		{
			name:           "valid json",
			content:        `{"document_type": "passport", "image_quality": "high", "confidence": 0.92, "details": {"format": "color"}}`,
			wantType:       "passport",
			wantQuality:    "high",
			wantConfidence: 0.92,
		},
		{
			name:           "json embedded in prose",
			content:        "Here is my analysis:\n{\"document_type\": \"id card\", \"confidence\": 0.8}\nLet me know if you need more.",
			wantType:       "id card",
			wantQuality:    "medium",
			wantConfidence: 0.8,
		},
		{
			name:           "unstructured text with keyword",
			content:        "This appears to be a passport in good condition.",
			wantType:       "passport",
			wantQuality:    "medium",
			wantConfidence: 0.7,
		},
		{
			name:           "garbage falls back to defaults",
			content:        "I cannot process this request.",
			wantType:       "unknown",
			wantQuality:    "medium",
			wantConfidence: 0.7,
		},
		{
			name:           "partial json backfills missing fields",
			content:        `{"document_type": "birth certificate"}`,
			wantType:       "birth certificate",
			wantQuality:    "medium",
			wantConfidence: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.ParseClassify(tt.content)

			if got.DocumentType != tt.wantType {
				t.Errorf("DocumentType = %q, want %q", got.DocumentType, tt.wantType)
			}
			if got.ImageQuality != tt.wantQuality {
				t.Errorf("ImageQuality = %q, want %q", got.ImageQuality, tt.wantQuality)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Details == nil {
				t.Error("Details is nil, want non-nil map")
			}
		})
	}
}

func TestParseAuthenticate(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		wantAuthentic  bool
		wantConfidence float64
		wantFeatures   []string
	}{
		{
			name:           "valid json",
			content:        `{"is_authentic": false, "confidence": 0.4, "security_features_detected": [], "potential_issues": ["altered photo"]}`,
			wantAuthentic:  false,
			wantConfidence: 0.4,
			wantFeatures:   []string{},
		},
		{
			name:           "text heuristic flags fake",
			content:        "This document appears to be fake. The lamination is wrong.",
			wantAuthentic:  false,
			wantConfidence: 0.8,
			wantFeatures:   []string{"standard security features"},
		},
		{
			name:           "text heuristic finds features",
			content:        "Visible hologram and microprint confirm the document.",
			wantAuthentic:  true,
			wantConfidence: 0.8,
			wantFeatures:   []string{"hologram", "microprint"},
		},
		{
			name:           "no signal uses defaults",
			content:        "The document was reviewed.",
			wantAuthentic:  true,
			wantConfidence: 0.8,
			wantFeatures:   []string{"standard security features"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.ParseAuthenticate(tt.content)

			if got.IsAuthentic != tt.wantAuthentic {
				t.Errorf("IsAuthentic = %v, want %v", got.IsAuthentic, tt.wantAuthentic)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if len(got.SecurityFeaturesDetected) != len(tt.wantFeatures) {
				t.Fatalf("SecurityFeaturesDetected = %v, want %v", got.SecurityFeaturesDetected, tt.wantFeatures)
			}
			for i, f := range tt.wantFeatures {
				if got.SecurityFeaturesDetected[i] != f {
					t.Errorf("feature[%d] = %q, want %q", i, got.SecurityFeaturesDetected[i], f)
				}
			}
		})
	}
}

func TestParseAuthenticateTamperIssue(t *testing.T) {
	got := workflow.ParseAuthenticate("There are signs of tampering near the photo.")

	if len(got.PotentialIssues) == 0 {
		t.Fatal("expected tamper issue recorded, got none")
	}
	if got.PotentialIssues[0] != "tamper" {
		t.Errorf("issue = %q, want tamper", got.PotentialIssues[0])
	}
}

func TestParseExtract(t *testing.T) {
	t.Run("valid json", func(t *testing.T) {
		content := `{"fields": {"full_name": "John Doe"}, "confidence": {"full_name": 0.95}}`
		got := workflow.ParseExtract(content)

		if got.Fields["full_name"] != "John Doe" {
			t.Errorf("full_name = %q, want John Doe", got.Fields["full_name"])
		}
		if got.Confidence["full_name"] != 0.95 {
			t.Errorf("confidence = %v, want 0.95", got.Confidence["full_name"])
		}
	})

	t.Run("garbage yields empty maps", func(t *testing.T) {
		got := workflow.ParseExtract("no structured data here")

		if got.Fields == nil || len(got.Fields) != 0 {
			t.Errorf("Fields = %v, want empty map", got.Fields)
		}
		if got.Confidence == nil || len(got.Confidence) != 0 {
			t.Errorf("Confidence = %v, want empty map", got.Confidence)
		}
	})
}

func TestParseReconcile(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		wantConsistent bool
		wantConfidence float64
	}{
		{
			name:           "valid json",
			content:        `{"is_consistent": true, "confidence": 0.9, "inconsistencies": []}`,
			wantConsistent: true,
			wantConfidence: 0.9,
		},
		{
			name:           "text heuristic flags inconsistency",
			content:        "The dates are inconsistent with the document type.",
			wantConsistent: false,
			wantConfidence: 0.8,
		},
		{
			name:           "text heuristic flags issue",
			content:        "There is an issue with the name field.",
			wantConsistent: false,
			wantConfidence: 0.8,
		},
		{
			name:           "no signal uses defaults",
			content:        "The fields line up well.",
			wantConsistent: true,
			wantConfidence: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.ParseReconcile(tt.content)

			if got.IsConsistent != tt.wantConsistent {
				t.Errorf("IsConsistent = %v, want %v", got.IsConsistent, tt.wantConsistent)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Inconsistencies == nil {
				t.Error("Inconsistencies is nil, want non-nil slice")
			}
		})
	}
}
