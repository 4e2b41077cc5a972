package workflow

import (
	"context"
	"strings"
	"testing"
)

func TestComposePromptClassify(t *testing.T) {
	role, prompt, err := ComposePrompt(context.Background(), fakePrompts{}, ToolClassify, &PipelineState{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if role != "You are a document verification expert." {
		t.Errorf("role = %q, want active prompt role", role)
	}
	if !strings.Contains(prompt, "Verify the provided document.") {
		t.Error("prompt missing active prompt tasks")
	}
	if !strings.Contains(prompt, "document_type") {
		t.Error("prompt missing classify response shape")
	}
}

func TestComposePromptExtractListsFields(t *testing.T) {
	state := &PipelineState{DocumentType: "passport"}

	_, prompt, err := ComposePrompt(context.Background(), fakePrompts{}, ToolExtract, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(prompt, "Document type: passport") {
		t.Error("prompt missing document type context")
	}
	for _, field := range FieldCatalogue("passport") {
		if !strings.Contains(prompt, field) {
			t.Errorf("prompt missing field %q", field)
		}
	}
}

func TestComposePromptReconcileCarriesResults(t *testing.T) {
	state := &PipelineState{
		DocumentType: "passport",
		Extract: &ExtractResult{
			Fields:     map[string]string{"full_name": "John Doe"},
			Confidence: map[string]float64{"full_name": 0.9},
		},
		Authenticate: &AuthenticateResult{
			IsAuthentic:              true,
			Confidence:               0.85,
			SecurityFeaturesDetected: []string{"hologram"},
			PotentialIssues:          []string{},
		},
	}

	_, prompt, err := ComposePrompt(context.Background(), fakePrompts{}, ToolReconcile, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(prompt, "John Doe") {
		t.Error("prompt missing extracted field values")
	}
	if !strings.Contains(prompt, "hologram") {
		t.Error("prompt missing authenticity verdict")
	}
	if !strings.Contains(prompt, "state exactly what you need") {
		t.Error("prompt missing insufficient-information instruction")
	}
}

func TestComposePromptAdditionalInfo(t *testing.T) {
	state := &PipelineState{
		DocumentType:   "passport",
		AdditionalInfo: []string{"issued by the federal registry"},
	}

	_, prompt, err := ComposePrompt(context.Background(), fakePrompts{}, ToolReconcile, state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(prompt, "- issued by the federal registry") {
		t.Error("prompt missing requester-provided information")
	}
}

func TestComposePromptUnknownTool(t *testing.T) {
	_, _, err := ComposePrompt(context.Background(), fakePrompts{}, "translate", &PipelineState{})
	if err == nil {
		t.Fatal("expected error for unknown tool, got nil")
	}
}
