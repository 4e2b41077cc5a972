package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/veridoc-io/veridoc/internal/prompts"
)

var toolInstructions = map[string]string{
	ToolClassify: `Analyze the document image and determine its type and basic properties.
Respond with a JSON object containing: document_type, image_quality, confidence, details.`,

	ToolAuthenticate: `Verify the document's authenticity by checking for security features and signs of tampering.
Respond with a JSON object containing: is_authentic, confidence, security_features_detected, potential_issues.`,

	ToolExtract: `Extract the listed fields from the document.
Respond with a JSON object containing: fields (name to value) and confidence (name to score).`,

	ToolReconcile: `Check whether the extracted fields are consistent with each other and with the document type.
Respond with a JSON object containing: is_consistent, confidence, inconsistencies.
If you need additional information to complete verification, state exactly what you need.`,
}

// ComposePrompt builds the system role and prompt text for a tool
// invocation from the active prompt record and the running pipeline
// state. The relevant portion of working memory is serialized into the
// prompt so each tool sees the results it consumes.
func ComposePrompt(
	ctx context.Context,
	ps prompts.System,
	tool string,
	state *PipelineState,
) (role string, prompt string, err error) {
	active, err := ps.Active(ctx)
	if err != nil {
		return "", "", fmt.Errorf("load active prompt: %w", err)
	}

	instruction, ok := toolInstructions[tool]
	if !ok {
		return "", "", fmt.Errorf("unknown tool: %s", tool)
	}

	var sb strings.Builder
	sb.WriteString(active.Tasks)
	sb.WriteString("\n\n")
	sb.WriteString(instruction)

	if err := writeContext(&sb, tool, state); err != nil {
		return "", "", err
	}

	if len(state.AdditionalInfo) > 0 {
		sb.WriteString("\n\nAdditional information provided by the requester:\n")
		for _, info := range state.AdditionalInfo {
			sb.WriteString("- ")
			sb.WriteString(info)
			sb.WriteString("\n")
		}
	}

	return active.Role, sb.String(), nil
}

func writeContext(sb *strings.Builder, tool string, state *PipelineState) error {
	switch tool {
	case ToolAuthenticate:
		fmt.Fprintf(sb, "\n\nDocument type: %s", state.DocumentType)

	case ToolExtract:
		fmt.Fprintf(sb, "\n\nDocument type: %s", state.DocumentType)
		sb.WriteString("\nFields to extract:\n")
		for _, field := range FieldCatalogue(state.DocumentType) {
			sb.WriteString("- ")
			sb.WriteString(field)
			sb.WriteString("\n")
		}

	case ToolReconcile:
		fmt.Fprintf(sb, "\n\nDocument type: %s", state.DocumentType)
		if state.Extract != nil {
			fields, err := json.MarshalIndent(state.Extract.Fields, "", "  ")
			if err != nil {
				return fmt.Errorf("serialize extracted fields: %w", err)
			}
			sb.WriteString("\n\nExtracted fields:\n\n")
			sb.Write(fields)
		}
		if state.Authenticate != nil {
			verdict, err := json.MarshalIndent(state.Authenticate, "", "  ")
			if err != nil {
				return fmt.Errorf("serialize authenticity verdict: %w", err)
			}
			sb.WriteString("\n\nAuthenticity verdict:\n\n")
			sb.Write(verdict)
		}
	}

	return nil
}
