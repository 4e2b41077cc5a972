package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// classifyNode returns a state node that determines the document type
// and image quality from the document image. The resolved document type
// is stored in working memory for the downstream tools; a
// caller-supplied hint takes precedence over the model's answer.
func (r *run) classifyNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ps, err := extractPipeline(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		content, digest, degraded, err := r.invoke(ctx, ToolClassify, ps, true)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrClassifyFailed, err)
		}

		var result ClassifyResult
		if degraded != "" {
			result = ClassifyResult{
				DocumentType: "unknown",
				ImageQuality: "medium",
				Confidence:   0.0,
				Details:      map[string]any{},
				Error:        degraded,
			}
		} else {
			result = ParseClassify(content)
			ps.Narratives = append(ps.Narratives, content)
		}

		if ps.DocumentType == "" && result.DocumentType != "unknown" {
			ps.DocumentType = result.DocumentType
		}
		ps.Classify = &result

		if err := r.record(ctx, ToolClassify, digest, result); err != nil {
			return s, fmt.Errorf("%w: %w", ErrClassifyFailed, err)
		}

		r.rt.Logger.InfoContext(ctx, "classify complete",
			"verification_id", r.v.ID,
			"document_type", result.DocumentType,
			"confidence", result.Confidence,
		)

		s = s.Set(KeyPipeline, *ps)
		return s, nil
	})
}
