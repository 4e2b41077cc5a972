package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// extractNode returns a state node that pulls the catalogued fields for
// the classified document type out of the image.
func (r *run) extractNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ps, err := extractPipeline(s)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		content, digest, degraded, err := r.invoke(ctx, ToolExtract, ps, true)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrExtractFailed, err)
		}

		var result ExtractResult
		if degraded != "" {
			result = ExtractResult{
				Fields:     map[string]string{},
				Confidence: map[string]float64{},
				Error:      degraded,
			}
		} else {
			result = ParseExtract(content)
			ps.Narratives = append(ps.Narratives, content)
		}

		ps.Extract = &result

		if err := r.record(ctx, ToolExtract, digest, result); err != nil {
			return s, fmt.Errorf("%w: %w", ErrExtractFailed, err)
		}

		r.rt.Logger.InfoContext(ctx, "extract complete",
			"verification_id", r.v.ID,
			"field_count", len(result.Fields),
		)

		s = s.Set(KeyPipeline, *ps)
		return s, nil
	})
}
