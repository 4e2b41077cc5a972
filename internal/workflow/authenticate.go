package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// authenticateNode returns a state node that judges document
// authenticity from the image and the classified document type.
func (r *run) authenticateNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ps, err := extractPipeline(s)
		if err != nil {
			return s, fmt.Errorf("authenticate: %w", err)
		}

		content, digest, degraded, err := r.invoke(ctx, ToolAuthenticate, ps, true)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrAuthenticateFailed, err)
		}

		var result AuthenticateResult
		if degraded != "" {
			result = AuthenticateResult{
				IsAuthentic:              true,
				Confidence:               0.0,
				SecurityFeaturesDetected: []string{},
				PotentialIssues:          []string{},
				Error:                    degraded,
			}
		} else {
			result = ParseAuthenticate(content)
			ps.Narratives = append(ps.Narratives, content)
		}

		ps.Authenticate = &result

		if err := r.record(ctx, ToolAuthenticate, digest, result); err != nil {
			return s, fmt.Errorf("%w: %w", ErrAuthenticateFailed, err)
		}

		r.rt.Logger.InfoContext(ctx, "authenticate complete",
			"verification_id", r.v.ID,
			"is_authentic", result.IsAuthentic,
			"confidence", result.Confidence,
		)

		s = s.Set(KeyPipeline, *ps)
		return s, nil
	})
}
