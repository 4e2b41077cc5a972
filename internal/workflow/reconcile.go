package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// reconcileNode returns a state node that checks the extracted fields
// for internal consistency. This is a plain chat inference over the
// accumulated results, no image required. Its raw narrative doubles as
// the result summary of a completed verification.
func (r *run) reconcileNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		ps, err := extractPipeline(s)
		if err != nil {
			return s, fmt.Errorf("reconcile: %w", err)
		}

		content, digest, degraded, err := r.invoke(ctx, ToolReconcile, ps, false)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrReconcileFailed, err)
		}

		var result ReconcileResult
		if degraded != "" {
			result = ReconcileResult{
				IsConsistent:    true,
				Confidence:      0.0,
				Inconsistencies: []string{},
				Error:           degraded,
			}
		} else {
			result = ParseReconcile(content)
			ps.Narratives = append(ps.Narratives, content)
			ps.Summary = content
		}

		ps.Reconcile = &result

		if err := r.record(ctx, ToolReconcile, digest, result); err != nil {
			return s, fmt.Errorf("%w: %w", ErrReconcileFailed, err)
		}

		r.rt.Logger.InfoContext(ctx, "reconcile complete",
			"verification_id", r.v.ID,
			"is_consistent", result.IsConsistent,
			"confidence", result.Confidence,
		)

		s = s.Set(KeyPipeline, *ps)
		return s, nil
	})
}
