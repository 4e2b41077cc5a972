package workflow

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/veridoc-io/veridoc/internal/verifications"
)

// Execute runs the full tool pipeline for a single verification. Tools
// run strictly in sequence; each records its result and persists the
// workflow snapshot before the next starts. The returned PipelineState
// carries the accumulated results and narratives for aggregation.
func Execute(ctx context.Context, rt *Runtime, v *verifications.Verification, ps PipelineState) (PipelineState, error) {
	r := &run{rt: rt, v: v}

	graph, err := buildGraph(r)
	if err != nil {
		return ps, fmt.Errorf("build graph: %w", err)
	}

	return execute(ctx, graph, ps)
}

// Resume runs the pipeline from the reconciliation point, used when a
// workflow paused in NeedsInfo receives additional information. Earlier
// tool results come from the recorded step log, not a re-run.
func Resume(ctx context.Context, rt *Runtime, v *verifications.Verification, ps PipelineState) (PipelineState, error) {
	r := &run{rt: rt, v: v}

	graph, err := buildResumeGraph(r)
	if err != nil {
		return ps, fmt.Errorf("build resume graph: %w", err)
	}

	return execute(ctx, graph, ps)
}

func execute(ctx context.Context, graph state.StateGraph, ps PipelineState) (PipelineState, error) {
	initial := state.New(nil)
	initial = initial.Set(KeyPipeline, ps)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return ps, fmt.Errorf("execute graph: %w", err)
	}

	out, err := extractPipeline(final)
	if err != nil {
		return ps, err
	}

	return *out, nil
}

func buildGraph(r *run) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("veridoc-verify")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode(ToolClassify, r.classifyNode()); err != nil {
		return nil, err
	}

	if err := graph.AddNode(ToolAuthenticate, r.authenticateNode()); err != nil {
		return nil, err
	}

	if err := graph.AddNode(ToolExtract, r.extractNode()); err != nil {
		return nil, err
	}

	if err := graph.AddNode(ToolReconcile, r.reconcileNode()); err != nil {
		return nil, err
	}

	if err := graph.AddEdge(ToolClassify, ToolAuthenticate, nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge(ToolAuthenticate, ToolExtract, nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge(ToolExtract, ToolReconcile, nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint(ToolClassify); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(ToolReconcile); err != nil {
		return nil, err
	}

	return graph, nil
}

func buildResumeGraph(r *run) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("veridoc-resume")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode(ToolReconcile, r.reconcileNode()); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint(ToolReconcile); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(ToolReconcile); err != nil {
		return nil, err
	}

	return graph, nil
}
