package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/veridoc-io/veridoc/internal/inference"
	"github.com/veridoc-io/veridoc/internal/verifications"
)

// run binds one pipeline execution to its verification record. Nodes
// mutate the record through the run so every stage can persist the full
// snapshot before the next tool starts.
type run struct {
	rt *Runtime
	v  *verifications.Verification
}

func extractPipeline(s state.State) (*PipelineState, error) {
	val, ok := s.Get(KeyPipeline)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyPipeline)
	}

	ps, ok := val.(PipelineState)
	if !ok {
		return nil, fmt.Errorf("%s is not PipelineState", KeyPipeline)
	}

	return &ps, nil
}

// invoke composes the tool prompt, resolves the active model selector
// and inference parameters, and calls the adapter. Exhausted transient
// retries come back as a degraded-result message rather than an error;
// permanent failures and configuration read failures propagate and
// abort the workflow.
func (r *run) invoke(ctx context.Context, tool string, ps *PipelineState, vision bool) (content, digest, degraded string, err error) {
	role, prompt, err := ComposePrompt(ctx, r.rt.Prompts, tool, ps)
	if err != nil {
		return "", "", "", err
	}

	model, err := r.rt.Configurations.ActiveModel(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("resolve active model: %w", err)
	}

	params, err := r.rt.Configurations.InferenceParams(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("resolve inference params: %w", err)
	}

	req := inference.Request{
		Prompt:     prompt,
		SystemRole: role,
		Model:      model.Value,
		Params:     params,
	}
	if vision {
		req.ImageDataURI = ps.ImageDataURI
	}

	digest = inputDigest(req)

	content, err = r.rt.Adapter.Invoke(ctx, req)
	if err != nil {
		if errors.Is(err, inference.ErrTransport) {
			r.rt.Logger.WarnContext(ctx, "tool degraded after retry exhaustion",
				"verification_id", r.v.ID,
				"tool", tool,
				"error", err,
			)
			return "", digest, err.Error(), nil
		}
		return "", "", "", err
	}

	return content, digest, "", nil
}

// record appends the tool result to the step log and persists the whole
// workflow snapshot. Persistence is the unit of durability: a crash
// after record loses only the next in-flight step.
func (r *run) record(ctx context.Context, tool, digest string, output any) error {
	raw, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("encode %s result: %w", tool, err)
	}

	r.v.AppendStep(verifications.StepRecord{
		StepID:      uuid.NewString(),
		Tool:        tool,
		InputDigest: digest,
		Output:      raw,
		Timestamp:   time.Now().UTC(),
	})

	return r.rt.Verifications.Save(ctx, r.v)
}

// inputDigest fingerprints what was sent to the model, for audit.
func inputDigest(req inference.Request) string {
	h := sha256.New()
	h.Write([]byte(req.SystemRole))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	h.Write([]byte{0})
	h.Write([]byte(req.ImageDataURI))
	return hex.EncodeToString(h.Sum(nil))
}
