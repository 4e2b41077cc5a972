package workflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/veridoc-io/veridoc/internal/verifications"
)

const persistAttempts = 3

// Orchestrator owns the workflow state machine. It creates and resumes
// verifications, enqueues pipeline execution on the task pool, and acts
// as the error boundary for everything that happens inside a run:
// pipeline failures become a Failed workflow, never a process crash.
type Orchestrator struct {
	rt *Runtime
}

// NewOrchestrator creates an Orchestrator over the given runtime.
func NewOrchestrator(rt *Runtime) *Orchestrator {
	return &Orchestrator{rt: rt}
}

// Start creates a Pending verification, uploads the document image,
// transitions to InProgress, and enqueues pipeline execution. It returns
// once the initial record is durable; callers poll for progress.
func (o *Orchestrator) Start(ctx context.Context, cmd verifications.StartCommand) (*verifications.Verification, error) {
	if len(cmd.ImageData) == 0 {
		return nil, fmt.Errorf("%w: document image required", verifications.ErrValidation)
	}

	id := uuid.New()
	key := fmt.Sprintf("%s/document", id)

	v := &verifications.Verification{
		ID:           id,
		Status:       verifications.StatusPending,
		FileKey:      key,
		DocumentType: cmd.DocumentType,
	}

	// the blob upload and the initial record are independent writes
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := o.rt.Storage.Upload(gctx, key, bytes.NewReader(cmd.ImageData), cmd.ContentType); err != nil {
			return fmt.Errorf("upload document image: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return o.rt.Verifications.Insert(gctx, v)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := v.Transition(verifications.StatusInProgress); err != nil {
		return nil, err
	}
	if err := o.rt.Verifications.Save(ctx, v); err != nil {
		return nil, err
	}

	ps := PipelineState{
		ImageDataURI: dataURI(cmd.ImageData, cmd.ContentType),
	}
	if cmd.DocumentType != nil {
		ps.DocumentType = *cmd.DocumentType
	}

	if err := o.enqueue(v.Clone(), ps, false); err != nil {
		o.fail(ctx, v, fmt.Errorf("enqueue pipeline: %w", err))
		return nil, err
	}

	o.rt.Logger.InfoContext(ctx, "verification started", "id", v.ID)
	return v, nil
}

// ProvideAdditionalInfo records caller-supplied information for a
// workflow paused in NeedsInfo and enqueues resumption from the
// reconciliation point. Any other status fails with an invalid state
// error naming the current status; the workflow is untouched.
func (o *Orchestrator) ProvideAdditionalInfo(ctx context.Context, id uuid.UUID, info string) (*verifications.Verification, error) {
	v, err := o.rt.Verifications.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := v.Resume(info); err != nil {
		return nil, err
	}

	if err := o.rt.Verifications.Save(ctx, v); err != nil {
		return nil, err
	}

	if err := o.enqueue(v.Clone(), ResumeState(v), true); err != nil {
		o.fail(ctx, v, fmt.Errorf("enqueue pipeline: %w", err))
		return nil, err
	}

	o.rt.Logger.InfoContext(ctx, "verification resumed", "id", v.ID)
	return v, nil
}

func (o *Orchestrator) enqueue(v *verifications.Verification, ps PipelineState, resume bool) error {
	return o.rt.Pool.Enqueue(func(ctx context.Context) {
		o.execute(ctx, v, ps, resume)
	})
}

// execute drives one pipeline run to a terminal or needs-input state and
// persists the outcome.
func (o *Orchestrator) execute(ctx context.Context, v *verifications.Verification, ps PipelineState, resume bool) {
	var (
		out PipelineState
		err error
	)

	if resume {
		out, err = Resume(ctx, o.rt, v, ps)
	} else {
		out, err = Execute(ctx, o.rt, v, ps)
	}

	if err != nil {
		o.fail(ctx, v, err)
		return
	}

	if request, ok := NeedsInfo(out.Narratives); ok {
		if err := v.Pause(request); err != nil {
			o.fail(ctx, v, err)
			return
		}
		if err := o.persist(ctx, v); err != nil {
			o.rt.Logger.ErrorContext(ctx, "persist paused verification failed", "id", v.ID, "error", err)
			return
		}
		o.rt.Logger.InfoContext(ctx, "verification needs additional information", "id", v.ID)
		return
	}

	verdict := Aggregate(v, out.Summary)

	if err := v.Complete(verdict.DocumentType, verdict.Confidence, verdict.Summary); err != nil {
		o.fail(ctx, v, err)
		return
	}
	if err := o.persist(ctx, v); err != nil {
		o.rt.Logger.ErrorContext(ctx, "persist completed verification failed", "id", v.ID, "error", err)
		return
	}

	o.rt.Logger.InfoContext(ctx, "verification completed",
		"id", v.ID,
		"document_type", verdict.DocumentType,
		"confidence", verdict.Confidence,
	)
}

func (o *Orchestrator) fail(ctx context.Context, v *verifications.Verification, cause error) {
	o.rt.Logger.ErrorContext(ctx, "verification failed", "id", v.ID, "error", cause)

	if err := v.Fail(cause.Error()); err != nil {
		o.rt.Logger.ErrorContext(ctx, "mark verification failed", "id", v.ID, "error", err)
		return
	}
	if err := o.persist(ctx, v); err != nil {
		o.rt.Logger.ErrorContext(ctx, "persist failed verification", "id", v.ID, "error", err)
	}
}

// persist retries Save so a transient store fault cannot silently drop a
// terminal or needs-input snapshot while the worker still holds it.
func (o *Orchestrator) persist(ctx context.Context, v *verifications.Verification) error {
	var lastErr error

	for attempt := 1; attempt <= persistAttempts; attempt++ {
		if lastErr = o.rt.Verifications.Save(ctx, v); lastErr == nil {
			return nil
		}
		o.rt.Logger.WarnContext(ctx, "persist attempt failed",
			"id", v.ID,
			"attempt", attempt,
			"error", lastErr,
		)
	}

	return fmt.Errorf("%d attempts exhausted: %w", persistAttempts, lastErr)
}

func dataURI(data []byte, contentType string) string {
	return fmt.Sprintf(
		"data:%s;base64,%s",
		contentType,
		base64.StdEncoding.EncodeToString(data),
	)
}
