package verifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/veridoc-io/veridoc/pkg/pagination"
)

// System defines the persistence contract for verification workflows.
// Save writes the full workflow snapshot; the snapshot is the unit of
// durability, so a crash between pipeline stages loses only the
// in-flight step.
type System interface {
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Verification], error)
	Find(ctx context.Context, id uuid.UUID) (*Verification, error)
	Insert(ctx context.Context, v *Verification) error
	Save(ctx context.Context, v *Verification) error
}

// Runner drives workflow execution on behalf of the HTTP entry points.
// Both operations return before the driven pipeline completes; callers
// poll Find for progress.
type Runner interface {
	Start(ctx context.Context, cmd StartCommand) (*Verification, error)
	ProvideAdditionalInfo(ctx context.Context, id uuid.UUID, info string) (*Verification, error)
}

// StartCommand carries the input for starting a new verification.
// ImageData is the raw decoded document image; DocumentType is an
// optional caller-supplied hint.
type StartCommand struct {
	ImageData    []byte
	ContentType  string
	DocumentType *string
}
