package workflow

import (
	"log/slog"

	"github.com/veridoc-io/veridoc/internal/configurations"
	"github.com/veridoc-io/veridoc/internal/inference"
	"github.com/veridoc-io/veridoc/internal/prompts"
	"github.com/veridoc-io/veridoc/internal/verifications"
	"github.com/veridoc-io/veridoc/pkg/storage"
	"github.com/veridoc-io/veridoc/pkg/tasks"
)

// Runtime bundles the dependencies that workflow nodes require. It is
// constructed by higher-level composition code from Infrastructure and
// Domain systems.
type Runtime struct {
	Adapter        inference.Adapter
	Verifications  verifications.System
	Prompts        prompts.System
	Configurations configurations.System
	Storage        storage.System
	Pool           *tasks.Pool
	Logger         *slog.Logger
}
