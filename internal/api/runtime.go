package api

import (
	"time"

	"github.com/veridoc-io/veridoc/internal/config"
	"github.com/veridoc-io/veridoc/internal/infrastructure"
	"github.com/veridoc-io/veridoc/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Inference  config.InferenceConfig
	PresignTTL time.Duration
	MaxUpload  int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Tasks:     infra.Tasks,
		},
		Pagination: cfg.API.Pagination,
		Inference:  cfg.Inference,
		PresignTTL: cfg.Storage.PresignTTLDuration(),
		MaxUpload:  cfg.API.MaxUploadSizeBytes(),
	}
}
