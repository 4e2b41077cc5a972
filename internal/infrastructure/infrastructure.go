// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, background tasks)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/veridoc-io/veridoc/internal/config"
	"github.com/veridoc-io/veridoc/pkg/database"
	"github.com/veridoc-io/veridoc/pkg/lifecycle"
	"github.com/veridoc-io/veridoc/pkg/storage"
	"github.com/veridoc-io/veridoc/pkg/tasks"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, blob storage, and the background task pool.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Tasks     *tasks.Pool
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	pool := tasks.NewPool(cfg.Inference.Workers, cfg.Inference.QueueDepth, logger)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Tasks:     pool,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Tasks.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("task pool start failed: %w", err)
	}
	return nil
}
