package configurations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/veridoc-io/veridoc/pkg/repository"
)

type repo struct {
	db          *sql.DB
	logger      *slog.Logger
	activeModel activeCache
}

// New creates a configuration repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "configurations"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Group(ctx context.Context, group Group) ([]Configuration, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM configurations
		WHERE group_key = $1
		ORDER BY name`, projection)

	configs, err := repository.QueryMany(ctx, r.db, q, []any{group}, scanConfiguration)
	if err != nil {
		return nil, fmt.Errorf("query configuration group %s: %w", group, err)
	}
	return configs, nil
}

// ActiveModel resolves the active model selector. The result is cached
// after the first read; writes to the model group invalidate the cache.
// When no record is active, the LITE selector is served so a model can
// always be picked.
func (r *repo) ActiveModel(ctx context.Context) (*Configuration, error) {
	if v, ok := r.activeModel.get(); ok {
		return v, nil
	}

	q := fmt.Sprintf(`
		SELECT %s FROM configurations
		WHERE group_key = $1 AND active = true
		ORDER BY name
		LIMIT 1`, projection)

	c, err := repository.QueryOne(ctx, r.db, q, []any{GroupModels}, scanConfiguration)
	if errors.Is(err, sql.ErrNoRows) {
		return r.fallbackModel(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("query active model: %w", err)
	}

	r.activeModel.put(&c)
	return &c, nil
}

func (r *repo) fallbackModel(ctx context.Context) (*Configuration, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM configurations
		WHERE group_key = $1 AND name = $2`, projection)

	c, err := repository.QueryOne(ctx, r.db, q, []any{GroupModels, DefaultModelName}, scanConfiguration)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Warn("no model selector records, using built-in default", "model", DefaultModelValue)
		fallback := &Configuration{
			Group:  GroupModels,
			Name:   DefaultModelName,
			Value:  DefaultModelValue,
			Active: true,
		}
		r.activeModel.put(fallback)
		return fallback, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fallback model: %w", err)
	}

	r.activeModel.put(&c)
	return &c, nil
}

func (r *repo) InferenceParams(ctx context.Context) (map[string]float64, error) {
	configs, err := r.Group(ctx, GroupInference)
	if err != nil {
		return nil, err
	}

	if len(configs) == 0 {
		return DefaultInferenceParams(), nil
	}

	params := make(map[string]float64, len(configs))
	for _, c := range configs {
		v, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("inference param %s has non-numeric value %q", c.Name, c.Value)
		}
		params[c.Name] = v
	}
	return params, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Configuration, error) {
	q := fmt.Sprintf(`
		INSERT INTO configurations(group_key, name, value, description, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, projection)

	args := []any{cmd.Group, cmd.Name, cmd.Value, cmd.Description, cmd.Active}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Configuration, error) {
		return repository.QueryOne(ctx, tx, q, args, scanConfiguration)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.invalidateOnWrite(cmd.Group)
	r.logger.Info("configuration created", "group", c.Group, "name", c.Name)
	return &c, nil
}

// Update applies an optimistic write: the row is only updated when its
// stored updated_at still equals the token the caller last read. A stale
// token surfaces as ErrConflict, never a silent overwrite.
func (r *repo) Update(ctx context.Context, cmd UpdateCommand) (*Configuration, error) {
	q := fmt.Sprintf(`
		UPDATE configurations
		SET value = $1, description = $2, active = $3, updated_at = now()
		WHERE group_key = $4 AND name = $5 AND updated_at = $6
		RETURNING %s`, projection)

	args := []any{
		cmd.Value,
		cmd.Description,
		cmd.Active,
		cmd.Group,
		cmd.Name,
		cmd.ExpectedUpdatedAt,
	}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanConfiguration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyMiss(ctx, cmd.Group, cmd.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("update configuration %s/%s: %w", cmd.Group, cmd.Name, err)
	}

	r.invalidateOnWrite(cmd.Group)
	r.logger.Info("configuration updated", "group", c.Group, "name", c.Name, "active", c.Active)
	return &c, nil
}

// classifyMiss distinguishes a stale token from a missing row after an
// optimistic update matched nothing.
func (r *repo) classifyMiss(ctx context.Context, group Group, name string) error {
	var exists bool
	q := `SELECT EXISTS(SELECT 1 FROM configurations WHERE group_key = $1 AND name = $2)`
	if err := r.db.QueryRowContext(ctx, q, group, name).Scan(&exists); err != nil {
		return fmt.Errorf("classify update miss %s/%s: %w", group, name, err)
	}
	if exists {
		return ErrConflict
	}
	return ErrNotFound
}

func (r *repo) invalidateOnWrite(group Group) {
	if group == GroupModels {
		r.activeModel.invalidate()
	}
}
