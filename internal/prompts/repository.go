package prompts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/veridoc-io/veridoc/pkg/pagination"
	"github.com/veridoc-io/veridoc/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	active     activeCache
}

// New creates a prompt repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pages pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pages,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	where := ""
	args := []any{}
	if page.Search != nil {
		where = "WHERE role ILIKE $1 OR tasks ILIKE $1"
		args = append(args, "%"+*page.Search+"%")
	}

	countSQL := fmt.Sprintf("SELECT count(*) FROM prompts %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	pageSQL := fmt.Sprintf(`
		SELECT %s FROM prompts %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, projection, where, len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())

	prompts, err := repository.QueryMany(ctx, r.db, pageSQL, args, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	result := pagination.NewPageResult(prompts, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q := fmt.Sprintf("SELECT %s FROM prompts WHERE id = $1", projection)

	p, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &p, nil
}

// Active returns the single active prompt, cached after the first
// successful read. Multiple active rows can transiently exist during an
// activation sweep; the first by most recent update wins and a warning
// is logged.
func (r *repo) Active(ctx context.Context) (*Prompt, error) {
	if v, ok := r.active.get(); ok {
		return v, nil
	}

	q := fmt.Sprintf(`
		SELECT %s FROM prompts
		WHERE active = true
		ORDER BY updated_at DESC`, projection)

	actives, err := repository.QueryMany(ctx, r.db, q, nil, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query active prompt: %w", err)
	}

	if len(actives) == 0 {
		return nil, ErrNoActive
	}
	if len(actives) > 1 {
		r.logger.Warn("multiple active prompts found, using most recent", "count", len(actives))
	}

	p := actives[0]
	r.active.put(&p)
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Prompt, error) {
	if cmd.Role == "" || cmd.Tasks == "" {
		return nil, ErrEmpty
	}

	// A prompt created active displaces the current one.
	if cmd.Active {
		if err := r.deactivateOthers(ctx, uuid.Nil); err != nil {
			return nil, err
		}
	}

	q := fmt.Sprintf(`
		INSERT INTO prompts(id, role, tasks, active)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, projection)

	args := []any{uuid.New(), cmd.Role, cmd.Tasks, cmd.Active}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	if cmd.Active {
		r.active.invalidate()
	}

	r.logger.Info("prompt created", "id", p.ID, "active", p.Active)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error) {
	if cmd.Role == "" || cmd.Tasks == "" {
		return nil, ErrEmpty
	}

	q := fmt.Sprintf(`
		UPDATE prompts
		SET role = $1, tasks = $2, updated_at = now()
		WHERE id = $3
		RETURNING %s`, projection)

	p, err := repository.QueryOne(ctx, r.db, q, []any{cmd.Role, cmd.Tasks, id}, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	if p.Active {
		r.active.invalidate()
	}

	r.logger.Info("prompt updated", "id", p.ID)
	return &p, nil
}

// Delete removes a prompt. A missing identifier fails with ErrNotFound
// rather than a silent no-op.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM prompts WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	r.active.invalidate()
	r.logger.Info("prompt deleted", "id", id)
	return nil
}

// Activate makes the target prompt the single active one. The sweep runs
// as scan-then-deactivate, one row at a time, so a concurrent reader may
// briefly observe zero or more than one active prompt; the next Active
// read after the sweep completes is consistent.
func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	if err := r.deactivateOthers(ctx, id); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE prompts
		SET active = true, updated_at = now()
		WHERE id = $1
		RETURNING %s`, projection)

	p, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	r.active.invalidate()
	r.logger.Info("prompt activated", "id", p.ID)
	return &p, nil
}

func (r *repo) deactivateOthers(ctx context.Context, keep uuid.UUID) error {
	q := fmt.Sprintf("SELECT %s FROM prompts WHERE active = true", projection)

	actives, err := repository.QueryMany(ctx, r.db, q, nil, scanPrompt)
	if err != nil {
		return fmt.Errorf("scan active prompts: %w", err)
	}

	for _, p := range actives {
		if p.ID == keep {
			continue
		}
		_, err := r.db.ExecContext(
			ctx,
			"UPDATE prompts SET active = false, updated_at = now() WHERE id = $1",
			p.ID,
		)
		if err != nil {
			return fmt.Errorf("deactivate prompt %s: %w", p.ID, err)
		}
		r.logger.Info("prompt deactivated", "id", p.ID)
	}

	return nil
}
