package verifications

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
}

// New creates a verification repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pages pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "verifications"),
		pagination: pages,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Verification], error) {
	page.Normalize(r.pagination)

	where := ""
	args := []any{}
	if page.Search != nil {
		where = "WHERE status = $1 OR document_type ILIKE $2"
		args = append(args, *page.Search, "%"+*page.Search+"%")
	}

	countSQL := fmt.Sprintf("SELECT count(*) FROM verifications %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count verifications: %w", err)
	}

	pageSQL := fmt.Sprintf(`
		SELECT %s FROM verifications %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, projection, where, len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())

	items, err := repository.QueryMany(ctx, r.db, pageSQL, args, scanVerification)
	if err != nil {
		return nil, fmt.Errorf("query verifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Verification, error) {
	q := fmt.Sprintf("SELECT %s FROM verifications WHERE id = $1", projection)

	v, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanVerification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &v, nil
}

// Insert persists the initial workflow record. The returned timestamps
// are written back onto v.
func (r *repo) Insert(ctx context.Context, v *Verification) error {
	steps, additionalInfo, err := encodeJSONColumns(v)
	if err != nil {
		return err
	}

	q := `
		INSERT INTO verifications(
			id, status, file_key, document_type, steps, confidence,
			result_summary, needs_info_request, error_message, additional_info
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(
		ctx, q,
		v.ID, v.Status.String(), v.FileKey, v.DocumentType, steps,
		v.Confidence, v.ResultSummary, v.NeedsInfoRequest, v.Error,
		additionalInfo,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}

	r.logger.Info("verification created", "id", v.ID, "status", v.Status)
	return nil
}

// Save writes the full workflow snapshot, last-writer-wins on the same
// identifier.
func (r *repo) Save(ctx context.Context, v *Verification) error {
	steps, additionalInfo, err := encodeJSONColumns(v)
	if err != nil {
		return err
	}

	q := `
		UPDATE verifications
		SET status = $1, document_type = $2, steps = $3, confidence = $4,
			result_summary = $5, needs_info_request = $6, error_message = $7,
			additional_info = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at`

	err = r.db.QueryRowContext(
		ctx, q,
		v.Status.String(), v.DocumentType, steps, v.Confidence,
		v.ResultSummary, v.NeedsInfoRequest, v.Error, additionalInfo,
		v.ID,
	).Scan(&v.UpdatedAt)
	if err != nil {
		return repository.MapError(fmt.Errorf("save verification: %w", err), ErrNotFound, ErrNotFound)
	}

	r.logger.Debug("verification saved", "id", v.ID, "status", v.Status, "steps", len(v.Steps))
	return nil
}
