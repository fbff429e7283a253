package postgres

import (
	"context"
	"database/sql"

	"docreview/internal/model"
	"docreview/internal/repository"
)

// SubmissionPostgres is a PostgreSQL implementation of
// repository.SubmissionRepository using database/sql with parameterized
// queries.
type SubmissionPostgres struct {
	db *sql.DB
}

// NewSubmissionPostgres creates a new SubmissionPostgres repository.
func NewSubmissionPostgres(db *sql.DB) *SubmissionPostgres {
	return &SubmissionPostgres{db: db}
}

var _ repository.SubmissionRepository = (*SubmissionPostgres)(nil)

// Create inserts a new submission row and returns the stored record.
func (r *SubmissionPostgres) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	const q = `
		INSERT INTO submissions (id, content_id, filename, content_type, size, registered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, content_id, filename, content_type, size, registered, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		sub.ID,
		sub.ContentID,
		sub.Filename,
		sub.ContentType,
		sub.Size,
		sub.Registered,
		sub.CreatedAt,
	)
	var out model.Submission
	if err := row.Scan(
		&out.ID,
		&out.ContentID,
		&out.Filename,
		&out.ContentType,
		&out.Size,
		&out.Registered,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkRegistered flips the registered flag for every row of a content id.
func (r *SubmissionPostgres) MarkRegistered(ctx context.Context, contentID string) error {
	const q = `UPDATE submissions SET registered = TRUE WHERE content_id = $1`
	_, err := r.db.ExecContext(ctx, q, contentID)
	return err
}

// FindByContentID returns the newest submission row for a content id.
func (r *SubmissionPostgres) FindByContentID(ctx context.Context, contentID string) (*model.Submission, error) {
	const q = `
		SELECT id, content_id, filename, content_type, size, registered, created_at
		FROM submissions
		WHERE content_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, q, contentID)
	var s model.Submission
	if err := row.Scan(
		&s.ID,
		&s.ContentID,
		&s.Filename,
		&s.ContentType,
		&s.Size,
		&s.Registered,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListUnregistered returns rows whose registration never succeeded.
func (r *SubmissionPostgres) ListUnregistered(ctx context.Context) ([]model.Submission, error) {
	const q = `
		SELECT id, content_id, filename, content_type, size, registered, created_at
		FROM submissions
		WHERE registered = FALSE
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Submission, 0)
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(
			&s.ID,
			&s.ContentID,
			&s.Filename,
			&s.ContentType,
			&s.Size,
			&s.Registered,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
