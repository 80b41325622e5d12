package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/formhive/formhive/internal/models"
)

type SubmissionRepo struct {
	db *sqlx.DB
}

func NewSubmissionRepo(db *sqlx.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// Create inserts a response row. Rows are immutable after insert; there
// is no update or delete path, and no dedup key, so client retries land
// as distinct rows.
func (r *SubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO form_responses (form_hash, email, response)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		s.FormSlug, s.Email, s.Response).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("responses: create: %w", err)
	}
	return nil
}

func (r *SubmissionRepo) ListByForm(ctx context.Context, slug string) ([]models.Submission, error) {
	subs := []models.Submission{}
	err := r.db.SelectContext(ctx, &subs,
		`SELECT id, form_hash, email, response, created_at
		 FROM form_responses WHERE form_hash = $1 ORDER BY created_at`, slug)
	if err != nil {
		return nil, fmt.Errorf("responses: list by form: %w", err)
	}
	return subs, nil
}

func (r *SubmissionRepo) CountByForm(ctx context.Context, slug string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM form_responses WHERE form_hash = $1`, slug)
	if err != nil {
		return 0, fmt.Errorf("responses: count by form: %w", err)
	}
	return n, nil
}
