package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/formhive/formhive/internal/models"
)

type FormRepo struct {
	db *sqlx.DB
}

func NewFormRepo(db *sqlx.DB) *FormRepo {
	return &FormRepo{db: db}
}

func (r *FormRepo) Create(ctx context.Context, f *models.Form) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO forms (form_hash, form_name, creator_email, form_data, background_settings, form_close_time, created_at)
		 VALUES (:form_hash, :form_name, :creator_email, :form_data, :background_settings, :form_close_time, :created_at)`, f)
	if err != nil {
		return fmt.Errorf("forms: create: %w", err)
	}
	return nil
}

func (r *FormRepo) FindBySlug(ctx context.Context, slug string) (*models.Form, error) {
	var f models.Form
	err := r.db.GetContext(ctx, &f,
		`SELECT form_hash, form_name, creator_email, form_data, background_settings, form_close_time, created_at
		 FROM forms WHERE form_hash = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("forms: find by slug: %w", err)
	}
	return &f, nil
}

// Replace overwrites the mutable columns of a form. The slug, owner,
// and creation timestamp are deliberately not part of the statement.
func (r *FormRepo) Replace(ctx context.Context, f *models.Form) error {
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE forms
		 SET form_name = :form_name,
		     form_data = :form_data,
		     background_settings = :background_settings,
		     form_close_time = :form_close_time
		 WHERE form_hash = :form_hash`, f)
	if err != nil {
		return fmt.Errorf("forms: replace: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *FormRepo) ListByOwner(ctx context.Context, email string) ([]models.Form, error) {
	forms := []models.Form{}
	err := r.db.SelectContext(ctx, &forms,
		`SELECT form_hash, form_name, creator_email, form_data, background_settings, form_close_time, created_at
		 FROM forms WHERE creator_email = $1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("forms: list by owner: %w", err)
	}
	return forms, nil
}

// ListShared returns forms another owner granted the email access to.
func (r *FormRepo) ListShared(ctx context.Context, email string) ([]models.Form, error) {
	forms := []models.Form{}
	err := r.db.SelectContext(ctx, &forms,
		`SELECT f.form_hash, f.form_name, f.creator_email, f.form_data, f.background_settings, f.form_close_time, f.created_at
		 FROM forms f
		 JOIN forms_access_relation a ON a.form_hash = f.form_hash
		 WHERE a.shared_email = $1 AND f.creator_email <> $1
		 ORDER BY f.created_at DESC`, email)
	if err != nil {
		return nil, fmt.Errorf("forms: list shared: %w", err)
	}
	return forms, nil
}
