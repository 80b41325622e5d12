package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type GrantRepo struct {
	db *sqlx.DB
}

func NewGrantRepo(db *sqlx.DB) *GrantRepo {
	return &GrantRepo{db: db}
}

// Grant records a sharing relation. Re-sharing with the same email is a
// no-op so (form_hash, shared_email) stays unique.
func (r *GrantRepo) Grant(ctx context.Context, slug, email string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO forms_access_relation (form_hash, shared_email)
		 VALUES ($1, $2)
		 ON CONFLICT (form_hash, shared_email) DO NOTHING`, slug, email)
	if err != nil {
		return fmt.Errorf("grants: grant: %w", err)
	}
	return nil
}

func (r *GrantRepo) Exists(ctx context.Context, slug, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (
		    SELECT 1 FROM forms_access_relation WHERE form_hash = $1 AND shared_email = $2
		 )`, slug, email)
	if err != nil {
		return false, fmt.Errorf("grants: exists: %w", err)
	}
	return exists, nil
}
