package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/formhive/formhive/internal/models"
)

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, email, full_name, password_hash, created_at FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: find by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, email, full_name, password_hash, created_at FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: find by id: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (id, email, full_name, password_hash)
		 VALUES (:id, :email, :full_name, :password_hash)`, u)
	if err != nil {
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}

// UpsertProfile writes the display name, inserting the row if the id is
// not present yet (first-login provisioning keeps the same code path as
// a later profile edit).
func (r *UserRepo) UpsertProfile(ctx context.Context, u *models.User) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (id, email, full_name, password_hash)
		 VALUES (:id, :email, :full_name, :password_hash)
		 ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name`, u)
	if err != nil {
		return fmt.Errorf("users: upsert profile: %w", err)
	}
	return nil
}
