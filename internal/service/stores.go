package service

import (
	"context"

	"github.com/formhive/formhive/internal/models"
)

// Store contracts the services depend on. internal/repository provides
// the Postgres implementations; tests substitute in-memory fakes. Every
// method is a single round trip — no store call spans tables, so
// compound operations (access-check-then-fetch, fetch-then-insert)
// tolerate the benign race between their two calls.

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	UpsertProfile(ctx context.Context, u *models.User) error
}

type FormStore interface {
	Create(ctx context.Context, f *models.Form) error
	FindBySlug(ctx context.Context, slug string) (*models.Form, error)
	Replace(ctx context.Context, f *models.Form) error
	ListByOwner(ctx context.Context, email string) ([]models.Form, error)
	ListShared(ctx context.Context, email string) ([]models.Form, error)
}

type GrantStore interface {
	Grant(ctx context.Context, slug, email string) error
	Exists(ctx context.Context, slug, email string) (bool, error)
}

type SubmissionStore interface {
	Create(ctx context.Context, s *models.Submission) error
	ListByForm(ctx context.Context, slug string) ([]models.Submission, error)
	CountByForm(ctx context.Context, slug string) (int, error)
}
