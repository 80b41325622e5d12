// Package testutil provides in-memory store fakes so the service and
// handler suites run without a live database.
package testutil

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/formhive/formhive/internal/models"
)

type FakeUserStore struct {
	mu    sync.Mutex
	Users map[string]*models.User // keyed by id
}

func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{Users: map[string]*models.User{}}
}

func (s *FakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *FakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *FakeUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	cp.CreatedAt = time.Now()
	s.Users[u.ID] = &cp
	return nil
}

func (s *FakeUserStore) UpsertProfile(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.Users[u.ID]; ok {
		existing.FullName = u.FullName
		return nil
	}
	cp := *u
	s.Users[u.ID] = &cp
	return nil
}

type FakeFormStore struct {
	mu    sync.Mutex
	Forms map[string]*models.Form // keyed by slug
	Err   error                   // when set, every call fails with it
}

func NewFakeFormStore() *FakeFormStore {
	return &FakeFormStore{Forms: map[string]*models.Form{}}
}

func (s *FakeFormStore) Create(_ context.Context, f *models.Form) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.Forms[f.Slug] = &cp
	return nil
}

func (s *FakeFormStore) FindBySlug(_ context.Context, slug string) (*models.Form, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.Forms[slug]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (s *FakeFormStore) Replace(_ context.Context, f *models.Form) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.Forms[f.Slug]
	if !ok {
		return sql.ErrNoRows
	}
	// Immutable columns are not part of the update statement.
	cp := *f
	cp.CreatorEmail = existing.CreatorEmail
	cp.CreatedAt = existing.CreatedAt
	s.Forms[f.Slug] = &cp
	return nil
}

func (s *FakeFormStore) ListByOwner(_ context.Context, email string) ([]models.Form, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Form{}
	for _, f := range s.Forms {
		if f.CreatorEmail == email {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *FakeFormStore) ListShared(_ context.Context, email string) ([]models.Form, error) {
	return []models.Form{}, s.Err
}

type FakeGrantStore struct {
	mu     sync.Mutex
	Grants map[string]bool // keyed by slug|email
	Err    error
}

func NewFakeGrantStore() *FakeGrantStore {
	return &FakeGrantStore{Grants: map[string]bool{}}
}

func (s *FakeGrantStore) Grant(_ context.Context, slug, email string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Grants[slug+"|"+email] = true
	return nil
}

func (s *FakeGrantStore) Exists(_ context.Context, slug, email string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Grants[slug+"|"+email], nil
}

type FakeSubmissionStore struct {
	mu   sync.Mutex
	Subs []models.Submission
	Err  error
}

func NewFakeSubmissionStore() *FakeSubmissionStore {
	return &FakeSubmissionStore{}
}

func (s *FakeSubmissionStore) Create(_ context.Context, sub *models.Submission) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.ID = int64(len(s.Subs) + 1)
	sub.CreatedAt = time.Now()
	s.Subs = append(s.Subs, *sub)
	return nil
}

func (s *FakeSubmissionStore) ListByForm(_ context.Context, slug string) ([]models.Submission, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Submission{}
	for _, sub := range s.Subs {
		if sub.FormSlug == slug {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *FakeSubmissionStore) CountByForm(ctx context.Context, slug string) (int, error) {
	subs, err := s.ListByForm(ctx, slug)
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}
