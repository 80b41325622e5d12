package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/formhive/formhive/internal/models"
	"github.com/formhive/formhive/internal/policy"
)

type FormService struct {
	forms  FormStore
	grants GrantStore
}

func NewFormService(forms FormStore, grants GrantStore) *FormService {
	return &FormService{forms: forms, grants: grants}
}

// Create inserts a new form for the caller: a fresh random slug, a
// one-section skeleton, and a close time one week out.
func (s *FormService) Create(ctx context.Context, caller policy.Caller) (*models.Form, error) {
	if !caller.Authenticated {
		return nil, ErrDenied
	}
	slug, err := newSlug()
	if err != nil {
		return nil, err
	}
	closeTime := time.Now().Add(7 * 24 * time.Hour)
	form := &models.Form{
		Slug:               slug,
		CreatorEmail:       caller.Email,
		FormData:           defaultSkeleton(),
		BackgroundSettings: types.JSONText("{}"),
		CloseTime:          &closeTime,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.forms.Create(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

// GetForEdit loads a form for the editing view. Only the owner and
// grantees may see it; everyone else gets access denied, which stays
// distinct from not-found so login-gated clients can tell them apart.
// The anonymous arm of CanRead covers the public view only, so an
// unauthenticated caller is denied here before the predicate runs.
func (s *FormService) GetForEdit(ctx context.Context, slug string, caller policy.Caller) (*models.Form, error) {
	form, err := s.forms.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	if !caller.Authenticated {
		return nil, ErrDenied
	}
	ok, err := policy.CanRead(ctx, form, caller, s.grants, time.Now())
	if err != nil {
		log.Printf("Warning: grant lookup failed for %s: %v", form.Slug, err)
		return nil, ErrDenied
	}
	if !ok {
		return nil, ErrDenied
	}
	return form, nil
}

type FormUpdate struct {
	Name               string          `json:"form_name"`
	FormData           json.RawMessage `json:"form_data"`
	BackgroundSettings json.RawMessage `json:"background_settings"`
	CloseTime          *time.Time      `json:"form_close_time"`
}

// Update replaces the form's mutable fields in full. The slug, owner,
// and creation timestamp never change. Editing is permitted in any
// lifecycle state; pushing the close time forward reopens the form.
func (s *FormService) Update(ctx context.Context, slug string, caller policy.Caller, upd FormUpdate) (*models.Form, error) {
	form, err := s.forms.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	if err := s.authorizeWrite(ctx, form, caller); err != nil {
		return nil, err
	}
	if len(upd.FormData) > 0 {
		if !isJSONArray(upd.FormData) {
			return nil, fmt.Errorf("%w: form_data must be an array of sections", ErrInvalid)
		}
		form.FormData = types.JSONText(upd.FormData)
	}
	form.Name = upd.Name
	if len(upd.BackgroundSettings) > 0 {
		form.BackgroundSettings = types.JSONText(upd.BackgroundSettings)
	}
	form.CloseTime = upd.CloseTime
	if err := s.forms.Replace(ctx, form); err != nil {
		// The row can vanish between the find and the update; that
		// benign race is a not-found outcome, not a server fault.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return form, nil
}

// Share grants edit access to another user by email. Only the owner
// may share; re-sharing the same email is a no-op.
func (s *FormService) Share(ctx context.Context, slug string, caller policy.Caller, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalid)
	}
	form, err := s.forms.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if form == nil {
		return ErrNotFound
	}
	if !caller.Authenticated || caller.Email != form.CreatorEmail {
		return ErrDenied
	}
	return s.grants.Grant(ctx, slug, email)
}

// PublicView loads a form for anonymous viewing. Closed and unknown
// slugs produce the same not-found outcome so the public endpoint
// never confirms whether a slug exists.
func (s *FormService) PublicView(ctx context.Context, slug string) (*models.Form, error) {
	form, err := s.forms.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	ok, err := policy.CanRead(ctx, form, policy.Anonymous, s.grants, time.Now())
	if err != nil || !ok {
		return nil, ErrNotFound
	}
	return form, nil
}

// Owned and SharedWith back the dashboard listing.
func (s *FormService) Owned(ctx context.Context, caller policy.Caller) ([]models.Form, error) {
	if !caller.Authenticated {
		return nil, ErrDenied
	}
	return s.forms.ListByOwner(ctx, caller.Email)
}

func (s *FormService) SharedWith(ctx context.Context, caller policy.Caller) ([]models.Form, error) {
	if !caller.Authenticated {
		return nil, ErrDenied
	}
	return s.forms.ListShared(ctx, caller.Email)
}

// authorizeWrite folds a failed grant lookup into access denied: the
// storage error is logged here, never surfaced as permission.
func (s *FormService) authorizeWrite(ctx context.Context, form *models.Form, caller policy.Caller) error {
	ok, err := policy.CanWrite(ctx, form, caller, s.grants)
	if err != nil {
		log.Printf("Warning: grant lookup failed for %s: %v", form.Slug, err)
		return ErrDenied
	}
	if !ok {
		return ErrDenied
	}
	return nil
}

func defaultSkeleton() []byte {
	skeleton := []models.Section{{
		ID:          1,
		Title:       "Section Title",
		Description: "This is the first section",
		Items:       []models.FormItem{},
	}}
	data, _ := json.Marshal(skeleton)
	return data
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '['
		}
	}
	return false
}
