package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/jmoiron/sqlx/types"

	"github.com/formhive/formhive/internal/models"
	"github.com/formhive/formhive/internal/policy"
)

type SubmissionService struct {
	subs   SubmissionStore
	forms  FormStore
	grants GrantStore
}

func NewSubmissionService(subs SubmissionStore, forms FormStore, grants GrantStore) *SubmissionService {
	return &SubmissionService{subs: subs, forms: forms, grants: grants}
}

// Submit validates and persists one response. The lifecycle check and
// the insert are two independent round trips; a form closing between
// them is a benign race this system accepts. There is no dedup key, so
// client retries land as distinct rows.
func (s *SubmissionService) Submit(ctx context.Context, slug, email string, payload json.RawMessage) (*models.Submission, error) {
	form, err := s.forms.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	if !policy.CanSubmit(form, time.Now()) {
		return nil, ErrClosed
	}

	var answers []any
	if err := json.Unmarshal(payload, &answers); err != nil {
		return nil, fmt.Errorf("%w: response must be an ordered array of answers", ErrInvalid)
	}
	if err := validateAnswers(form, answers); err != nil {
		return nil, err
	}

	sub := &models.Submission{
		FormSlug: slug,
		Email:    email,
		Response: types.JSONText(payload),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns a form's responses to its editors (owner or grantee).
func (s *SubmissionService) List(ctx context.Context, slug string, caller policy.Caller) ([]models.Submission, error) {
	form, err := s.forms.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrNotFound
	}
	ok, err := policy.CanWrite(ctx, form, caller, s.grants)
	if err != nil || !ok {
		return nil, ErrDenied
	}
	return s.subs.ListByForm(ctx, slug)
}

func (s *SubmissionService) CountByForm(ctx context.Context, slug string) (int, error) {
	return s.subs.CountByForm(ctx, slug)
}

// validateAnswers enforces required items against the form's structure
// at submission time. Answers align positionally to the flattened item
// list. Items hidden by their visible_if condition are exempt from the
// required check.
func validateAnswers(form *models.Form, answers []any) error {
	items := form.Items()

	env := map[string]any{}
	for i, item := range items {
		if item.Name != "" && i < len(answers) {
			env[item.Name] = answers[i]
		}
	}

	for i, item := range items {
		if !item.Required {
			continue
		}
		if item.VisibleIf != "" && !conditionHolds(item.VisibleIf, env) {
			continue
		}
		if i >= len(answers) || isEmptyAnswer(answers[i]) {
			return fmt.Errorf("%w: required item missing: %s", ErrInvalid, item.Title)
		}
	}
	return nil
}

// conditionHolds evaluates a visible_if expression against the named
// answers. A broken author expression never blocks a submitter: any
// compile or runtime failure counts as visible.
func conditionHolds(condition string, env map[string]any) bool {
	program, err := expr.Compile(condition, expr.Env(env))
	if err != nil {
		return true
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return true
	}
	holds, ok := out.(bool)
	if !ok {
		return true
	}
	return holds
}

func isEmptyAnswer(v any) bool {
	switch a := v.(type) {
	case nil:
		return true
	case string:
		return a == ""
	case []any:
		return len(a) == 0
	default:
		return false
	}
}
