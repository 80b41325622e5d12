package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/formhive/formhive/internal/models"
	"github.com/formhive/formhive/internal/policy"
	"github.com/formhive/formhive/internal/service"
	"github.com/formhive/formhive/internal/testutil"
)

func newSubmissionFixture(t *testing.T, formData string, closeTime *time.Time) (*service.SubmissionService, *testutil.FakeSubmissionStore, string) {
	t.Helper()
	forms := testutil.NewFakeFormStore()
	grants := testutil.NewFakeGrantStore()
	subs := testutil.NewFakeSubmissionStore()

	form := &models.Form{
		Slug:         "abcdefghij0123456789",
		CreatorEmail: owner.Email,
		FormData:     types.JSONText(formData),
		CloseTime:    closeTime,
		CreatedAt:    time.Now(),
	}
	if err := forms.Create(context.Background(), form); err != nil {
		t.Fatal(err)
	}
	return service.NewSubmissionService(subs, forms, grants), subs, form.Slug
}

const plainForm = `[{"id":1,"title":"S1","items":[{"id":1,"type":"text","title":"Your name"}]}]`

func TestSubmitOpenFormInsertsRow(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(time.Hour)
	svc, subs, slug := newSubmissionFixture(t, plainForm, &future)

	sub, err := svc.Submit(ctx, slug, "anon@example.com", json.RawMessage(`["Ada"]`))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if sub.FormSlug != slug {
		t.Errorf("submission slug = %q, want %q", sub.FormSlug, slug)
	}
	if len(subs.Subs) != 1 {
		t.Fatalf("row count = %d, want 1", len(subs.Subs))
	}
}

func TestSubmitClosedFormRejectsWithoutInsert(t *testing.T) {
	ctx := context.Background()
	past := time.Now().Add(-time.Second)
	svc, subs, slug := newSubmissionFixture(t, plainForm, &past)

	before := len(subs.Subs)
	_, err := svc.Submit(ctx, slug, "", json.RawMessage(`["Ada"]`))
	if !errors.Is(err, service.ErrClosed) {
		t.Errorf("Submit() error = %v, want ErrClosed", err)
	}
	if len(subs.Subs) != before {
		t.Errorf("row count changed on rejected submission: %d -> %d", before, len(subs.Subs))
	}
}

func TestSubmitUnknownSlugIsNotFound(t *testing.T) {
	future := time.Now().Add(time.Hour)
	svc, _, _ := newSubmissionFixture(t, plainForm, &future)

	_, err := svc.Submit(context.Background(), "unknown-slug-0000000", "", json.RawMessage(`[]`))
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Submit() error = %v, want ErrNotFound", err)
	}
}

func TestSubmitNonArrayPayloadIsValidationError(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(time.Hour)
	svc, subs, slug := newSubmissionFixture(t, plainForm, &future)

	for _, payload := range []string{`{"a":1}`, `"just a string"`, `42`, `not json at all`} {
		_, err := svc.Submit(ctx, slug, "", json.RawMessage(payload))
		if !errors.Is(err, service.ErrInvalid) {
			t.Errorf("Submit(%s) error = %v, want ErrInvalid", payload, err)
		}
	}
	if len(subs.Subs) != 0 {
		t.Errorf("invalid payloads inserted %d rows", len(subs.Subs))
	}
}

func TestSubmitDuplicatesAccepted(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(time.Hour)
	svc, subs, slug := newSubmissionFixture(t, plainForm, &future)

	payload := json.RawMessage(`["Ada"]`)
	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(ctx, slug, "a@example.com", payload); err != nil {
			t.Fatalf("Submit() #%d error = %v", i+1, err)
		}
	}
	if len(subs.Subs) != 2 {
		t.Errorf("row count = %d, want 2 (retries land as distinct rows)", len(subs.Subs))
	}
}

const requiredForm = `[{"id":1,"title":"S1","items":[
	{"id":1,"type":"choice","title":"Attending?","name":"attending","required":true,"options":["yes","no"]},
	{"id":2,"type":"text","title":"Dietary needs","name":"diet","required":true,"visible_if":"attending == \"yes\""}
]}]`

func TestSubmitRequiredAndConditionalItems(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"all answered", `["yes","vegetarian"]`, false},
		{"required missing", `["", ""]`, true},
		{"hidden item skipped", `["no",""]`, false},
		{"visible item empty", `["yes",""]`, true},
		{"short answer list hides nothing", `["yes"]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, slug := newSubmissionFixture(t, requiredForm, &future)
			_, err := svc.Submit(ctx, slug, "", json.RawMessage(tt.payload))
			if tt.wantErr && !errors.Is(err, service.ErrInvalid) {
				t.Errorf("Submit() error = %v, want ErrInvalid", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Submit() error = %v", err)
			}
		})
	}
}

func TestListResponsesRequiresEditAccess(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(time.Hour)
	svc, _, slug := newSubmissionFixture(t, plainForm, &future)

	if _, err := svc.Submit(ctx, slug, "", json.RawMessage(`["Ada"]`)); err != nil {
		t.Fatal(err)
	}

	got, err := svc.List(ctx, slug, owner)
	if err != nil {
		t.Fatalf("owner List() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("owner sees %d responses, want 1", len(got))
	}

	stranger := policy.Caller{Authenticated: true, Email: "c@example.com"}
	if _, err := svc.List(ctx, slug, stranger); !errors.Is(err, service.ErrDenied) {
		t.Errorf("stranger List() error = %v, want ErrDenied", err)
	}
	if _, err := svc.List(ctx, slug, policy.Anonymous); !errors.Is(err, service.ErrDenied) {
		t.Errorf("anonymous List() error = %v, want ErrDenied", err)
	}
}
