package service_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/formhive/formhive/internal/models"
	"github.com/formhive/formhive/internal/policy"
	"github.com/formhive/formhive/internal/service"
	"github.com/formhive/formhive/internal/testutil"
)

var owner = policy.Caller{Authenticated: true, UserID: "u1", Email: "owner@example.com"}

func newFormService() (*service.FormService, *testutil.FakeFormStore, *testutil.FakeGrantStore) {
	forms := testutil.NewFakeFormStore()
	grants := testutil.NewFakeGrantStore()
	return service.NewFormService(forms, grants), forms, grants
}

func TestCreateAssignsSlugAndDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFormService()

	form, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	slugPattern := regexp.MustCompile(`^[A-Za-z0-9~_-]{20}$`)
	if !slugPattern.MatchString(form.Slug) {
		t.Errorf("slug %q does not match 20-char alphabet", form.Slug)
	}
	if form.CreatorEmail != owner.Email {
		t.Errorf("creator = %q, want %q", form.CreatorEmail, owner.Email)
	}
	if form.CloseTime == nil {
		t.Fatal("close time not set")
	}
	week := time.Until(*form.CloseTime)
	if week < 7*24*time.Hour-time.Minute || week > 7*24*time.Hour+time.Minute {
		t.Errorf("close time %v not one week out", week)
	}

	sections := form.TypedSections()
	if len(sections) != 1 || sections[0].Title != "Section Title" || len(sections[0].Items) != 0 {
		t.Errorf("default skeleton = %+v, want one empty section", sections)
	}
}

func TestCreateSlugsDiffer(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFormService()

	a, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if a.Slug == b.Slug {
		t.Errorf("consecutive creates produced identical slug %q", a.Slug)
	}
}

func TestCreateRequiresAuthentication(t *testing.T) {
	svc, _, _ := newFormService()
	if _, err := svc.Create(context.Background(), policy.Anonymous); !errors.Is(err, service.ErrDenied) {
		t.Errorf("Create() error = %v, want ErrDenied", err)
	}
}

func TestUpdatePreservesImmutableFields(t *testing.T) {
	ctx := context.Background()
	svc, forms, _ := newFormService()

	form, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	origSlug, origCreated := form.Slug, form.CreatedAt

	newClose := time.Now().Add(48 * time.Hour)
	updated, err := svc.Update(ctx, form.Slug, owner, service.FormUpdate{
		Name:      "Team Survey",
		FormData:  json.RawMessage(`[{"id":1,"title":"Renamed","items":[]}]`),
		CloseTime: &newClose,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Team Survey" {
		t.Errorf("name = %q", updated.Name)
	}

	stored := forms.Forms[origSlug]
	if stored == nil {
		t.Fatal("form vanished under its original slug")
	}
	if stored.Slug != origSlug || stored.CreatorEmail != owner.Email || !stored.CreatedAt.Equal(origCreated) {
		t.Errorf("immutable fields changed: %+v", stored)
	}
}

func TestUpdateRejectsNonArrayStructure(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFormService()

	form, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Update(ctx, form.Slug, owner, service.FormUpdate{
		FormData: json.RawMessage(`{"not":"an array"}`),
	})
	if !errors.Is(err, service.ErrInvalid) {
		t.Errorf("Update() error = %v, want ErrInvalid", err)
	}
}

// vanishingFormStore simulates the row disappearing between the find
// and the update round trips.
type vanishingFormStore struct {
	*testutil.FakeFormStore
}

func (s *vanishingFormStore) Replace(context.Context, *models.Form) error {
	return sql.ErrNoRows
}

func TestUpdateRowVanishedIsNotFound(t *testing.T) {
	ctx := context.Background()
	forms := testutil.NewFakeFormStore()
	svc := service.NewFormService(&vanishingFormStore{forms}, testutil.NewFakeGrantStore())

	seeded := service.NewFormService(forms, testutil.NewFakeGrantStore())
	form, err := seeded.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(ctx, form.Slug, owner, service.FormUpdate{Name: "renamed"})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound when the row vanished mid-update", err)
	}
}

func TestGetForEditRequiresAuthentication(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFormService()

	form, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}

	// The form is open to anonymous public viewing, but the edit view
	// stays login-gated.
	if _, err := svc.PublicView(ctx, form.Slug); err != nil {
		t.Fatalf("PublicView() error = %v", err)
	}
	if _, err := svc.GetForEdit(ctx, form.Slug, policy.Anonymous); !errors.Is(err, service.ErrDenied) {
		t.Errorf("anonymous GetForEdit() error = %v, want ErrDenied", err)
	}
}

func TestUpdateUnknownSlugIsNotFound(t *testing.T) {
	svc, _, _ := newFormService()
	_, err := svc.Update(context.Background(), "missing-slug-missing", owner, service.FormUpdate{})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestShareGrantsEditAccess(t *testing.T) {
	ctx := context.Background()
	svc, _, grants := newFormService()

	form, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Share(ctx, form.Slug, owner, "b@example.com"); err != nil {
		t.Fatalf("Share() error = %v", err)
	}

	grantee := policy.Caller{Authenticated: true, Email: "b@example.com"}
	if _, err := svc.GetForEdit(ctx, form.Slug, grantee); err != nil {
		t.Errorf("grantee GetForEdit() error = %v", err)
	}

	stranger := policy.Caller{Authenticated: true, Email: "c@example.com"}
	if _, err := svc.GetForEdit(ctx, form.Slug, stranger); !errors.Is(err, service.ErrDenied) {
		t.Errorf("stranger GetForEdit() error = %v, want ErrDenied", err)
	}

	if !grants.Grants[form.Slug+"|b@example.com"] {
		t.Error("grant row not recorded")
	}
}

func TestShareIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFormService()

	form, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	grantee := policy.Caller{Authenticated: true, Email: "b@example.com"}
	if err := svc.Share(ctx, form.Slug, grantee, "c@example.com"); !errors.Is(err, service.ErrDenied) {
		t.Errorf("non-owner Share() error = %v, want ErrDenied", err)
	}
	if err := svc.Share(ctx, form.Slug, owner, "not-an-email"); !errors.Is(err, service.ErrInvalid) {
		t.Errorf("Share() with bad email error = %v, want ErrInvalid", err)
	}
}

func TestGetForEditDeniesWhenGrantLookupFails(t *testing.T) {
	ctx := context.Background()
	svc, _, grants := newFormService()

	form, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	grants.Err = errors.New("connection refused")

	grantee := policy.Caller{Authenticated: true, Email: "b@example.com"}
	if _, err := svc.GetForEdit(ctx, form.Slug, grantee); !errors.Is(err, service.ErrDenied) {
		t.Errorf("GetForEdit() error = %v, want ErrDenied on lookup failure", err)
	}

	// The owner path does not consult the grant table.
	if _, err := svc.GetForEdit(ctx, form.Slug, owner); err != nil {
		t.Errorf("owner GetForEdit() error = %v", err)
	}
}

func TestPublicViewFoldsClosedIntoNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFormService()

	form, err := svc.Create(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.PublicView(ctx, form.Slug); err != nil {
		t.Errorf("open form PublicView() error = %v", err)
	}

	past := time.Now().Add(-time.Second)
	if _, err := svc.Update(ctx, form.Slug, owner, service.FormUpdate{CloseTime: &past}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.PublicView(ctx, form.Slug); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("closed form PublicView() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.PublicView(ctx, "no-such-slug-here-00"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown slug PublicView() error = %v, want ErrNotFound", err)
	}
}
