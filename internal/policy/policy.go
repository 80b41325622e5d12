// Package policy decides who may read, write, and submit to a form, and
// derives a form's lifecycle state from its close time. State is never
// stored; it is recomputed on every evaluation so the close deadline has
// exactly one source of truth.
package policy

import (
	"context"
	"time"

	"github.com/formhive/formhive/internal/models"
)

type State int

const (
	StateOpen State = iota
	StateClosed
)

func (s State) String() string {
	if s == StateClosed {
		return "closed"
	}
	return "open"
}

// Caller is the identity resolved for the current request. Anonymous
// callers have Authenticated=false and an empty email.
type Caller struct {
	Authenticated bool
	UserID        string
	Email         string
}

// Anonymous is the zero caller, usable directly in checks.
var Anonymous = Caller{}

// GrantChecker reports whether a sharing grant exists for (slug, email).
type GrantChecker interface {
	Exists(ctx context.Context, slug, email string) (bool, error)
}

// StateAt derives the lifecycle state of a form at the given instant.
// A form with no close time is open indefinitely; a close time at or
// before now means closed. Editing the form can push the close time
// forward, which reopens it on the next evaluation.
func StateAt(f *models.Form, now time.Time) State {
	if f.CloseTime == nil {
		return StateOpen
	}
	if now.Before(*f.CloseTime) {
		return StateOpen
	}
	return StateClosed
}

// CanSubmit reports whether the form accepts responses at the given
// instant. Submissions are anonymous-eligible, so the caller identity
// plays no part.
func CanSubmit(f *models.Form, now time.Time) bool {
	return StateAt(f, now) == StateOpen
}

// CanWrite reports whether the caller may mutate the form's structure.
// Only the owner and grantees qualify; anonymous callers never do.
// A failed grant lookup denies: absence of evidence is not access.
func CanWrite(ctx context.Context, f *models.Form, caller Caller, grants GrantChecker) (bool, error) {
	if !caller.Authenticated || caller.Email == "" {
		return false, nil
	}
	if caller.Email == f.CreatorEmail {
		return true, nil
	}
	ok, err := grants.Exists(ctx, f.Slug, caller.Email)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// CanRead reports whether the caller may view the form. Anonymous
// callers see only open forms (the public submission view); owners and
// grantees see the form in any state.
func CanRead(ctx context.Context, f *models.Form, caller Caller, grants GrantChecker, now time.Time) (bool, error) {
	if !caller.Authenticated {
		return StateAt(f, now) == StateOpen, nil
	}
	return CanWrite(ctx, f, caller, grants)
}
