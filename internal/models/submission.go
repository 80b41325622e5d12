package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Submission is an immutable response row tied to a form's slug. The
// response payload is the ordered list of answers as submitted; it is
// never rewritten after insert.
type Submission struct {
	ID        int64          `db:"id" json:"id"`
	FormSlug  string         `db:"form_hash" json:"form_hash"`
	Email     string         `db:"email" json:"email"`
	Response  types.JSONText `db:"response" json:"response"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
