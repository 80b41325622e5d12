package models

import "time"

// AccessGrant extends form-edit capability to a non-owner user by email.
// Grants are append-only; there is no revoke path.
type AccessGrant struct {
	FormSlug    string    `db:"form_hash" json:"form_hash"`
	SharedEmail string    `db:"shared_email" json:"shared_email"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
