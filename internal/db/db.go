package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens a Postgres connection pool and verifies it with a ping.
func Connect(dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)
	return conn, nil
}

// EnsureSchema creates the tables and indexes if they do not exist.
// Called from the background init goroutine at startup so a cold start
// never blocks the HTTP listener.
func EnsureSchema(conn *sqlx.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			full_name     TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS forms (
			form_hash           TEXT PRIMARY KEY,
			form_name           TEXT NOT NULL DEFAULT '',
			creator_email       TEXT NOT NULL,
			form_data           JSONB NOT NULL,
			background_settings JSONB,
			form_close_time     TIMESTAMPTZ,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_forms_creator_email ON forms(creator_email);

		CREATE TABLE IF NOT EXISTS forms_access_relation (
			form_hash    TEXT NOT NULL REFERENCES forms(form_hash),
			shared_email TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (form_hash, shared_email)
		);

		CREATE INDEX IF NOT EXISTS idx_access_shared_email ON forms_access_relation(shared_email);

		CREATE TABLE IF NOT EXISTS form_responses (
			id         BIGSERIAL PRIMARY KEY,
			form_hash  TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			response   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_responses_form_hash ON form_responses(form_hash);
	`)
	if err != nil {
		return fmt.Errorf("db: ensure schema: %w", err)
	}
	return nil
}
