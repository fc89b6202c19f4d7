// Package db opens the PostgreSQL database, applies the schema and runs
// background maintenance over it.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Users and expenses are written by the admin dashboard; this service reads
// them and owns password_history and receipts. Rows owned by a user go away
// with the user.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    login TEXT PRIMARY KEY,
    password_hash BYTEA
);

CREATE TABLE IF NOT EXISTS password_history (
    id TEXT PRIMARY KEY,
    user_login TEXT NOT NULL REFERENCES users(login) ON DELETE CASCADE,
    password_hash BYTEA NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_password_history_user_created
    ON password_history (user_login, created_at DESC);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    user_login TEXT NOT NULL REFERENCES users(login) ON DELETE CASCADE,
    description TEXT,
    amount_cents BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS receipts (
    id TEXT PRIMARY KEY,
    expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
    filename TEXT NOT NULL,
    content_type TEXT NOT NULL,
    size BIGINT NOT NULL,
    data BYTEA NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// InitPostgres opens a connection pool for dsn, checks connectivity and
// creates missing tables.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
