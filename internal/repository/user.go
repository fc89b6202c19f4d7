// Package repository provides PostgreSQL persistence for users, password
// history and expense receipts.
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresUserRepository implements user lookups and password updates using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// UserExists checks whether a user with the specified login exists in the database.
// It returns true if the user exists, false otherwise.
// If an error occurs during the query, it is returned.
func (r *PostgresUserRepository) UserExists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`,
		login,
	).Scan(&exists)
	return exists, err
}

// SetPasswordHash replaces the current password hash of the user.
// Updating an unknown login is not an error; callers check existence first.
func (r *PostgresUserRepository) SetPasswordHash(ctx context.Context, login string, hash []byte) error {
	_, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET password_hash = $2 WHERE login = $1`,
		login, hash,
	)
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	return nil
}
