// Package models defines the core data structures for users, password history
// and expense receipts.
package models

import "time"

// User represents an account managed by the expense dashboard.
type User struct {
	// Login is the unique identifier of the user.
	Login string
	// PasswordHash is the current hashed password of the user.
	PasswordHash []byte
}

// PasswordHistoryEntry is one previously used password of a user.
// Entries are append-only; they are removed by retention purges or when the
// owning user is deleted.
type PasswordHistoryEntry struct {
	// ID is the unique identifier of the entry.
	ID string `json:"id"`
	// UserID is the login of the owning user.
	UserID string `json:"-"`
	// PasswordHash is the opaque hash; it never leaves the server.
	PasswordHash []byte `json:"-"`
	// CreatedAt is when the password was set.
	CreatedAt time.Time `json:"created_at"`
}

// Receipt is a validated file attached to an expense record.
type Receipt struct {
	// ID is the unique identifier of the receipt.
	ID string `json:"id"`
	// ExpenseID is the expense the receipt belongs to.
	ExpenseID string `json:"expense_id"`
	// UserID is the login of the expense owner.
	UserID string `json:"-"`
	// Filename is the client-supplied name; informational only.
	Filename string `json:"filename"`
	// ContentType is the canonical media type confirmed by content inspection.
	ContentType string `json:"content_type"`
	// Size is the payload length in bytes.
	Size int64 `json:"size"`
	// Data holds the file bytes.
	Data []byte `json:"-"`
	// CreatedAt is when the receipt was stored.
	CreatedAt time.Time `json:"created_at"`
}
