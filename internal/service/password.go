package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/atinyakov/receiptguard/internal/models"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 8

// UserRepository defines the user operations needed by the password service.
type UserRepository interface {
	// UserExists returns true if a user with the given login exists.
	UserExists(ctx context.Context, login string) (bool, error)
	// SetPasswordHash stores the user's current password hash.
	SetPasswordHash(ctx context.Context, login string, hash []byte) error
}

// PasswordHasher hashes passwords and builds matchers against stored hashes.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Matcher(password string) func(hash []byte) bool
}

// PasswordService changes passwords while enforcing history-based reuse
// prevention.
type PasswordService struct {
	users   UserRepository
	history *HistoryService
	hasher  PasswordHasher
	keep    int
}

// NewPasswordService constructs a PasswordService that remembers the last
// keep passwords of every user.
func NewPasswordService(users UserRepository, history *HistoryService, hasher PasswordHasher, keep int) *PasswordService {
	return &PasswordService{users: users, history: history, hasher: hasher, keep: keep}
}

// ChangePassword sets a new password for the user. The password must not
// match any remembered one. The new hash is recorded in the history before it
// is stored on the user row, so a password in use is always remembered; a
// failure after recording leaves only an extra history entry. The history is
// purged last, so the new hash is always among the retained entries. Returns
// the number of purged history entries.
func (s *PasswordService) ChangePassword(ctx context.Context, userID, password string) (int64, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return 0, ErrPasswordTooShort
	}

	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return 0, ErrUserNotFound
	}

	reused, err := s.history.IsReused(ctx, userID, s.hasher.Matcher(password))
	if err != nil {
		return 0, fmt.Errorf("check history: %w", err)
	}
	if reused {
		passwordReuseRejections.Inc()
		return 0, ErrPasswordReused
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}
	if _, err := s.history.RecordNewPassword(ctx, userID, hash); err != nil {
		return 0, fmt.Errorf("record history: %w", err)
	}
	if err := s.users.SetPasswordHash(ctx, userID, hash); err != nil {
		return 0, fmt.Errorf("store password: %w", err)
	}
	purged, err := s.history.Purge(ctx, userID, s.keep)
	if err != nil {
		return 0, fmt.Errorf("purge history: %w", err)
	}
	return purged, nil
}

// History returns the user's remembered passwords, newest first.
func (s *PasswordService) History(ctx context.Context, userID string) ([]models.PasswordHistoryEntry, error) {
	return s.history.History(ctx, userID)
}
