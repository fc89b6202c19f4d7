package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/receiptguard/internal/middleware"
	"github.com/atinyakov/receiptguard/internal/models"
	"github.com/atinyakov/receiptguard/internal/service"
	"go.uber.org/zap"
)

// PasswordService defines the password operations required by the PasswordHandler.
type PasswordService interface {
	// ChangePassword sets a new password and returns the number of purged history entries.
	ChangePassword(ctx context.Context, userID, password string) (int64, error)
	// History returns the user's remembered passwords, newest first.
	History(ctx context.Context, userID string) ([]models.PasswordHistoryEntry, error)
}

// PasswordHandler handles HTTP requests for password changes.
type PasswordHandler struct {
	PasswordService PasswordService
	// Logger records internal failures; nil disables logging.
	Logger *zap.Logger
}

func (h *PasswordHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// ChangePasswordRequest represents the JSON payload for a password change.
type ChangePasswordRequest struct {
	// Password is the new plaintext password; it is hashed before storage.
	Password string `json:"password"`
}

// Change handles POST /api/password.
func (h *PasswordHandler) Change(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unknown user")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request")
		return
	}

	purged, err := h.PasswordService.ChangePassword(ctx, userID, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
		return
	case errors.Is(err, service.ErrPasswordReused):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
		return
	default:
		h.logger().Error("failed to change password", zap.String("user", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"purged": purged,
	})
}

// History handles GET /api/password/history. Only entry IDs and dates are
// returned; hashes never leave the server.
func (h *PasswordHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unknown user")
		return
	}

	entries, err := h.PasswordService.History(ctx, userID)
	if err != nil {
		h.logger().Error("failed to list password history", zap.String("user", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	if entries == nil {
		entries = []models.PasswordHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
