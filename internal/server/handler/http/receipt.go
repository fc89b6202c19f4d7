package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/atinyakov/receiptguard/internal/middleware"
	"github.com/atinyakov/receiptguard/internal/models"
	"github.com/atinyakov/receiptguard/internal/service"
	"github.com/atinyakov/receiptguard/internal/upload"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// receiptField is the multipart form field carrying the receipt file.
const receiptField = "receipt"

// DefaultMaxUploadBytes caps upload bodies when ReceiptHandler.MaxUploadBytes is unset.
const DefaultMaxUploadBytes = 10 << 20

// ReceiptService defines the receipt operations required by the ReceiptHandler.
type ReceiptService interface {
	// Attach validates payload against declaredType and stores it on the expense.
	Attach(ctx context.Context, userID, expenseID, filename, declaredType string, payload []byte) (*models.Receipt, error)
	// List returns the receipts of an expense owned by userID.
	List(ctx context.Context, userID, expenseID string) ([]models.Receipt, error)
}

// ReceiptHandler handles HTTP requests for expense receipts.
type ReceiptHandler struct {
	ReceiptService ReceiptService
	// MaxUploadBytes caps the request body; zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
	// Logger records rejected uploads; nil disables logging.
	Logger *zap.Logger
}

func (h *ReceiptHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *ReceiptHandler) maxBytes() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

// Upload handles POST /api/expenses/{expenseID}/receipt.
//
// The body is multipart/form-data with the file in the "receipt" field. The
// part's Content-Type header is the declared type the file is checked against.
// A rejected file gets 422 with the validator's reason as the message.
func (h *ReceiptHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unknown user")
		return
	}
	expenseID := chi.URLParam(r, "expenseID")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes())
	filename, declaredType, payload, err := readReceiptPart(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	rec, err := h.ReceiptService.Attach(ctx, userID, expenseID, filename, declaredType, payload)
	if err != nil {
		var rejected *upload.Error
		switch {
		case errors.As(err, &rejected):
			h.logger().Warn("receipt rejected",
				zap.String("user", userID),
				zap.String("expense_id", expenseID),
				zap.String("filename", filename),
				zap.String("declared_type", declaredType),
				zap.Stringer("kind", rejected.Kind),
			)
			writeError(w, http.StatusUnprocessableEntity, rejected.Kind.String(), rejected.Message)
		case errors.Is(err, service.ErrExpenseNotFound):
			writeError(w, http.StatusNotFound, codeNotFound, err.Error())
		default:
			h.logger().Error("failed to store receipt", zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// List handles GET /api/expenses/{expenseID}/receipts.
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unknown user")
		return
	}

	receipts, err := h.ReceiptService.List(ctx, userID, chi.URLParam(r, "expenseID"))
	if err != nil {
		h.logger().Error("failed to list receipts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	if receipts == nil {
		receipts = []models.Receipt{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"receipts": receipts})
}

var errNoReceipt = errors.New("missing \"receipt\" file field")

// readReceiptPart streams the multipart body until the receipt field and
// returns its filename, declared content type and bytes.
func readReceiptPart(r *http.Request) (string, string, []byte, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", "", nil, err
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", "", nil, errNoReceipt
		}
		if err != nil {
			return "", "", nil, err
		}
		if part.FormName() != receiptField {
			part.Close()
			continue
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return "", "", nil, err
		}
		return part.FileName(), part.Header.Get("Content-Type"), data, nil
	}
}
