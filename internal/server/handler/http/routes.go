// Package http provides HTTP routing and handlers for receipt uploads and
// password changes.
package http

import (
	"net/http"

	"github.com/atinyakov/receiptguard/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the receiptguard API.
//
// Routes:
//
//	GET  /healthz                            → Healthz
//	GET  /metrics                            → Prometheus exposition
//	POST /api/expenses/{expenseID}/receipt   → receiptHandler.Upload   (multipart/form-data)
//	GET  /api/expenses/{expenseID}/receipts  → receiptHandler.List
//	POST /api/password                       → passwordHandler.Change  (application/json)
//	GET  /api/password/history               → passwordHandler.History
//
// Middleware chain (applied in order):
//  1. RequestID, Recoverer
//  2. WithRequestLogging(logger)
//  3. Metrics
//  4. CertAuth (skipped for /healthz and /metrics)
func NewRouter(
	receiptHandler *ReceiptHandler,
	passwordHandler *PasswordHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CertAuth)

	r.Get("/healthz", Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/expenses/{expenseID}", func(r chi.Router) {
			r.With(chiMiddleware.AllowContentType("multipart/form-data")).
				Post("/receipt", receiptHandler.Upload)
			r.Get("/receipts", receiptHandler.List)
		})

		r.With(chiMiddleware.AllowContentType("application/json")).
			Post("/password", passwordHandler.Change)
		r.Get("/password/history", passwordHandler.History)
	})

	return r
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
