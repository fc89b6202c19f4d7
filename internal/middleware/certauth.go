// Package middleware provides HTTP middlewares for client identification,
// request logging and metrics.
package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const userKey ctxKey = "user"

// publicPaths are served without a client certificate.
var publicPaths = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// CertAuth identifies the caller by the TLS client certificate issued by the
// dashboard's account service.
//
// The Common Name (CN) of the first peer certificate is stored in the request
// context as the user ID. Requests without a certificate are rejected with 401,
// except for the health and metrics endpoints.
func CertAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
			http.Error(w, "no client certificate provided", http.StatusUnauthorized)
			return
		}
		cn := r.TLS.PeerCertificates[0].Subject.CommonName
		if cn == "" {
			http.Error(w, "client certificate has no common name", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), cn)))
	})
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// GetUserIDFromContext extracts the user ID (Common Name from client certificate)
// from the request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
