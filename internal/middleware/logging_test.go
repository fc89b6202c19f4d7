package middleware

import (
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"net/http"
	"net/http/httptest"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestLogging(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"ok", http.StatusCreated, zapcore.InfoLevel},
		{"client error", http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			})
			h := chiMiddleware.RequestID(WithRequestLogging(zap.New(core))(next))

			req := httptest.NewRequest(http.MethodPost, "/api/expenses/e1/receipt", nil)
			req.TLS = &tls.ConnectionState{PeerCertificates: []*x509.Certificate{{Subject: pkix.Name{CommonName: "alice"}}}}
			h.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			e := entries[0]
			if e.Level != tt.level {
				t.Errorf("level = %v; want %v", e.Level, tt.level)
			}
			fields := e.ContextMap()
			if fields["status"] != int64(tt.status) {
				t.Errorf("status = %v; want %d", fields["status"], tt.status)
			}
			if fields["path"] != "/api/expenses/e1/receipt" {
				t.Errorf("path = %v", fields["path"])
			}
			if fields["bytes"] != int64(4) {
				t.Errorf("bytes = %v; want 4", fields["bytes"])
			}
			if fields["user"] != "alice" {
				t.Errorf("user = %v; want alice", fields["user"])
			}
			if fields["request_id"] == nil {
				t.Error("expected request_id field")
			}
		})
	}
}

func TestWithRequestLogging_ImplicitOK(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := WithRequestLogging(zap.New(core))(next)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Errorf("status = %v; want 200", got)
	}
	if _, ok := entries[0].ContextMap()["user"]; ok {
		t.Error("user field must be absent without a client certificate")
	}
}
