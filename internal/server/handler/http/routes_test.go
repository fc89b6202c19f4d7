package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atinyakov/receiptguard/internal/models"
	"github.com/atinyakov/receiptguard/internal/service"
	"go.uber.org/zap"
)

func newTestRouter(repo *fakeReceiptRepo, pw *mockPasswordService) http.Handler {
	return NewRouter(
		&ReceiptHandler{ReceiptService: service.NewReceiptService(repo)},
		&PasswordHandler{PasswordService: pw},
		zap.NewNop(),
	)
}

func withClientCert(req *http.Request, cn string) *http.Request {
	req.TLS = &tls.ConnectionState{
		PeerCertificates: []*x509.Certificate{{Subject: pkix.Name{CommonName: cn}}},
	}
	return req
}

func TestRouter(t *testing.T) {
	pw := &mockPasswordService{
		ChangeFunc: func(ctx context.Context, userID, password string) (int64, error) {
			return 0, nil
		},
		HistoryFunc: func(ctx context.Context, userID string) ([]models.PasswordHistoryEntry, error) {
			return nil, nil
		},
	}

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		ctype    string
		cn       string
		wantCode int
	}{
		{name: "healthz is public", method: http.MethodGet, path: "/healthz", wantCode: http.StatusOK},
		{name: "metrics is public", method: http.MethodGet, path: "/metrics", wantCode: http.StatusOK},
		{name: "api needs certificate", method: http.MethodGet, path: "/api/password/history", wantCode: http.StatusUnauthorized},
		{name: "history with certificate", method: http.MethodGet, path: "/api/password/history", cn: "alice", wantCode: http.StatusOK},
		{
			name: "password change", method: http.MethodPost, path: "/api/password",
			body: `{"password":"correct horse"}`, ctype: "application/json", cn: "alice", wantCode: http.StatusOK,
		},
		{
			name: "password change wrong content type", method: http.MethodPost, path: "/api/password",
			body: "password=x", ctype: "text/plain", cn: "alice", wantCode: http.StatusUnsupportedMediaType,
		},
		{
			name: "receipt upload wrong content type", method: http.MethodPost, path: "/api/expenses/e1/receipt",
			body: "raw", ctype: "image/jpeg", cn: "alice", wantCode: http.StatusUnsupportedMediaType,
		},
		{name: "receipts list", method: http.MethodGet, path: "/api/expenses/e1/receipts", cn: "alice", wantCode: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/nope", cn: "alice", wantCode: http.StatusNotFound},
	}

	router := newTestRouter(&fakeReceiptRepo{owned: true}, pw)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.ctype != "" {
				req.Header.Set("Content-Type", tt.ctype)
			}
			if tt.cn != "" {
				req = withClientCert(req, tt.cn)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d; want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestRouter_UploadEndToEnd(t *testing.T) {
	repo := &fakeReceiptRepo{owned: true}
	router := newTestRouter(repo, &mockPasswordService{})

	pdf := append([]byte("%PDF-1.7\n"), make([]byte, 64)...)
	body, ct := multipartBody(t, "receipt", "invoice.pdf", "Application/PDF; charset=binary", pdf)
	req := httptest.NewRequest(http.MethodPost, "/api/expenses/e42/receipt", body)
	req.Header.Set("Content-Type", ct)
	req = withClientCert(req, "bob")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201 (body %s)", rec.Code, rec.Body.String())
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d receipts; want 1", len(repo.saved))
	}
	got := repo.saved[0]
	if got.UserID != "bob" || got.ExpenseID != "e42" || got.ContentType != "application/pdf" {
		t.Errorf("saved receipt = %+v", got)
	}
}
