package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	if err := httpRequestsTotal.WithLabelValues(labels...).Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Post("/api/expenses/{expenseID}/receipt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	labels := []string{http.MethodPost, "/api/expenses/{expenseID}/receipt", "422"}
	before := counterValue(t, labels...)

	for _, id := range []string{"e1", "e2", "e3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/expenses/"+id+"/receipt", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := counterValue(t, labels...) - before; got != 3 {
		t.Errorf("counter delta = %v; want 3", got)
	}
}

func TestMetrics_Unmatched(t *testing.T) {
	h := Metrics()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	labels := []string{http.MethodGet, "unmatched", "404"}
	before := counterValue(t, labels...)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := counterValue(t, labels...) - before; got != 1 {
		t.Errorf("counter delta = %v; want 1", got)
	}
}
