package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"machflow/pkg/metrics"
)

func TestMetricsMiddlewareLabelsByPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/history", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := MetricsMiddleware(mux)

	before := testutil.ToFloat64(metrics.HttpRequestsTotal.WithLabelValues(
		http.MethodGet, "GET /api/users/history", "OK",
	))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/history?id=7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	after := testutil.ToFloat64(metrics.HttpRequestsTotal.WithLabelValues(
		http.MethodGet, "GET /api/users/history", "OK",
	))
	assert.Equal(t, before+1, after, "etiket eşleşen kalıp olmalı, ham yol değil")
}

func TestMetricsMiddlewareFallsBackToPath(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bulunamadı", http.StatusNotFound)
	}))

	before := testutil.ToFloat64(metrics.HttpRequestsTotal.WithLabelValues(
		http.MethodGet, "/bilinmeyen", "Not Found",
	))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bilinmeyen", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	after := testutil.ToFloat64(metrics.HttpRequestsTotal.WithLabelValues(
		http.MethodGet, "/bilinmeyen", "Not Found",
	))
	assert.Equal(t, before+1, after)
}
