package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
)

func TestHealth(t *testing.T) {
	ts := newTestServer(t, true)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"status":"healthy","service":"crime-report-service"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, true)
	requireStatus(t, ts.do(t, http.MethodGet, "/health", "", nil), http.StatusOK)

	w := ts.do(t, http.MethodGet, "/metrics", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestDashboardHandler_Stats(t *testing.T) {
	ts := newTestServer(t, true)
	requireStatus(t, ts.do(t, http.MethodPost, "/api/v1/reports", "", reportBody()), http.StatusCreated)

	requireStatus(t, ts.do(t, http.MethodGet, "/api/v1/dashboard/stats", ts.userToken, nil), http.StatusForbidden)

	w := ts.do(t, http.MethodGet, "/api/v1/dashboard/stats", ts.moderatorToken, nil)
	requireStatus(t, w, http.StatusOK)
	stats := decode[models.DashboardStats](t, w)
	assert.EqualValues(t, 1, stats.TotalReports)
	assert.EqualValues(t, 1, stats.ByStatus.Pending)
	assert.Len(t, stats.Monthly, 12)
	assert.EqualValues(t, 3, stats.TotalUsers)
}

func TestMiddleware(t *testing.T) {
	ts := newTestServer(t, true)

	t.Run("request id is generated", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/health", "", nil)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	})

	t.Run("request id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "req-123")
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/reports/abc/status", nil)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	})
}
