package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/services"
)

func (ts *testServer) notification(t *testing.T, title string) *models.Notification {
	t.Helper()
	n, err := ts.services.Notification().Create(context.Background(), &services.CreateNotificationRequest{
		Type:    models.NotificationInfo,
		Title:   title,
		Message: "REP001: " + title,
	})
	require.NoError(t, err)
	return n
}

func TestNotificationHandler(t *testing.T) {
	ts := newTestServer(t, true)
	first := ts.notification(t, "New report")
	ts.notification(t, "Another report")

	requireStatus(t, ts.do(t, http.MethodGet, "/api/v1/notifications", ts.userToken, nil), http.StatusForbidden)

	w := ts.do(t, http.MethodGet, "/api/v1/notifications", ts.moderatorToken, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]models.Notification](t, w), 2)

	t.Run("mark read", func(t *testing.T) {
		w := ts.do(t, http.MethodPatch, "/api/v1/notifications/"+first.ID, ts.moderatorToken, map[string]bool{"read": true})
		requireStatus(t, w, http.StatusOK)
		assert.True(t, decode[models.Notification](t, w).Read)

		w = ts.do(t, http.MethodPatch, "/api/v1/notifications/"+first.ID, ts.moderatorToken, map[string]bool{"read": false})
		requireStatus(t, w, http.StatusOK)
		assert.False(t, decode[models.Notification](t, w).Read)
	})

	t.Run("read flag is required", func(t *testing.T) {
		w := ts.do(t, http.MethodPatch, "/api/v1/notifications/"+first.ID, ts.moderatorToken, map[string]string{})
		requireStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown notification", func(t *testing.T) {
		requireStatus(t, ts.do(t, http.MethodPatch, "/api/v1/notifications/missing", ts.moderatorToken, map[string]bool{"read": true}), http.StatusNotFound)
		requireStatus(t, ts.do(t, http.MethodDelete, "/api/v1/notifications/missing", ts.moderatorToken, nil), http.StatusNotFound)
	})

	requireStatus(t, ts.do(t, http.MethodDelete, "/api/v1/notifications/"+first.ID, ts.moderatorToken, nil), http.StatusOK)

	w = ts.do(t, http.MethodDelete, "/api/v1/notifications", ts.moderatorToken, nil)
	requireStatus(t, w, http.StatusOK)
	data, ok := decode[SuccessResponse](t, w).Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, data["deleted"])

	w = ts.do(t, http.MethodGet, "/api/v1/notifications", ts.moderatorToken, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Empty(t, decode[[]models.Notification](t, w))
}
