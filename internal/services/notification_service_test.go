package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/crime-report-service/internal/events"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
)

func (e *testEnv) notificationService() NotificationService {
	return NewNotificationService(e.repo, e.logger, e.validator)
}

func TestNotificationService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := env.notificationService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateNotificationRequest{Type: models.NotificationInfo, Title: " Maintenance ", Message: "Tonight at 22:00"})
	require.NoError(t, err)
	assert.Equal(t, "Maintenance", created.Title)
	assert.False(t, created.Read)

	_, err = svc.Create(ctx, &CreateNotificationRequest{Type: "ALERT", Title: "x", Message: "y"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.HasField("type"))

	_, err = svc.Create(ctx, &CreateNotificationRequest{Type: models.NotificationInfo, Title: "  ", Message: "y"})
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.HasField("title"))

	read, err := svc.MarkRead(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, read.Read)

	_, err = svc.MarkRead(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	_, err = svc.Create(ctx, &CreateNotificationRequest{Type: models.NotificationUpdate, Title: "Second", Message: "m"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotificationNotFound)

	cleared, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotificationService_HandleReportEvent(t *testing.T) {
	env := newTestEnv(t)
	notifications := env.notificationService()
	reports := env.reportService()
	ctx := context.Background()

	fire := validCreateRequest()
	fire.Type = models.ReportTypeEmergency
	fire.SpecificType = models.SpecificFireOutbreak
	report, err := reports.Create(ctx, fire, nil)
	require.NoError(t, err)

	_, err = reports.Create(ctx, validCreateRequest(), nil)
	require.NoError(t, err)

	_, err = reports.UpdateStatus(ctx, report.ID, &UpdateReportStatusRequest{Status: models.ReportStatusInProgress}, adminActor)
	require.NoError(t, err)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 3)
	for _, event := range published {
		require.NoError(t, notifications.HandleReportEvent(ctx, event))
	}

	ignored, err := events.NewEvent("user.created", map[string]string{"id": "u"})
	require.NoError(t, err)
	require.NoError(t, notifications.HandleReportEvent(ctx, ignored))

	list, err := notifications.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	byType := make(map[models.NotificationType]*models.Notification)
	for _, n := range list {
		byType[n.Type] = n
	}
	require.Contains(t, byType, models.NotificationEmergency)
	require.Contains(t, byType, models.NotificationInfo)
	require.Contains(t, byType, models.NotificationUpdate)

	assert.Contains(t, byType[models.NotificationEmergency].Message, "REP001")
	assert.Contains(t, byType[models.NotificationUpdate].Message, "PENDING to IN_PROGRESS")
	require.NotNil(t, byType[models.NotificationUpdate].ReportID)
	assert.Equal(t, report.ID, *byType[models.NotificationUpdate].ReportID)
}
