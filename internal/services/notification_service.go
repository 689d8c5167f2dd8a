package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/crime-report-service/internal/events"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
)

type notificationService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewNotificationService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) NotificationService {
	return &notificationService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *notificationService) List(ctx context.Context) ([]*models.Notification, error) {
	notifications, err := s.repo.Notification().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) Create(ctx context.Context, req *CreateNotificationRequest) (*models.Notification, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	notification := &models.Notification{
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		ReportID: req.ReportID,
	}
	if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
		return nil, err
	}

	s.logger.Info("Notification created", "id", notification.ID, "type", notification.Type)
	return notification, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string, read bool) (*models.Notification, error) {
	if err := s.repo.Notification().SetRead(ctx, nil, id, read); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	notification, err := s.repo.Notification().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Notification().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) Clear(ctx context.Context) (int64, error) {
	deleted, err := s.repo.Notification().DeleteAll(ctx, nil)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Notifications cleared", "count", deleted)
	return deleted, nil
}

// HandleReportEvent is subscribed to report events. Unknown event types are ignored.
func (s *notificationService) HandleReportEvent(ctx context.Context, event *events.Event) error {
	var req *CreateNotificationRequest

	switch event.Type {
	case events.ReportCreated:
		var data events.ReportCreatedData
		if err := event.DecodeData(&data); err != nil {
			return err
		}
		req = &CreateNotificationRequest{
			Type:     models.NotificationInfo,
			Title:    "New report submitted",
			Message:  fmt.Sprintf("%s: %s", data.ReportID, data.Title),
			ReportID: &data.ID,
		}
		if data.Type == models.ReportTypeEmergency {
			req.Type = models.NotificationEmergency
			req.Title = "Emergency report submitted"
			req.Message = fmt.Sprintf("%s: %s (%s)", data.ReportID, data.Title, data.SpecificType)
		}

	case events.ReportStatusChanged:
		var data events.ReportStatusChangedData
		if err := event.DecodeData(&data); err != nil {
			return err
		}
		req = &CreateNotificationRequest{
			Type:     models.NotificationUpdate,
			Title:    "Report status updated",
			Message:  fmt.Sprintf("%s: %s moved from %s to %s", data.ReportID, data.Title, data.FromStatus, data.ToStatus),
			ReportID: &data.ID,
		}

	default:
		s.logger.Debug("Ignoring event", "type", event.Type, "event_id", event.ID)
		return nil
	}

	_, err := s.Create(ctx, req)
	return err
}
