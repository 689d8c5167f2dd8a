package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/crime-report-service/internal/events"
	"github.com/SAP-F-2025/crime-report-service/internal/metrics"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type reportService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	policy    validator.TransitionPolicy
	ids       ReportIDGenerator
}

type ReportServiceOption func(*reportService)

func WithReportIDGenerator(ids ReportIDGenerator) ReportServiceOption {
	return func(s *reportService) {
		s.ids = ids
	}
}

func WithTransitionPolicy(policy validator.TransitionPolicy) ReportServiceOption {
	return func(s *reportService) {
		s.policy = policy
	}
}

func NewReportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, opts ...ReportServiceOption) ReportService {
	s := &reportService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
		policy:    validator.TransitionPolicyStrict,
		ids:       NewCounterReportIDGenerator(repo),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===== CORE OPERATIONS =====

func (s *reportService) Create(ctx context.Context, req *CreateReportRequest, actor *Actor) (*models.Report, error) {
	s.logger.Info("Creating report", "type", req.Type, "specific_type", req.SpecificType, "anonymous", actor == nil)

	normalizeCreateRequest(req)

	if errors := s.validator.GetBusinessValidator().ValidateReportCreate(req); len(errors) > 0 {
		return nil, errors
	}

	var report *models.Report
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		reportID, err := s.ids.Next(ctx, tx)
		if err != nil {
			return err
		}

		report = &models.Report{
			ReportID:     reportID,
			Title:        req.Title,
			Description:  req.Description,
			Location:     req.Location,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			Image:        req.Image,
			Type:         req.Type,
			SpecificType: req.SpecificType,
			Status:       models.ReportStatusPending,
		}
		if err := s.repo.Report().Create(ctx, tx, report); err != nil {
			return err
		}

		return s.recordTransition(ctx, tx, report.ID, nil, models.ReportStatusPending, actor, nil)
	})
	if err != nil {
		return nil, err
	}

	s.repo.Report().InvalidateCache(ctx, report.ID, report.ReportID)

	s.logger.Info("Report created successfully", "id", report.ID, "report_id", report.ReportID)
	metrics.ReportsCreatedTotal.WithLabelValues(string(report.Type)).Inc()

	event, err := events.NewReportCreatedEvent(report)
	s.publish(ctx, event, err)

	return report, nil
}

func (s *reportService) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.repo.Report().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// Track is the public lookup by human-facing report ID
func (s *reportService) Track(ctx context.Context, reportID string) (*models.ReportTracking, error) {
	reportID = strings.ToUpper(strings.TrimSpace(reportID))
	if reportID == "" {
		return nil, ErrReportNotFound
	}

	report, err := s.repo.Report().GetByReportID(ctx, nil, reportID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to track report: %w", err)
	}

	return models.NewReportTracking(report), nil
}

func (s *reportService) List(ctx context.Context, req *ListReportsRequest) ([]*models.Report, error) {
	if req == nil {
		req = &ListReportsRequest{}
	}
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	reports, err := s.repo.Report().List(ctx, nil, filtersFromRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus moves a report through the state machine. The write only lands
// if the status is still the one read in the same transaction.
func (s *reportService) UpdateStatus(ctx context.Context, id string, req *UpdateReportStatusRequest, actor *Actor) (*models.Report, error) {
	if err := requireStaff(actor, "report", "update_status"); err != nil {
		return nil, err
	}
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	s.logger.Info("Updating report status", "id", id, "status", req.Status, "actor_id", actor.ID)

	var (
		report *models.Report
		from   models.ReportStatus
	)
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		current, err := s.repo.Report().GetByID(ctx, tx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrReportNotFound
			}
			return fmt.Errorf("failed to get report: %w", err)
		}
		from = current.Status

		if errors := s.validator.GetBusinessValidator().ValidateStatusTransition(from, req.Status, s.policy); len(errors) > 0 {
			return errors
		}

		swapped, err := s.repo.Report().CompareAndSetStatus(ctx, tx, id, from, req.Status)
		if err != nil {
			return err
		}
		if !swapped {
			return ErrReportStatusConflict
		}

		if err := s.recordTransition(ctx, tx, id, &from, req.Status, actor, req.Reason); err != nil {
			return err
		}

		report, err = s.repo.Report().GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.repo.Report().InvalidateCache(ctx, report.ID, report.ReportID)

	s.logger.Info("Report status updated", "id", id, "from", from, "to", req.Status)
	metrics.StatusTransitionsTotal.WithLabelValues(string(from), string(req.Status)).Inc()

	data := events.ReportStatusChangedData{
		ID:         report.ID,
		ReportID:   report.ReportID,
		Title:      report.Title,
		FromStatus: from,
		ToStatus:   report.Status,
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
	}
	if req.Reason != nil {
		data.Reason = *req.Reason
	}
	event, err := events.NewEvent(events.ReportStatusChanged, data)
	s.publish(ctx, event, err)

	return report, nil
}

// Delete removes a report and its audit log permanently
func (s *reportService) Delete(ctx context.Context, id string, actor *Actor) error {
	if err := requireStaff(actor, "report", "delete"); err != nil {
		return err
	}

	s.logger.Info("Deleting report", "id", id, "actor_id", actor.ID)

	var reportID string
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		report, err := s.repo.Report().GetByID(ctx, tx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrReportNotFound
			}
			return fmt.Errorf("failed to get report: %w", err)
		}
		reportID = report.ReportID

		if err := s.repo.ReportTransition().DeleteByReport(ctx, tx, id); err != nil {
			return err
		}

		if err := s.repo.Report().Delete(ctx, tx, id); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrReportNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.repo.Report().InvalidateCache(ctx, id, reportID)

	s.logger.Info("Report deleted", "id", id)
	return nil
}

func (s *reportService) History(ctx context.Context, id string) ([]*models.ReportStatusTransition, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	history, err := s.repo.ReportTransition().ListByReport(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report history: %w", err)
	}
	return history, nil
}

// ===== HELPERS =====

func (s *reportService) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *reportService) recordTransition(ctx context.Context, tx *gorm.DB, reportID string, from *models.ReportStatus, to models.ReportStatus, actor *Actor, reason *string) error {
	transition := &models.ReportStatusTransition{
		ReportID:   reportID,
		FromStatus: from,
		ToStatus:   to,
	}
	if actor != nil {
		transition.ActorID = &actor.ID
		transition.ActorEmail = &actor.Email
	}
	if reason != nil && strings.TrimSpace(*reason) != "" {
		metadata, err := json.Marshal(map[string]string{"reason": strings.TrimSpace(*reason)})
		if err != nil {
			return fmt.Errorf("failed to encode transition metadata: %w", err)
		}
		transition.Metadata = datatypes.JSON(metadata)
	}

	return s.repo.ReportTransition().Create(ctx, tx, transition)
}

// publish sends an event after commit; failures never fail the request
func (s *reportService) publish(ctx context.Context, event *events.Event, buildErr error) {
	if buildErr != nil {
		s.logger.Error("Failed to build event", "error", buildErr)
		return
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.EventPublishErrorsTotal.WithLabelValues(string(event.Type)).Inc()
		s.logger.Error("Failed to publish event", "type", event.Type, "event_id", event.ID, "error", err)
	}
}

func normalizeCreateRequest(req *CreateReportRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = trimOptional(req.Location)
	req.Image = trimOptional(req.Image)
	// status is always server-assigned
	req.Status = nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func filtersFromRequest(req *ListReportsRequest) repositories.ReportFilters {
	var filters repositories.ReportFilters
	if req.Status != "" {
		status := models.ReportStatus(req.Status)
		filters.Status = &status
	}
	if req.Type != "" {
		reportType := models.ReportType(req.Type)
		filters.Type = &reportType
	}
	if req.SpecificType != "" {
		specificType := models.SpecificType(req.SpecificType)
		filters.SpecificType = &specificType
	}
	return filters
}

func requireStaff(actor *Actor, resource, action string) error {
	if actor == nil {
		return NewPermissionError("", resource, action, "authentication required")
	}
	if actor.Role != models.RoleAdmin && actor.Role != models.RoleModerator {
		return NewPermissionError(actor.ID, resource, action, "requires ADMIN or MODERATOR role")
	}
	return nil
}
