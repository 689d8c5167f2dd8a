package repositories

import (
	"context"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"gorm.io/gorm"
)

// ReportFilters defines filters for report listing; nil fields match all
type ReportFilters struct {
	Status       *models.ReportStatus
	Type         *models.ReportType
	SpecificType *models.SpecificType
}

// ReportRepository interface for report persistence
type ReportRepository interface {
	Create(ctx context.Context, tx *gorm.DB, report *models.Report) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Report, error)
	GetByReportID(ctx context.Context, tx *gorm.DB, reportID string) (*models.Report, error)
	List(ctx context.Context, tx *gorm.DB, filters ReportFilters) ([]*models.Report, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	// CompareAndSetStatus sets status to next only while it still equals current.
	// It returns false when no row matched.
	CompareAndSetStatus(ctx context.Context, tx *gorm.DB, id string, current, next models.ReportStatus) (bool, error)

	// Delete removes the report; a missing id yields gorm.ErrRecordNotFound.
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// InvalidateCache drops the cached views of a report. Writes made through a
	// transaction leave the cache alone; call this once the transaction commits.
	InvalidateCache(ctx context.Context, id, reportID string)
}

// ReportCounterRepository hands out sequence values for human-facing report IDs
type ReportCounterRepository interface {
	// Next increments the named counter and returns the new value.
	// The counter row stays locked until tx commits.
	Next(ctx context.Context, tx *gorm.DB, name string) (int64, error)
	Ensure(ctx context.Context, tx *gorm.DB, name string) error
}

// ReportTransitionRepository persists the append-only status audit log
type ReportTransitionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, transition *models.ReportStatusTransition) error
	ListByReport(ctx context.Context, tx *gorm.DB, reportID string) ([]*models.ReportStatusTransition, error)
	DeleteByReport(ctx context.Context, tx *gorm.DB, reportID string) error
}
