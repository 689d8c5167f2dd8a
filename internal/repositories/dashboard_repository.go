package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"gorm.io/gorm"
)

// DashboardRepository interface for dashboard analytics operations
type DashboardRepository interface {
	CountReportsByStatus(ctx context.Context, tx *gorm.DB) (map[models.ReportStatus]int64, error)
	CountReportsByType(ctx context.Context, tx *gorm.DB) (map[models.ReportType]int64, error)
	CountReportsBySpecificType(ctx context.Context, tx *gorm.DB) (map[models.SpecificType]int64, error)
	CountUsersByRole(ctx context.Context, tx *gorm.DB) (map[models.UserRole]int64, error)

	// ReportCreationTimes returns created_at of every report created at or after since.
	ReportCreationTimes(ctx context.Context, tx *gorm.DB, since time.Time) ([]time.Time, error)
}
