package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"gorm.io/gorm"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

type groupCount struct {
	GroupKey string
	Count    int64
}

// countBy runs SELECT column, COUNT(*) ... GROUP BY column against model
func (r *dashboardRepository) countBy(ctx context.Context, tx *gorm.DB, model interface{}, column string) ([]groupCount, error) {
	var results []groupCount
	if err := r.getDB(tx).WithContext(ctx).
		Model(model).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ===== REPORT STATS =====

func (r *dashboardRepository) CountReportsByStatus(ctx context.Context, tx *gorm.DB) (map[models.ReportStatus]int64, error) {
	results, err := r.countBy(ctx, tx, &models.Report{}, "status")
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by status: %w", err)
	}

	counts := make(map[models.ReportStatus]int64, len(results))
	for _, row := range results {
		counts[models.ReportStatus(row.GroupKey)] = row.Count
	}
	return counts, nil
}

func (r *dashboardRepository) CountReportsByType(ctx context.Context, tx *gorm.DB) (map[models.ReportType]int64, error) {
	results, err := r.countBy(ctx, tx, &models.Report{}, "type")
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by type: %w", err)
	}

	counts := make(map[models.ReportType]int64, len(results))
	for _, row := range results {
		counts[models.ReportType(row.GroupKey)] = row.Count
	}
	return counts, nil
}

func (r *dashboardRepository) CountReportsBySpecificType(ctx context.Context, tx *gorm.DB) (map[models.SpecificType]int64, error) {
	results, err := r.countBy(ctx, tx, &models.Report{}, "specific_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by specific type: %w", err)
	}

	counts := make(map[models.SpecificType]int64, len(results))
	for _, row := range results {
		counts[models.SpecificType(row.GroupKey)] = row.Count
	}
	return counts, nil
}

// ===== USER STATS =====

func (r *dashboardRepository) CountUsersByRole(ctx context.Context, tx *gorm.DB) (map[models.UserRole]int64, error) {
	results, err := r.countBy(ctx, tx, &models.User{}, "role")
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}

	counts := make(map[models.UserRole]int64, len(results))
	for _, row := range results {
		counts[models.UserRole(row.GroupKey)] = row.Count
	}
	return counts, nil
}

// ===== TRENDS =====

func (r *dashboardRepository) ReportCreationTimes(ctx context.Context, tx *gorm.DB, since time.Time) ([]time.Time, error) {
	var times []time.Time
	if err := r.getDB(tx).WithContext(ctx).
		Model(&models.Report{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &times).Error; err != nil {
		return nil, fmt.Errorf("failed to get report creation times: %w", err)
	}
	return times, nil
}
