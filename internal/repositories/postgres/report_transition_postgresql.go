package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"gorm.io/gorm"
)

type reportTransitionRepository struct {
	db *gorm.DB
}

func NewReportTransitionRepository(db *gorm.DB) repositories.ReportTransitionRepository {
	return &reportTransitionRepository{db: db}
}

func (r *reportTransitionRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *reportTransitionRepository) Create(ctx context.Context, tx *gorm.DB, transition *models.ReportStatusTransition) error {
	if err := r.getDB(tx).WithContext(ctx).Create(transition).Error; err != nil {
		return fmt.Errorf("failed to record status transition: %w", err)
	}
	return nil
}

// ListByReport returns the audit log of a report, oldest first
func (r *reportTransitionRepository) ListByReport(ctx context.Context, tx *gorm.DB, reportID string) ([]*models.ReportStatusTransition, error) {
	var transitions []*models.ReportStatusTransition
	if err := r.getDB(tx).WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&transitions).Error; err != nil {
		return nil, fmt.Errorf("failed to list status transitions: %w", err)
	}
	return transitions, nil
}

func (r *reportTransitionRepository) DeleteByReport(ctx context.Context, tx *gorm.DB, reportID string) error {
	if err := r.getDB(tx).WithContext(ctx).
		Where("report_id = ?", reportID).
		Delete(&models.ReportStatusTransition{}).Error; err != nil {
		return fmt.Errorf("failed to delete status transitions: %w", err)
	}
	return nil
}
