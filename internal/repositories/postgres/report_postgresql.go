package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/cache"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"gorm.io/gorm"
)

type ReportPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewReportPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ReportRepository {
	return &ReportPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (r *ReportPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a report and drops the aggregates derived from reports
func (r *ReportPostgreSQL) Create(ctx context.Context, tx *gorm.DB, report *models.Report) error {
	if err := r.getDB(tx).WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if tx == nil {
		r.InvalidateCache(ctx, report.ID, report.ReportID)
	}

	return nil
}

// GetByID retrieves a report by ID. Reads inside a transaction bypass the cache.
func (r *ReportPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Report, error) {
	if tx != nil {
		return r.findOne(ctx, tx, "id = ?", id)
	}

	var report models.Report
	err := r.cacheManager.Report.CacheOrExecute(ctx, "id:"+id, &report, cache.ReportCacheConfig.TTL, func() (interface{}, error) {
		return r.findOne(ctx, r.db, "id = ?", id)
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// GetByReportID retrieves a report by its human-facing identifier
func (r *ReportPostgreSQL) GetByReportID(ctx context.Context, tx *gorm.DB, reportID string) (*models.Report, error) {
	if tx != nil {
		return r.findOne(ctx, tx, "report_id = ?", reportID)
	}

	var report models.Report
	err := r.cacheManager.Report.CacheOrExecute(ctx, "rid:"+reportID, &report, cache.ReportCacheConfig.TTL, func() (interface{}, error) {
		return r.findOne(ctx, r.db, "report_id = ?", reportID)
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *ReportPostgreSQL) findOne(ctx context.Context, db *gorm.DB, query string, arg interface{}) (*models.Report, error) {
	var report models.Report
	if err := db.WithContext(ctx).Where(query, arg).First(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// List returns every report matching filters, newest first
func (r *ReportPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ReportFilters) ([]*models.Report, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.Report{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.SpecificType != nil {
		query = query.Where("specific_type = ?", *filters.SpecificType)
	}

	var reports []*models.Report
	if err := query.Order("created_at DESC").Order("report_id DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, nil
}

func (r *ReportPostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.getDB(tx).WithContext(ctx).Model(&models.Report{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// CompareAndSetStatus guards the update with the observed status so concurrent writers cannot both win
func (r *ReportPostgreSQL) CompareAndSetStatus(ctx context.Context, tx *gorm.DB, id string, current, next models.ReportStatus) (bool, error) {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND status = ?", id, current).
		Updates(map[string]interface{}{
			"status":     next,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update report status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	if tx == nil {
		var reportID string
		if err := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Select("report_id").Scan(&reportID).Error; err != nil {
			return false, fmt.Errorf("failed to read report id: %w", err)
		}
		r.InvalidateCache(ctx, id, reportID)
	}

	return true, nil
}

// Delete removes a report permanently
func (r *ReportPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	var report models.Report
	db := r.getDB(tx).WithContext(ctx)
	if err := db.Select("id", "report_id").Where("id = ?", id).First(&report).Error; err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	result := db.Where("id = ?", id).Delete(&models.Report{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete report: %w", gorm.ErrRecordNotFound)
	}

	if tx == nil {
		r.InvalidateCache(ctx, report.ID, report.ReportID)
	}

	return nil
}

func (r *ReportPostgreSQL) InvalidateCache(ctx context.Context, id, reportID string) {
	cache.InvalidateReportCache(ctx, r.cacheManager, id, reportID)
}
