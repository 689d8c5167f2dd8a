package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reportCounterRepository struct {
	db *gorm.DB
}

func NewReportCounterRepository(db *gorm.DB) repositories.ReportCounterRepository {
	return &reportCounterRepository{db: db}
}

func (r *reportCounterRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Ensure creates the counter row if it does not exist yet
func (r *reportCounterRepository) Ensure(ctx context.Context, tx *gorm.DB, name string) error {
	counter := models.ReportCounter{Name: name, Value: 0}
	if err := r.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&counter).Error; err != nil {
		return fmt.Errorf("failed to ensure counter %s: %w", name, err)
	}
	return nil
}

// Next performs an in-place increment. The UPDATE takes the row lock, so a
// concurrent caller blocks until this transaction commits and then sees the
// incremented value.
func (r *reportCounterRepository) Next(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	db := r.getDB(tx).WithContext(ctx)

	increment := func() (int64, error) {
		result := db.Model(&models.ReportCounter{}).
			Where("name = ?", name).
			UpdateColumn("value", gorm.Expr("value + ?", 1))
		return result.RowsAffected, result.Error
	}

	affected, err := increment()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	if affected == 0 {
		if err := r.Ensure(ctx, tx, name); err != nil {
			return 0, err
		}
		if affected, err = increment(); err != nil {
			return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
		}
		if affected == 0 {
			return 0, fmt.Errorf("counter %s is missing", name)
		}
	}

	var counter models.ReportCounter
	if err := db.Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}

	return counter.Value, nil
}
