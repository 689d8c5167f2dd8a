package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
)

// Models lists every table owned by the service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Report{},
		&models.ReportCounter{},
		&models.ReportStatusTransition{},
		&models.Notification{},
	}
}

// AutoMigrate creates or updates the schema
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
