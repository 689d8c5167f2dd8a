package repositories

import (
	"context"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository interface for persisted operational notifications
type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Notification, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Notification, error)
	SetRead(ctx context.Context, tx *gorm.DB, id string, read bool) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error)
}
