package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) repositories.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *notificationRepository) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	if err := r.getDB(tx).WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.getDB(tx).WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

// List returns notifications newest first
func (r *notificationRepository) List(ctx context.Context, tx *gorm.DB) ([]*models.Notification, error) {
	var notifications []*models.Notification
	if err := r.getDB(tx).WithContext(ctx).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) SetRead(ctx context.Context, tx *gorm.DB, id string, read bool) error {
	result := r.getDB(tx).WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"read":       read,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update notification: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	result := r.getDB(tx).WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete notification: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	result := r.getDB(tx).WithContext(ctx).Where("1 = 1").Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}
