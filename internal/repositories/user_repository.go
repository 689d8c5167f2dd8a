package repositories

import (
	"context"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for user operations
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	// InvalidateCache drops a cached user. Writes made through a transaction
	// leave the cache alone; call this once the transaction commits.
	InvalidateCache(ctx context.Context, id string)

	// Validation and checks
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID string) (bool, error)
	CountByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}
