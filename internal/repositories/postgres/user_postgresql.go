package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/crime-report-service/internal/cache"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	if err := u.getDB(tx).WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if tx == nil {
		u.InvalidateCache(ctx, user.ID)
	}
	return nil
}

// GetByID retrieves a user by ID. Cached copies have an empty PasswordHash;
// pass tx to read the stored hash.
func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	if tx != nil {
		return u.findOne(ctx, tx, "id = ?", id)
	}

	var user models.User
	err := u.cacheManager.User.CacheOrExecute(ctx, "id:"+id, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		return u.findOne(ctx, u.db, "id = ?", id)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByEmail always reads through to the database since callers verify passwords
func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	return u.findOne(ctx, u.getDB(tx), "email = ?", normalizeEmail(email))
}

func (u *UserPostgreSQL) findOne(ctx context.Context, db *gorm.DB, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	var users []*models.User
	if err := u.getDB(tx).WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	updates := map[string]interface{}{
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
	// cached users carry no hash; an empty hash keeps the stored one
	if user.PasswordHash != "" {
		updates["password_hash"] = user.PasswordHash
	}

	result := u.getDB(tx).WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update user: %w", gorm.ErrRecordNotFound)
	}

	if tx == nil {
		u.InvalidateCache(ctx, user.ID)
	}
	return nil
}

func (u *UserPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	result := u.getDB(tx).WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete user: %w", gorm.ErrRecordNotFound)
	}

	if tx == nil {
		u.InvalidateCache(ctx, id)
	}
	return nil
}

func (u *UserPostgreSQL) InvalidateCache(ctx context.Context, id string) {
	cache.InvalidateUserCache(ctx, u.cacheManager, id)
}

// ExistsByEmail checks email uniqueness, ignoring excludeID when set
func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID string) (bool, error) {
	query := u.getDB(tx).WithContext(ctx).Model(&models.User{}).Where("email = ?", normalizeEmail(email))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) CountByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	if err := u.getDB(tx).WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

func (u *UserPostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := u.getDB(tx).WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
