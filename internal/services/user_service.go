package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// adminPasswordCost is used for accounts created or changed by staff
	adminPasswordCost = 10
	// signupPasswordCost is used for self-service signup
	signupPasswordCost = 12
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.User().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	s.logger.Info("Creating user", "email", req.Email, "role", req.Role)

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user, err := createAccount(ctx, s.repo, req.Name, req.Email, req.Password, role, adminPasswordCost)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created successfully", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	s.logger.Info("Updating user", "user_id", id)

	var user *models.User
	err := s.withTx(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = s.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		taken, err := s.repo.User().ExistsByEmail(ctx, tx, req.Email, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrUserEmailExists
		}

		if req.Role != "" && req.Role != user.Role {
			if user.Role == models.RoleAdmin {
				if err := s.ensureOtherAdmin(ctx, tx, user.ID, "demote"); err != nil {
					return err
				}
			}
			user.Role = req.Role
		}

		user.Name = req.Name
		user.Email = req.Email
		if req.Password != "" {
			hash, err := hashPassword(req.Password, adminPasswordCost)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		return s.repo.User().Update(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.repo.User().InvalidateCache(ctx, id)

	s.logger.Info("User updated", "user_id", id, "role", user.Role)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	s.logger.Info("Deleting user", "user_id", id)

	err := s.withTx(ctx, func(tx *gorm.DB) error {
		user, err := s.getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if user.Role == models.RoleAdmin {
			if err := s.ensureOtherAdmin(ctx, tx, user.ID, "delete"); err != nil {
				return err
			}
		}

		if err := s.repo.User().Delete(ctx, tx, id); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.repo.User().InvalidateCache(ctx, id)
	return nil
}

func (s *userService) Settings(ctx context.Context, userID string) (*SettingsResponse, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SettingsResponse{
		User:     user,
		Settings: models.DefaultUserSettings(),
	}, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return errors
	}

	// read through the cache, which never holds the hash
	user, err := s.getForUpdate(ctx, s.db, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(req.NewPassword, adminPasswordCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return err
	}

	s.logger.Info("Password changed", "user_id", userID)
	return nil
}

// ===== HELPERS =====

func (s *userService) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *userService) getForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, tx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ensureOtherAdmin keeps at least one ADMIN account in the system
func (s *userService) ensureOtherAdmin(ctx context.Context, tx *gorm.DB, userID, action string) error {
	admins, err := s.repo.User().CountByRole(ctx, tx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return NewBusinessRuleError("last_admin", "cannot "+action+" the last admin", map[string]interface{}{
			"user_id": userID,
			"admins":  admins,
		})
	}
	return nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// createAccount inserts a user after the uniqueness check shared by signup and admin create
func createAccount(ctx context.Context, repo repositories.Repository, name, email, password string, role models.UserRole, cost int) (*models.User, error) {
	exists, err := repo.User().ExistsByEmail(ctx, nil, email, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserEmailExists
	}

	hash, err := hashPassword(password, cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := repo.User().Create(ctx, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}
