package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// SessionClaims are the claims of a locally issued session token
type SessionClaims struct {
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	secret    []byte
	ttl       time.Duration
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, secret string, ttl time.Duration) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		secret:    []byte(secret),
		ttl:       ttl,
	}
}

func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	user, err := createAccount(ctx, s.repo, req.Name, req.Email, req.Password, models.RoleUser, signupPasswordCost)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	user, err := s.repo.User().GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("Failed login attempt", "email", req.Email)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) IssueToken(user *models.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := SessionClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ===== LOCAL SESSIONS =====

type localSessionProvider struct {
	repo   repositories.Repository
	secret []byte
}

// NewLocalSessionProvider verifies tokens issued by AuthService
func NewLocalSessionProvider(repo repositories.Repository, secret string) SessionProvider {
	return &localSessionProvider{repo: repo, secret: []byte(secret)}
}

func (p *localSessionProvider) Name() string {
	return "local"
}

// Authenticate rejects tokens of users deleted since the token was issued
func (p *localSessionProvider) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	user, err := p.repo.User().GetByID(ctx, nil, claims.Subject)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}

// IsAuthError reports whether err should be answered with 401
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrUnauthorized)
}
