package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/crime-report-service/internal/config"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

// casdoorIdentity is the part of the Casdoor claims mapped onto a local user
type casdoorIdentity struct {
	Email   string
	Name    string
	Type    string
	IsAdmin bool
}

type casdoorSessionProvider struct {
	client *casdoorsdk.Client
	repo   repositories.Repository
	logger *slog.Logger
}

// NewCasdoorSessionProvider accepts tokens issued by a Casdoor application
func NewCasdoorSessionProvider(cfg config.CasdoorConfig, repo repositories.Repository, logger *slog.Logger) SessionProvider {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)

	return &casdoorSessionProvider{
		client: client,
		repo:   repo,
		logger: logger,
	}
}

func (p *casdoorSessionProvider) Name() string {
	return "casdoor"
}

func (p *casdoorSessionProvider) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := p.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	name := claims.User.DisplayName
	if name == "" {
		name = claims.User.Name
	}

	return p.resolveUser(ctx, casdoorIdentity{
		Email:   claims.User.Email,
		Name:    name,
		Type:    claims.User.Type,
		IsAdmin: claims.User.IsAdmin,
	})
}

// resolveUser finds the local account by email, creating a shadow account
// on first sight. The stored role wins for known users.
func (p *casdoorSessionProvider) resolveUser(ctx context.Context, identity casdoorIdentity) (*models.User, error) {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidToken)
	}

	user, err := p.repo.User().GetByEmail(ctx, nil, email)
	if err == nil {
		return user, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = email
	}

	user = &models.User{
		Name:  name,
		Email: email,
		Role:  mapCasdoorRole(identity.Type, identity.IsAdmin),
	}
	if err := p.repo.User().Create(ctx, nil, user); err != nil {
		return nil, err
	}

	p.logger.Info("Created shadow account for casdoor user", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func mapCasdoorRole(casdoorType string, isAdmin bool) models.UserRole {
	if isAdmin {
		return models.RoleAdmin
	}
	switch strings.ToLower(strings.TrimSpace(casdoorType)) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "moderator":
		return models.RoleModerator
	default:
		return models.RoleUser
	}
}
