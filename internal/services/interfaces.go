package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/events"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateReportRequest = validator.ReportCreateRequest
type ListReportsRequest = validator.ReportListRequest
type UpdateReportStatusRequest = validator.ReportStatusUpdateRequest

type SignupRequest = validator.SignupRequest
type LoginRequest = validator.LoginRequest
type CreateUserRequest = validator.UserCreateRequest
type UpdateUserRequest = validator.UserUpdateRequest
type ChangePasswordRequest = validator.PasswordChangeRequest

type CreateNotificationRequest = validator.NotificationCreateRequest

// Actor identifies who performs an operation. A nil *Actor is an anonymous caller.
type Actor struct {
	ID    string
	Email string
	Role  models.UserRole
}

func ActorFromUser(user *models.User) *Actor {
	if user == nil {
		return nil
	}
	return &Actor{ID: user.ID, Email: user.Email, Role: user.Role}
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type SettingsResponse struct {
	User     *models.User        `json:"user"`
	Settings models.UserSettings `json:"settings"`
}

// ===== SERVICE INTERFACES =====

type ReportService interface {
	Create(ctx context.Context, req *CreateReportRequest, actor *Actor) (*models.Report, error)
	Get(ctx context.Context, id string) (*models.Report, error)
	Track(ctx context.Context, reportID string) (*models.ReportTracking, error)
	List(ctx context.Context, req *ListReportsRequest) ([]*models.Report, error)
	UpdateStatus(ctx context.Context, id string, req *UpdateReportStatusRequest, actor *Actor) (*models.Report, error)
	Delete(ctx context.Context, id string, actor *Actor) error
	History(ctx context.Context, id string) ([]*models.ReportStatusTransition, error)
}

type AnalysisService interface {
	Analyze(ctx context.Context, image string) (*models.ReportDraft, error)
}

type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Settings(ctx context.Context, userID string) (*SettingsResponse, error)
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
}

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	IssueToken(user *models.User) (string, time.Time, error)
}

// SessionProvider resolves a bearer token to a local user
type SessionProvider interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Name() string
}

type NotificationService interface {
	List(ctx context.Context) ([]*models.Notification, error)
	Create(ctx context.Context, req *CreateNotificationRequest) (*models.Notification, error)
	MarkRead(ctx context.Context, id string, read bool) (*models.Notification, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int64, error)

	// HandleReportEvent turns report events into notifications
	HandleReportEvent(ctx context.Context, event *events.Event) error
}

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type ExportService interface {
	ExportReports(ctx context.Context, req *ListReportsRequest) ([]byte, error)
}

// ServiceManager owns the lifecycle of every service
type ServiceManager interface {
	Report() ReportService
	Analysis() AnalysisService
	User() UserService
	Auth() AuthService
	Session() SessionProvider
	Notification() NotificationService
	Dashboard() DashboardService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
