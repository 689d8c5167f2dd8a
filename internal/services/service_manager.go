package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/crime-report-service/internal/cache"
	"github.com/SAP-F-2025/crime-report-service/internal/config"
	"github.com/SAP-F-2025/crime-report-service/internal/events"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
	"github.com/SAP-F-2025/crime-report-service/internal/vision"
	"gorm.io/gorm"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	TransitionPolicy   validator.TransitionPolicy
	StructuredAnalysis bool

	AuthProvider string
	Auth         config.AuthConfig
	Casdoor      config.CasdoorConfig
}

// Dependencies are the shared clients handed to services
type Dependencies struct {
	Cache     *cache.CacheManager
	Publisher events.EventPublisher
	Vision    vision.Client
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	deps      Dependencies
	config    ServiceManagerConfig

	// Service instances
	reportService       ReportService
	analysisService     AnalysisService
	userService         UserService
	authService         AuthService
	sessionProvider     SessionProvider
	notificationService NotificationService
	dashboardService    DashboardService
	exportService       ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps Dependencies, cfg ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		deps:      deps,
		config:    cfg,
	}
}

// ServiceManagerConfigFrom maps process configuration onto the service manager
func ServiceManagerConfigFrom(cfg *config.Config) ServiceManagerConfig {
	return ServiceManagerConfig{
		TransitionPolicy:   validator.TransitionPolicy(cfg.TransitionPolicy),
		StructuredAnalysis: cfg.Gemini.StructuredOutput,
		AuthProvider:       cfg.Auth.Provider,
		Auth:               cfg.Auth,
		Casdoor:            cfg.Casdoor,
	}
}

// Validate validates the service manager configuration
func (c *ServiceManagerConfig) Validate() error {
	switch c.TransitionPolicy {
	case validator.TransitionPolicyStrict, validator.TransitionPolicyUnrestricted:
	case "":
		c.TransitionPolicy = validator.TransitionPolicyStrict
	default:
		return fmt.Errorf("unknown transition policy %q", c.TransitionPolicy)
	}

	switch c.AuthProvider {
	case "", config.AuthProviderLocal:
		if c.Auth.JWTSecret == "" || c.Auth.JWTTTL <= 0 {
			return fmt.Errorf("local auth requires a JWT secret and a positive TTL")
		}
	case config.AuthProviderCasdoor:
	default:
		return fmt.Errorf("unknown auth provider %q", c.AuthProvider)
	}

	return nil
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.config.Validate(); err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	if err := sm.initializeServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices(ctx context.Context) error {
	if sm.deps.Cache == nil {
		sm.deps.Cache = cache.NewCacheManager(nil)
	}
	if sm.deps.Vision == nil {
		sm.deps.Vision = vision.DisabledClient{}
		sm.logger.Warn("No vision client configured, image analysis is disabled")
	}

	sm.reportService = NewReportService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.Publisher,
		WithTransitionPolicy(sm.config.TransitionPolicy))
	sm.logger.Info("Report service initialized", "transition_policy", sm.config.TransitionPolicy)

	sm.analysisService = NewAnalysisService(sm.deps.Vision, sm.logger, sm.config.StructuredAnalysis)
	sm.logger.Info("Analysis service initialized", "provider", sm.deps.Vision.Name())

	sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("User service initialized")

	sm.authService = NewAuthService(sm.repo, sm.logger, sm.validator, sm.config.Auth.JWTSecret, sm.config.Auth.JWTTTL)
	sm.logger.Info("Auth service initialized")

	switch sm.config.AuthProvider {
	case config.AuthProviderCasdoor:
		sm.sessionProvider = NewCasdoorSessionProvider(sm.config.Casdoor, sm.repo, sm.logger)
	default:
		sm.sessionProvider = NewLocalSessionProvider(sm.repo, sm.config.Auth.JWTSecret)
	}
	sm.logger.Info("Session provider initialized", "provider", sm.sessionProvider.Name())

	sm.notificationService = NewNotificationService(sm.repo, sm.logger, sm.validator)
	sm.logger.Info("Notification service initialized")

	sm.dashboardService = NewDashboardService(sm.repo, sm.deps.Cache, sm.logger)
	sm.logger.Info("Dashboard service initialized")

	sm.exportService = NewExportService(sm.reportService, sm.logger)
	sm.logger.Info("Export service initialized")

	return nil
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Service getters
func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.reportService
}

func (sm *serviceManager) Analysis() AnalysisService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.analysisService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) Session() SessionProvider {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.sessionProvider
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.notificationService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.exportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	if sm.deps.Cache.Stats.Available() {
		if err := sm.deps.Cache.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache health check failed: %w", err)
		}
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if repoManager, ok := sm.repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// IsInitialized returns whether the service manager has been initialized
func (sm *serviceManager) IsInitialized() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.initialized
}

// IsShutdown returns whether the service manager has been shut down
func (sm *serviceManager) IsShutdown() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.shutdown
}
