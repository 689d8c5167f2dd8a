package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/services"
	"github.com/SAP-F-2025/crime-report-service/internal/utils"
)

const serviceName = "crime-report-service"

type HandlerManager struct {
	serviceManager      services.ServiceManager
	reportHandler       *ReportHandler
	authHandler         *AuthHandler
	userHandler         *UserHandler
	notificationHandler *NotificationHandler
	dashboardHandler    *DashboardHandler
	authGate            *AuthGate
	allowAnonymous      bool
	logger              utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	allowAnonymousReports bool,
) *HandlerManager {
	return &HandlerManager{
		serviceManager: serviceManager,
		reportHandler: NewReportHandler(
			serviceManager.Report(),
			serviceManager.Analysis(),
			serviceManager.Export(),
			allowAnonymousReports,
			logger,
		),
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		authGate:            NewAuthGate(serviceManager.Session(), logger),
		allowAnonymous:      allowAnonymousReports,
		logger:              logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := hm.authGate.AuthMiddleware()
	optionalAuth := hm.authGate.OptionalAuthMiddleware()
	staffOnly := hm.authGate.RequireRoleMiddleware(models.RoleModerator)
	adminOnly := hm.authGate.RequireRoleMiddleware(models.RoleAdmin)

	submitAuth := optionalAuth
	if !hm.allowAnonymous {
		submitAuth = requireAuth
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", hm.authHandler.Signup)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/me", requireAuth, hm.authHandler.Me)
		}

		reports := v1.Group("/reports")
		{
			// Public intake
			reports.POST("", submitAuth, hm.reportHandler.CreateReport)
			reports.POST("/analyze-image", optionalAuth, hm.reportHandler.AnalyzeImage)
			reports.GET("/track/:report_id", hm.reportHandler.TrackReport)

			// Triage - Moderators and Admins only
			reports.GET("", requireAuth, staffOnly, hm.reportHandler.ListReports)
			reports.GET("/export", requireAuth, staffOnly, hm.reportHandler.ExportReports)
			reports.GET("/:id", requireAuth, staffOnly, hm.reportHandler.GetReport)
			reports.GET("/:id/history", requireAuth, staffOnly, hm.reportHandler.GetReportHistory)
			reports.PATCH("/:id/status", requireAuth, staffOnly, hm.reportHandler.UpdateReportStatus)
			reports.DELETE("/:id", requireAuth, staffOnly, hm.reportHandler.DeleteReport)
		}

		dashboard := v1.Group("/dashboard")
		dashboard.Use(requireAuth, staffOnly)
		{
			dashboard.GET("/stats", hm.dashboardHandler.GetDashboardStats)
		}

		users := v1.Group("/users")
		users.Use(requireAuth, adminOnly)
		{
			users.GET("", hm.userHandler.ListUsers)
			users.POST("", hm.userHandler.CreateUser)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PATCH("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.userHandler.DeleteUser)
		}

		settings := v1.Group("/settings")
		settings.Use(requireAuth)
		{
			settings.GET("", hm.userHandler.GetSettings)
			settings.PATCH("/password", hm.userHandler.ChangePassword)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(requireAuth, staffOnly)
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.DELETE("", hm.notificationHandler.ClearNotifications)
			notifications.PATCH("/:id", hm.notificationHandler.UpdateNotification)
			notifications.DELETE("/:id", hm.notificationHandler.DeleteNotification)
		}
	}
}

func (hm *HandlerManager) health(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		utils.FromContext(c, hm.logger).Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": serviceName,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}
