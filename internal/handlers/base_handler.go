package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/crime-report-service/internal/services"
	"github.com/SAP-F-2025/crime-report-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const analysisFailedMessage = "Failed to analyze image. Please try again or fill in the details manually."

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the logging and error mapping shared by every handler
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, append(args, "path", c.FullPath())...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.FromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	if services.IsAnalysisError(err) {
		h.LogError(c, err, "Image analysis failed", "kind", services.AnalysisErrorKind(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: analysisFailedMessage,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrReportNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Report not found",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Notification not found",
		})
	case errors.Is(err, services.ErrReportStatusConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Report status was changed by another request, reload and try again",
		})
	case errors.Is(err, services.ErrUserEmailExists):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Email already registered",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid email or password",
		})
	case services.IsAuthError(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized access",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// parseStringIDParam returns the trimmed path parameter, writing a 400 when it is empty
func (h *BaseHandler) parseStringIDParam(c *gin.Context, param string) string {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
		})
	}
	return id
}

// bindJSON decodes the request body, writing a 400 on malformed input
func (h *BaseHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// currentActor returns the authenticated caller, or nil for anonymous requests
func currentActor(c *gin.Context) *services.Actor {
	user, err := GetUserFromContext(c)
	if err != nil {
		return nil
	}
	return services.ActorFromUser(user)
}
