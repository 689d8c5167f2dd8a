package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/crime-report-service/internal/services"
	"github.com/SAP-F-2025/crime-report-service/internal/utils"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// ListNotifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	notifications, err := h.notificationService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// UpdateNotification sets the read flag
// @Summary Mark notification read or unread
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID"
// @Param body body validator.NotificationUpdateRequest true "Read flag"
// @Success 200 {object} models.Notification
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id} [patch]
func (h *NotificationHandler) UpdateNotification(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req validator.NotificationUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.Read == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: services.ValidationErrors{*services.NewValidationError("read", "read is required", nil)},
		})
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), id, *req.Read)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// DeleteNotification
// @Summary Delete notification
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Notification deleted successfully",
	})
}

// ClearNotifications deletes every notification
// @Summary Clear notifications
// @Tags notifications
// @Success 200 {object} SuccessResponse
// @Router /notifications [delete]
func (h *NotificationHandler) ClearNotifications(c *gin.Context) {
	deleted, err := h.notificationService.Clear(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Cleared notifications", "deleted", deleted)

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Notifications cleared",
		Data:    gin.H{"deleted": deleted},
	})
}
