package validator

import (
	"github.com/SAP-F-2025/crime-report-service/internal/models"
)

// ReportCreateRequest is the payload for submitting a report.
// Status is accepted for compatibility and always ignored.
type ReportCreateRequest struct {
	Title        string               `json:"title" validate:"required,report_title"`
	Description  string               `json:"description" validate:"required,report_description"`
	Location     *string              `json:"location" validate:"omitempty,max=500"`
	Latitude     *float64             `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64             `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Image        *string              `json:"image"`
	Type         models.ReportType    `json:"type" validate:"required,report_type"`
	SpecificType models.SpecificType  `json:"specific_type" validate:"required,specific_type"`
	Status       *models.ReportStatus `json:"status,omitempty"`
}

// ReportListRequest carries the optional list filters as received from the query string.
type ReportListRequest struct {
	Status       string `form:"status" json:"status" validate:"omitempty,report_status"`
	Type         string `form:"type" json:"type" validate:"omitempty,report_type"`
	SpecificType string `form:"specific_type" json:"specific_type" validate:"omitempty,specific_type"`
}

type ReportStatusUpdateRequest struct {
	Status models.ReportStatus `json:"status" validate:"required,report_status"`
	Reason *string             `json:"reason" validate:"omitempty,max=500"`
}

type AnalyzeImageRequest struct {
	Image string `json:"image" validate:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,not_blank,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserCreateRequest struct {
	Name     string          `json:"name" validate:"required,not_blank,max=100"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=6,max=72"`
	Role     models.UserRole `json:"role" validate:"omitempty,user_role"`
}

// UserUpdateRequest replaces name and email; role and password change only when set.
type UserUpdateRequest struct {
	Name     string          `json:"name" validate:"required,not_blank,max=100"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	Role     models.UserRole `json:"role" validate:"omitempty,user_role"`
	Password string          `json:"password" validate:"omitempty,min=6,max=72"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

type NotificationCreateRequest struct {
	Type     models.NotificationType `json:"type" validate:"required,notification_type"`
	Title    string                  `json:"title" validate:"required,not_blank,max=200"`
	Message  string                  `json:"message" validate:"required,not_blank"`
	ReportID *string                 `json:"report_id"`
}

type NotificationUpdateRequest struct {
	Read *bool `json:"read" validate:"required"`
}
