package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/crime-report-service/internal/validator"
)

// Use validator types so handlers can match a single ValidationErrors kind
type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// ===== NOT FOUND =====

var (
	ErrReportNotFound       = errors.New("report not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// ===== CONFLICTS =====

var (
	ErrReportStatusConflict = errors.New("report status was changed concurrently")
	ErrUserEmailExists      = errors.New("email already registered")
)

// ===== AUTHENTICATION =====

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized")
)

// BusinessRuleError is a request that is well formed but violates a domain rule
type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule %s violated: %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message, Context: context}
}

// PermissionError is returned when the actor may not perform action on resource
type PermissionError struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{UserID: userID, Resource: resource, Action: action, Reason: reason}
}

// ===== IMAGE ANALYSIS =====

// InvalidInputError means the submitted image could not be used
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid image data: " + e.Reason
}

// UpstreamFormatError means the model answered with an unknown enumeration value
type UpstreamFormatError struct {
	Field string
	Value string
}

func (e *UpstreamFormatError) Error() string {
	return fmt.Sprintf("model returned invalid %s %q", e.Field, e.Value)
}

// IncompleteResultError means required draft fields came back empty
type IncompleteResultError struct {
	Missing []string
}

func (e *IncompleteResultError) Error() string {
	return "model result is missing " + strings.Join(e.Missing, ", ")
}

// UpstreamError wraps a transport or API failure of the vision model
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "vision model request failed: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AnalysisErrorKind names the analysis failure for logs and metrics
func AnalysisErrorKind(err error) string {
	var invalidInput *InvalidInputError
	var upstreamFormat *UpstreamFormatError
	var incomplete *IncompleteResultError
	var upstream *UpstreamError

	switch {
	case err == nil:
		return "success"
	case errors.As(err, &invalidInput):
		return "invalid_input"
	case errors.As(err, &upstreamFormat):
		return "upstream_format"
	case errors.As(err, &incomplete):
		return "incomplete_result"
	case errors.As(err, &upstream):
		return "upstream_error"
	default:
		return "internal"
	}
}

// IsAnalysisError reports whether err belongs to the image analysis taxonomy
func IsAnalysisError(err error) bool {
	kind := AnalysisErrorKind(err)
	return kind != "success" && kind != "internal"
}
