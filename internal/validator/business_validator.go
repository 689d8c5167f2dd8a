package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// TransitionPolicy selects how report status changes are checked.
type TransitionPolicy string

const (
	// TransitionPolicyStrict enforces ReportTransitions.
	TransitionPolicyStrict TransitionPolicy = "strict"
	// TransitionPolicyUnrestricted allows any status from any status, including no-ops.
	TransitionPolicyUnrestricted TransitionPolicy = "unrestricted"
)

// ReportTransitions is the allowed (from, to) table for the strict policy.
// RESOLVED and DISMISSED are terminal.
var ReportTransitions = map[models.ReportStatus][]models.ReportStatus{
	models.ReportStatusPending:    {models.ReportStatusInProgress, models.ReportStatusResolved, models.ReportStatusDismissed},
	models.ReportStatusInProgress: {models.ReportStatusPending, models.ReportStatusResolved, models.ReportStatusDismissed},
	models.ReportStatusResolved:   {},
	models.ReportStatusDismissed:  {},
}

// AllowedTransitions returns the statuses reachable from current under policy.
func AllowedTransitions(current models.ReportStatus, policy TransitionPolicy) []models.ReportStatus {
	if policy == TransitionPolicyUnrestricted {
		return models.ReportStatuses()
	}
	return ReportTransitions[current]
}

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateReportCreate validates report submission, including the type roll-up.
func (bv *BusinessValidator) ValidateReportCreate(req *ReportCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if !errors.HasField("type") && !errors.HasField("specific_type") {
		expected, _ := models.TypeForSpecificType(req.SpecificType)
		if expected != req.Type {
			errors = append(errors, ValidationError{
				Field:   "type",
				Message: fmt.Sprintf("specific type %s belongs to %s", req.SpecificType, expected),
				Value:   req.Type,
				Rule:    "type_mismatch",
			})
		}
	}

	return errors
}

// ValidateStatusTransition validates a report status change under policy.
func (bv *BusinessValidator) ValidateStatusTransition(current, next models.ReportStatus, policy TransitionPolicy) ValidationErrors {
	var errors ValidationErrors

	if !next.IsValid() {
		return append(errors, ValidationError{
			Field:   "status",
			Message: "must be one of PENDING, IN_PROGRESS, RESOLVED, DISMISSED",
			Value:   next,
			Rule:    "report_status",
		})
	}

	allowed := AllowedTransitions(current, policy)
	for _, status := range allowed {
		if status == next {
			return nil
		}
	}

	message := fmt.Sprintf("cannot transition from %s to %s", current, next)
	if current == next {
		message = fmt.Sprintf("report is already %s", current)
	}

	return append(errors, ValidationError{
		Field:   "status",
		Message: message,
		Value: map[string]interface{}{
			"from":    current,
			"to":      next,
			"allowed": allowed,
		},
		Rule: "status_transition",
	})
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Report title (1-200 characters after trimming)
	bv.validate.RegisterValidation("report_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return title != "" && utf8.RuneCountInString(title) <= 200
	})

	// Report description (1-5000 characters after trimming)
	bv.validate.RegisterValidation("report_description", func(fl validator.FieldLevel) bool {
		desc := strings.TrimSpace(fl.Field().String())
		return desc != "" && utf8.RuneCountInString(desc) <= 5000
	})

	bv.validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	bv.validate.RegisterValidation("report_type", func(fl validator.FieldLevel) bool {
		return models.ReportType(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("specific_type", func(fl validator.FieldLevel) bool {
		return models.SpecificType(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
		return models.ReportStatus(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("notification_type", func(fl validator.FieldLevel) bool {
		return models.NotificationType(fl.Field().String()).IsValid()
	})
}
