package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReportType string

const (
	ReportTypeEmergency    ReportType = "EMERGENCY"
	ReportTypeNonEmergency ReportType = "NON_EMERGENCY"
)

type SpecificType string

const (
	SpecificTheft              SpecificType = "THEFT"
	SpecificFireOutbreak       SpecificType = "FIRE_OUTBREAK"
	SpecificMedicalEmergency   SpecificType = "MEDICAL_EMERGENCY"
	SpecificNaturalDisaster    SpecificType = "NATURAL_DISASTER"
	SpecificViolence           SpecificType = "VIOLENCE"
	SpecificTrafficAccident    SpecificType = "TRAFFIC_ACCIDENT"
	SpecificVandalism          SpecificType = "VANDALISM"
	SpecificSuspiciousActivity SpecificType = "SUSPICIOUS_ACTIVITY"
	SpecificPublicDisturbance  SpecificType = "PUBLIC_DISTURBANCE"
	SpecificOther              SpecificType = "OTHER"
)

type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "PENDING"
	ReportStatusInProgress ReportStatus = "IN_PROGRESS"
	ReportStatusResolved   ReportStatus = "RESOLVED"
	ReportStatusDismissed  ReportStatus = "DISMISSED"
)

// specificTypeRollup is the fixed association of every specific type to its coarse type.
var specificTypeRollup = map[SpecificType]ReportType{
	SpecificTheft:              ReportTypeEmergency,
	SpecificFireOutbreak:       ReportTypeEmergency,
	SpecificMedicalEmergency:   ReportTypeEmergency,
	SpecificNaturalDisaster:    ReportTypeEmergency,
	SpecificViolence:           ReportTypeEmergency,
	SpecificTrafficAccident:    ReportTypeEmergency,
	SpecificVandalism:          ReportTypeNonEmergency,
	SpecificSuspiciousActivity: ReportTypeNonEmergency,
	SpecificPublicDisturbance:  ReportTypeNonEmergency,
	SpecificOther:              ReportTypeNonEmergency,
}

func ReportTypes() []ReportType {
	return []ReportType{ReportTypeEmergency, ReportTypeNonEmergency}
}

func SpecificTypes() []SpecificType {
	return []SpecificType{
		SpecificTheft, SpecificFireOutbreak, SpecificMedicalEmergency, SpecificNaturalDisaster,
		SpecificViolence, SpecificTrafficAccident, SpecificVandalism, SpecificSuspiciousActivity,
		SpecificPublicDisturbance, SpecificOther,
	}
}

func ReportStatuses() []ReportStatus {
	return []ReportStatus{ReportStatusPending, ReportStatusInProgress, ReportStatusResolved, ReportStatusDismissed}
}

func (t ReportType) IsValid() bool {
	return t == ReportTypeEmergency || t == ReportTypeNonEmergency
}

func (s SpecificType) IsValid() bool {
	_, ok := specificTypeRollup[s]
	return ok
}

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusInProgress, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

// TypeForSpecificType returns the coarse type a specific type rolls up to.
func TypeForSpecificType(s SpecificType) (ReportType, bool) {
	t, ok := specificTypeRollup[s]
	return t, ok
}

// SpecificTypesFor lists the specific types that roll up to t.
func SpecificTypesFor(t ReportType) []SpecificType {
	var out []SpecificType
	for _, s := range SpecificTypes() {
		if specificTypeRollup[s] == t {
			out = append(out, s)
		}
	}
	return out
}

const ReportIDPrefix = "REP"

// FormatReportID renders the human-facing identifier, e.g. 7 -> REP007.
func FormatReportID(n int64) string {
	return fmt.Sprintf("%s%03d", ReportIDPrefix, n)
}

type Report struct {
	ID           string       `json:"id" gorm:"primaryKey;size:36"`
	ReportID     string       `json:"report_id" gorm:"uniqueIndex;not null;size:32"`
	Title        string       `json:"title" gorm:"not null;size:200"`
	Description  string       `json:"description" gorm:"type:text;not null"`
	Location     *string      `json:"location" gorm:"size:500"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	Image        *string      `json:"image" gorm:"type:text"`
	Type         ReportType   `json:"type" gorm:"type:varchar(20);not null;index"`
	SpecificType SpecificType `json:"specific_type" gorm:"type:varchar(32);not null;index"`
	Status       ReportStatus `json:"status" gorm:"type:varchar(20);not null;default:PENDING;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReportCounter is a named monotonic sequence row.
type ReportCounter struct {
	Name  string `gorm:"primaryKey;size:50"`
	Value int64  `gorm:"not null;default:0"`
}

func (ReportCounter) TableName() string {
	return "report_counters"
}

const ReportCounterName = "reports"

// ReportStatusTransition is one append-only audit record of a status change.
// FromStatus is nil for the record written at creation.
type ReportStatusTransition struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	ReportID   string         `json:"report_id" gorm:"not null;size:36;index"`
	FromStatus *ReportStatus  `json:"from_status" gorm:"type:varchar(20)"`
	ToStatus   ReportStatus   `json:"to_status" gorm:"type:varchar(20);not null"`
	ActorID    *string        `json:"actor_id" gorm:"size:36"`
	ActorEmail *string        `json:"actor_email" gorm:"size:255"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index"`

	Report *Report `json:"-" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

func (ReportStatusTransition) TableName() string {
	return "report_status_transitions"
}

func (t *ReportStatusTransition) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
