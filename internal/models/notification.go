package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationEmergency NotificationType = "EMERGENCY"
	NotificationUpdate    NotificationType = "UPDATE"
	NotificationInfo      NotificationType = "INFO"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationEmergency, NotificationUpdate, NotificationInfo:
		return true
	}
	return false
}

type Notification struct {
	ID       string           `json:"id" gorm:"primaryKey;size:36"`
	Type     NotificationType `json:"type" gorm:"type:varchar(20);not null"`
	Title    string           `json:"title" gorm:"not null;size:200"`
	Message  string           `json:"message" gorm:"type:text;not null"`
	Read     bool             `json:"read" gorm:"not null;default:false"`
	ReportID *string          `json:"report_id,omitempty" gorm:"size:36;index"`

	CreatedAt time.Time `json:"timestamp" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
