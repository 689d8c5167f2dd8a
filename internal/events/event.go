package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
)

const (
	EventSource  = "crime-report-service"
	EventVersion = "1.0"
)

type EventType string

const (
	ReportCreated       EventType = "report.created"
	ReportStatusChanged EventType = "report.status_changed"
)

// Event is the envelope carried on every topic
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type ReportCreatedData struct {
	ID           string              `json:"id"`
	ReportID     string              `json:"report_id"`
	Title        string              `json:"title"`
	Type         models.ReportType   `json:"type"`
	SpecificType models.SpecificType `json:"specific_type"`
	Location     *string             `json:"location,omitempty"`
}

type ReportStatusChangedData struct {
	ID         string              `json:"id"`
	ReportID   string              `json:"report_id"`
	Title      string              `json:"title"`
	FromStatus models.ReportStatus `json:"from_status"`
	ToStatus   models.ReportStatus `json:"to_status"`
	ActorID    string              `json:"actor_id,omitempty"`
	ActorEmail string              `json:"actor_email,omitempty"`
	Reason     string              `json:"reason,omitempty"`
}

func NewEvent(eventType EventType, data interface{}) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}, nil
}

func NewReportCreatedEvent(report *models.Report) (*Event, error) {
	return NewEvent(ReportCreated, ReportCreatedData{
		ID:           report.ID,
		ReportID:     report.ReportID,
		Title:        report.Title,
		Type:         report.Type,
		SpecificType: report.SpecificType,
		Location:     report.Location,
	})
}

// DecodeData unmarshals the payload into dest
func (e *Event) DecodeData(dest interface{}) error {
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

// Topic is the broker topic an event type is published on
func Topic(prefix string, eventType EventType) string {
	if prefix == "" {
		return string(eventType)
	}
	return prefix + "." + string(eventType)
}
