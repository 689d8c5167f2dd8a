package models

import "time"

// ReportDraft is the structured result of analyzing an incident photo.
type ReportDraft struct {
	Title        string       `json:"title"`
	Type         ReportType   `json:"type"`
	SpecificType SpecificType `json:"specific_type"`
	Location     string       `json:"location"`
	Description  string       `json:"description"`
}

// ReportTracking is the public view of a report looked up by its report ID.
type ReportTracking struct {
	ReportID     string       `json:"report_id"`
	Title        string       `json:"title"`
	Type         ReportType   `json:"type"`
	SpecificType SpecificType `json:"specific_type"`
	Status       ReportStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func NewReportTracking(r *Report) *ReportTracking {
	return &ReportTracking{
		ReportID:     r.ReportID,
		Title:        r.Title,
		Type:         r.Type,
		SpecificType: r.SpecificType,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type StatusCounts struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Dismissed  int64 `json:"dismissed"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type DashboardStats struct {
	TotalReports   int64                  `json:"total_reports"`
	ByStatus       StatusCounts           `json:"by_status"`
	ByType         map[ReportType]int64   `json:"by_type"`
	BySpecificType map[SpecificType]int64 `json:"by_specific_type"`
	Monthly        []MonthlyCount         `json:"monthly"`
	ResolutionRate float64                `json:"resolution_rate"`
	TotalUsers     int64                  `json:"total_users"`
	UsersByRole    map[UserRole]int64     `json:"users_by_role"`
	GeneratedAt    time.Time              `json:"generated_at"`
}
