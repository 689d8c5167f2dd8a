package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	reportsSheet = "Reports"
	summarySheet = "Summary"
)

var exportHeader = []interface{}{
	"Report ID", "Title", "Type", "Specific Type", "Status",
	"Location", "Latitude", "Longitude", "Created At", "Updated At",
}

type exportService struct {
	reports ReportService
	logger  *slog.Logger
}

// NewExportService writes report listings as XLSX workbooks
func NewExportService(reports ReportService, logger *slog.Logger) ExportService {
	return &exportService{reports: reports, logger: logger}
}

func (s *exportService) ExportReports(ctx context.Context, req *ListReportsRequest) ([]byte, error) {
	reports, err := s.reports.List(ctx, req)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportsSheet); err != nil {
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}

	if err := writeRow(f, reportsSheet, 1, exportHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(reportsSheet, "A1", "J1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	var counts models.StatusCounts
	for i, r := range reports {
		if err := writeRow(f, reportsSheet, i+2, reportRow(r)); err != nil {
			return nil, err
		}
		switch r.Status {
		case models.ReportStatusPending:
			counts.Pending++
		case models.ReportStatusInProgress:
			counts.InProgress++
		case models.ReportStatusResolved:
			counts.Resolved++
		case models.ReportStatusDismissed:
			counts.Dismissed++
		}
	}

	summary := [][]interface{}{
		{"Status", "Count"},
		{string(models.ReportStatusPending), counts.Pending},
		{string(models.ReportStatusInProgress), counts.InProgress},
		{string(models.ReportStatusResolved), counts.Resolved},
		{string(models.ReportStatusDismissed), counts.Dismissed},
		{"TOTAL", int64(len(reports))},
	}
	for i, row := range summary {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Reports exported", "count", len(reports))
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func reportRow(r *models.Report) []interface{} {
	row := []interface{}{
		r.ReportID, r.Title, string(r.Type), string(r.SpecificType), string(r.Status),
		"", "", "",
		r.CreatedAt.UTC().Format(time.RFC3339), r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if r.Location != nil {
		row[5] = *r.Location
	}
	if r.Latitude != nil {
		row[6] = *r.Latitude
	}
	if r.Longitude != nil {
		row[7] = *r.Longitude
	}
	return row
}
