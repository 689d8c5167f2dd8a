package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
)

func TestExportService_ExportReports(t *testing.T) {
	env := newTestEnv(t)
	reports := env.reportService()
	ctx := context.Background()

	req := validCreateRequest()
	lat, lng := 9.03, 38.74
	req.Latitude, req.Longitude = &lat, &lng
	first, err := reports.Create(ctx, req, nil)
	require.NoError(t, err)

	_, err = reports.Create(ctx, validCreateRequest(), nil)
	require.NoError(t, err)
	_, err = reports.UpdateStatus(ctx, first.ID, &UpdateReportStatusRequest{Status: models.ReportStatusResolved}, adminActor)
	require.NoError(t, err)

	data, err := NewExportService(reports, env.logger).ExportReports(ctx, &ListReportsRequest{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Reports", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Report ID", rows[0][0])
	assert.Equal(t, "Updated At", rows[0][9])

	var firstRow []string
	for _, row := range rows[1:] {
		if row[0] == "REP001" {
			firstRow = row
		}
	}
	require.NotNil(t, firstRow)
	assert.Equal(t, string(models.ReportStatusResolved), firstRow[4])
	assert.Equal(t, "Marina Road", firstRow[5])
	assert.Equal(t, "9.03", firstRow[6])

	resolved, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "1", resolved)

	total, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	_, err = NewExportService(reports, env.logger).ExportReports(ctx, &ListReportsRequest{Type: "BOGUS"})
	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
