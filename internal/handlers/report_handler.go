package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/services"
	"github.com/SAP-F-2025/crime-report-service/internal/utils"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	BaseHandler
	reportService   services.ReportService
	analysisService services.AnalysisService
	exportService   services.ExportService
	allowAnonymous  bool
}

func NewReportHandler(
	reportService services.ReportService,
	analysisService services.AnalysisService,
	exportService services.ExportService,
	allowAnonymous bool,
	logger utils.Logger,
) *ReportHandler {
	return &ReportHandler{
		BaseHandler:     NewBaseHandler(logger),
		reportService:   reportService,
		analysisService: analysisService,
		exportService:   exportService,
		allowAnonymous:  allowAnonymous,
	}
}

// CreateReport submits a new report
// @Summary Create report
// @Description Submits a report. Anonymous callers are accepted when enabled.
// @Tags reports
// @Accept json
// @Produce json
// @Param report body services.CreateReportRequest true "Report data"
// @Success 201 {object} models.Report
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil && !h.allowAnonymous {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	var req services.CreateReportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating report", "type", req.Type, "anonymous", actor == nil)

	report, err := h.reportService.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// AnalyzeImage suggests report fields from a photo
// @Summary Analyze image
// @Description Returns a draft (title, description, location, type, specific type). Nothing is stored.
// @Tags reports
// @Accept json
// @Produce json
// @Param body body validator.AnalyzeImageRequest true "Image data URI"
// @Success 200 {object} models.ReportDraft
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/analyze-image [post]
func (h *ReportHandler) AnalyzeImage(c *gin.Context) {
	var req validator.AnalyzeImageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Analyzing image", "size", len(req.Image))

	draft, err := h.analysisService.Analyze(c.Request.Context(), req.Image)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// TrackReport returns the public tracking view of a report
// @Summary Track report
// @Tags reports
// @Produce json
// @Param report_id path string true "Report identifier, e.g. REP001"
// @Success 200 {object} models.ReportTracking
// @Failure 404 {object} ErrorResponse
// @Router /reports/track/{report_id} [get]
func (h *ReportHandler) TrackReport(c *gin.Context) {
	reportID := h.parseStringIDParam(c, "report_id")
	if reportID == "" {
		return
	}

	tracking, err := h.reportService.Track(c.Request.Context(), reportID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tracking)
}

// ListReports lists reports newest first
// @Summary List reports
// @Tags reports
// @Produce json
// @Param status query string false "Status filter"
// @Param type query string false "Type filter"
// @Param specific_type query string false "Specific type filter"
// @Success 200 {array} models.Report
// @Failure 400 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	req, ok := h.bindListQuery(c)
	if !ok {
		return
	}

	reports, err := h.reportService.List(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// ExportReports downloads the filtered reports as a workbook
// @Summary Export reports
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /reports/export [get]
func (h *ReportHandler) ExportReports(c *gin.Context) {
	req, ok := h.bindListQuery(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting reports")

	data, err := h.exportService.ExportReports(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("crime-reports-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, services.ExportContentType, data)
}

// GetReport
// @Summary Get report
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} models.Report
// @Failure 404 {object} ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	report, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReportHistory returns the status transition log, oldest first
// @Summary Report status history
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {array} models.ReportStatusTransition
// @Failure 404 {object} ErrorResponse
// @Router /reports/{id}/history [get]
func (h *ReportHandler) GetReportHistory(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	history, err := h.reportService.History(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// UpdateReportStatus moves a report to a new status
// @Summary Update report status
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param body body services.UpdateReportStatusRequest true "New status"
// @Success 200 {object} models.Report
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reports/{id}/status [patch]
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateReportStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating report status", "report_id", id, "status", req.Status)

	report, err := h.reportService.UpdateStatus(c.Request.Context(), id, &req, currentActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// DeleteReport
// @Summary Delete report
// @Tags reports
// @Param id path string true "Report ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /reports/{id} [delete]
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting report", "report_id", id)

	if err := h.reportService.Delete(c.Request.Context(), id, currentActor(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Report deleted successfully",
	})
}

func (h *ReportHandler) bindListQuery(c *gin.Context) (*services.ListReportsRequest, bool) {
	var req services.ListReportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return nil, false
	}
	return &req, true
}
