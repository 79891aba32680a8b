package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gst-invoice-api/internal/services"
)

// ReportHandler serves period GST reports
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// reportPeriod reads the required start_date and end_date
func reportPeriod(c *gin.Context) (time.Time, time.Time, bool) {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if start == nil || end == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Message: "start_date and end_date are required",
		})
		return time.Time{}, time.Time{}, false
	}
	return *start, *end, true
}

// @Summary GST summary
// @Description Output tax on sales less returns, input tax on purchases and the net payable, with a per-slab breakdown
// @Tags reports
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD), inclusive"
// @Success 200 {object} models.GSTSummary
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reports/gst-summary [get]
func (h *ReportHandler) GetGSTSummary(c *gin.Context) {
	start, end, ok := reportPeriod(c)
	if !ok {
		return
	}

	summary, err := h.reportService.GetGSTSummary(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, "build GST summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary Export the GST summary
// @Description Workbook with a Summary and a By rate sheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD), inclusive"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /reports/gst-summary/export [get]
func (h *ReportHandler) ExportGSTSummary(c *gin.Context) {
	start, end, ok := reportPeriod(c)
	if !ok {
		return
	}

	doc, err := h.reportService.ExportGSTSummary(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, "export GST summary", err)
		return
	}

	sendDocument(c, doc)
}
