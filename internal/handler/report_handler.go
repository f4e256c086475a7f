package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"heliosign/internal/service"
)

// ReportHandler handles report export endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SigningActivity exports signing activity as an XLSX workbook, or CSV
// when format=csv.
//
//	@Summary		Signing activity report
//	@Description	Download all signing activity in a date range as XLSX or CSV
//	@Tags			reports
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Security		BearerAuth
//	@Param			from	query	string	true	"Start date (YYYY-MM-DD)"
//	@Param			to		query	string	true	"End date (YYYY-MM-DD)"
//	@Param			format	query	string	false	"Export format: xlsx (default) or csv"
//	@Success		200	{file}	binary
//	@Router			/reports/signing-activity [get]
func (h *ReportHandler) SigningActivity(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid to date, expected YYYY-MM-DD")
		return
	}
	toDate := to.Format("2006-01-02")
	// Make the range inclusive of the end date.
	to = to.Add(24*time.Hour - time.Nanosecond)

	var (
		data        []byte
		ext         string
		contentType string
	)
	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		data, err = h.reportService.SigningActivityCSV(c.Request.Context(), from, to)
		ext, contentType = "csv", "text/csv; charset=utf-8"
	case "xlsx":
		data, err = h.reportService.SigningActivityXLSX(c.Request.Context(), from, to)
		ext, contentType = "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "unknown format, expected xlsx or csv")
		return
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("signing-activity_%s_%s.%s", from.Format("2006-01-02"), toDate, ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// DocumentReport exports a single document's signer status and audit
// trail as an XLSX workbook.
//
//	@Summary		Document report
//	@Description	Download a per-document signer and audit trail report as XLSX
//	@Tags			reports
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Document ID"
//	@Success		200	{file}	binary
//	@Failure		404	{object}	APIResponse
//	@Router			/documents/{id}/report [get]
func (h *ReportHandler) DocumentReport(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}

	data, err := h.reportService.DocumentReportXLSX(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("document-report_%s.xlsx", docID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
