package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)
	ExportExcel(w http.ResponseWriter, r *http.Request)
	ExportPDF(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func decodeReportFilter(w http.ResponseWriter, r *http.Request) (report.AttendanceReportFilter, bool) {
	var filter report.AttendanceReportFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return filter, false
	}
	filter.Page = queryInt(r, "page", 1)
	filter.Limit = queryInt(r, "limit", 20)
	return filter, true
}

// GetAttendanceReport handles POST /reports/attendance
func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	filter, ok := decodeReportFilter(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.GetAttendanceReport(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// ExportExcel handles POST /reports/export/excel
func (h *reportHandlerImpl) ExportExcel(w http.ResponseWriter, r *http.Request) {
	filter, ok := decodeReportFilter(w, r)
	if !ok {
		return
	}

	file, err := h.reportService.ExportExcel(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

// ExportPDF handles POST /reports/export/pdf
func (h *reportHandlerImpl) ExportPDF(w http.ResponseWriter, r *http.Request) {
	filter, ok := decodeReportFilter(w, r)
	if !ok {
		return
	}

	file, err := h.reportService.ExportPDF(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}
