package report

import "context"

type ReportService interface {
	GetAttendanceReport(ctx context.Context, filter AttendanceReportFilter) (AttendanceReportResponse, error)
	ExportExcel(ctx context.Context, filter AttendanceReportFilter) (ExportFile, error)
	ExportPDF(ctx context.Context, filter AttendanceReportFilter) (ExportFile, error)
}
