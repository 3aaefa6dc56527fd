package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
)

// MaxExportRows bounds a single export.
const MaxExportRows = 50000

const dateTimeLayout = "02/01/2006 15:04:05"

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	loc        *time.Location
}

func NewReportService(reportRepo report.ReportRepository, loc *time.Location) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		loc:        loc,
	}
}

func (s *ReportServiceImpl) toRowResponse(row report.AttendanceRow) report.AttendanceRowResponse {
	return report.AttendanceRowResponse{
		ID:             row.ID,
		EmployeeID:     row.EmployeeID,
		EmployeeCode:   row.EmployeeCode,
		EmployeeName:   row.EmployeeName,
		DNI:            row.DNI,
		JobTitle:       row.JobTitle,
		Area:           row.Area,
		PunchedAt:      row.PunchedAt.In(s.loc).Format(time.RFC3339),
		PunchType:      string(row.PunchType),
		PunchTypeLabel: row.PunchType.Description(),
		Status:         string(row.Status),
		StatusLabel:    row.Status.Description(),
		Note:           row.Note,
	}
}

// GetAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GetAttendanceReport(ctx context.Context, filter report.AttendanceReportFilter) (report.AttendanceReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.AttendanceReportResponse{}, err
	}

	rows, total, err := s.reportRepo.ListAttendance(ctx, filter.Query(s.loc))
	if err != nil {
		return report.AttendanceReportResponse{}, fmt.Errorf("failed to get attendance report: %w", err)
	}

	responses := make([]report.AttendanceRowResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, s.toRowResponse(row))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return report.AttendanceReportResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Rows:       responses,
	}, nil
}

// exportRows loads every row matching filter, ignoring pagination.
func (s *ReportServiceImpl) exportRows(ctx context.Context, filter *report.AttendanceReportFilter) ([]report.AttendanceRow, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	q := filter.Query(s.loc)
	q.Limit = MaxExportRows
	q.Offset = 0

	rows, total, err := s.reportRepo.ListAttendance(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance rows: %w", err)
	}
	if total > MaxExportRows {
		return nil, report.ErrTooManyRows
	}
	return rows, nil
}

// ExportExcel implements report.ReportService.
func (s *ReportServiceImpl) ExportExcel(ctx context.Context, filter report.AttendanceReportFilter) (report.ExportFile, error) {
	rows, err := s.exportRows(ctx, &filter)
	if err != nil {
		return report.ExportFile{}, err
	}

	content, err := renderExcel(rows, s.loc)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}

	return report.ExportFile{
		Filename:    filter.Filename("xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}, nil
}

// ExportPDF implements report.ReportService.
func (s *ReportServiceImpl) ExportPDF(ctx context.Context, filter report.AttendanceReportFilter) (report.ExportFile, error) {
	rows, err := s.exportRows(ctx, &filter)
	if err != nil {
		return report.ExportFile{}, err
	}

	content, err := renderPDF(rows, filter.StartDate, filter.EndDate, s.loc)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}

	return report.ExportFile{
		Filename:    filter.Filename("pdf"),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}
