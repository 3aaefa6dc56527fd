package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE REPORT
// ========================================

type AttendanceReportFilter struct {
	StartDate  string  `json:"start_date"` // YYYY-MM-DD
	EndDate    string  `json:"end_date"`   // YYYY-MM-DD
	EmployeeID *string `json:"employee_id,omitempty"`
	// PunchType narrows the report; unknown values are ignored.
	PunchType *string `json:"punch_type,omitempty"`

	// Pagination
	Page  int `json:"-"`
	Limit int `json:"-"`
}

func (f *AttendanceReportFilter) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if f.EmployeeID != nil && *f.EmployeeID != "" && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Query resolves the filter in loc: from 00:00 of the start date up to, not including,
// 00:00 of the day after the end date. Call Validate first.
func (f AttendanceReportFilter) Query(loc *time.Location) AttendanceQuery {
	start, _ := time.ParseInLocation("2006-01-02", f.StartDate, loc)
	end, _ := time.ParseInLocation("2006-01-02", f.EndDate, loc)

	q := AttendanceQuery{
		From:   start,
		To:     time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, loc),
		Limit:  f.Limit,
		Offset: (f.Page - 1) * f.Limit,
	}
	if f.EmployeeID != nil && *f.EmployeeID != "" {
		q.EmployeeID = f.EmployeeID
	}
	if f.PunchType != nil {
		if p, ok := shift.ParsePunchType(*f.PunchType); ok {
			q.PunchType = &p
		}
	}
	return q
}

// Filename builds the download name for an export, e.g. attendance_report_2024-01-01_2024-01-31.xlsx.
func (f AttendanceReportFilter) Filename(ext string) string {
	return fmt.Sprintf("attendance_report_%s_%s.%s", f.StartDate, f.EndDate, ext)
}

type AttendanceRowResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeCode   string  `json:"employee_code"`
	EmployeeName   string  `json:"employee_name"`
	DNI            string  `json:"dni"`
	JobTitle       string  `json:"job_title"`
	Area           string  `json:"area"`
	PunchedAt      string  `json:"punched_at"`
	PunchType      string  `json:"punch_type"`
	PunchTypeLabel string  `json:"punch_type_label"`
	Status         string  `json:"status"`
	StatusLabel    string  `json:"status_label"`
	Note           *string `json:"note,omitempty"`
}

type AttendanceReportResponse struct {
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
	Showing    string                  `json:"showing"`
	Rows       []AttendanceRowResponse `json:"rows"`
}

// ExportFile is a rendered report ready to be streamed as a download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
