package report

import "context"

type ReportRepository interface {
	// ListAttendance returns rows ordered by punch time, newest first, and the total match count.
	ListAttendance(ctx context.Context, q AttendanceQuery) ([]AttendanceRow, int64, error)
}
