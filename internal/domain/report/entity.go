package report

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

// AttendanceRow is a punch record joined with its employee.
type AttendanceRow struct {
	ID           string
	EmployeeID   string
	EmployeeCode string
	EmployeeName string
	DNI          string
	JobTitle     string
	Area         string
	PunchedAt    time.Time
	PunchType    shift.PunchType
	Status       shift.Status
	Note         *string
}

// AttendanceQuery is the resolved predicate over punch history.
type AttendanceQuery struct {
	From       time.Time
	To         time.Time // exclusive
	EmployeeID *string
	PunchType  *shift.PunchType

	// Limit <= 0 returns every matching row.
	Limit  int
	Offset int
}
