package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

// PunchRecord is one time-clock event of an employee.
type PunchRecord struct {
	ID         string
	EmployeeID string
	PunchedAt  time.Time
	PunchType  shift.PunchType
	Status     shift.Status
	Note       *string
	CreatedAt  time.Time
}

// DuplicateBand is the half-width of the window in which a second punch of the
// same type is rejected.
const DuplicateBand = 5 * time.Minute
