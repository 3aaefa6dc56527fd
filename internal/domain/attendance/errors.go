package attendance

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

var (
	ErrDuplicatePunch = errors.New("a punch of the same type was already registered moments ago")
	ErrPunchNotFound  = errors.New("punch record not found")
)

// DuplicatePunchError carries the rejected punch. It matches ErrDuplicatePunch with errors.Is.
type DuplicatePunchError struct {
	DNI       string
	PunchType shift.PunchType
}

func (e *DuplicatePunchError) Error() string {
	return fmt.Sprintf("%s already registered for DNI %s within the last %d minutes",
		e.PunchType.Description(), e.DNI, int(DuplicateBand.Minutes()))
}

func (e *DuplicatePunchError) Is(target error) bool {
	return target == ErrDuplicatePunch
}
