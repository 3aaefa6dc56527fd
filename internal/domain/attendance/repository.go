package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

// PunchRepository persists punch history.
type PunchRepository interface {
	Create(ctx context.Context, record PunchRecord) (PunchRecord, error)
	GetByID(ctx context.Context, id string) (PunchRecord, error)

	// ExistsInBand reports whether the employee has a punch of punchType with
	// from <= punched_at <= to.
	ExistsInBand(ctx context.Context, employeeID string, punchType shift.PunchType, from, to time.Time) (bool, error)

	// LockEmployee serialises punch registration for one employee until the
	// surrounding transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error

	CountByEmployee(ctx context.Context, employeeID string) (int64, error)
}
