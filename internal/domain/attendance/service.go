package attendance

import (
	"context"
)

// AttendanceService registers punches.
type AttendanceService interface {
	// Record punches the employee identified by the DNI in req at the current time.
	Record(ctx context.Context, req PunchRequest) (PunchResult, error)
}
