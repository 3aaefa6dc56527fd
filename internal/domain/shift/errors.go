package shift

import "errors"

var (
	ErrWindowNotFound   = errors.New("shift window not found")
	ErrWindowOverlap    = errors.New("shift window overlaps an active window of the same punch type")
	ErrInvalidRange     = errors.New("start time must not be after end time")
	ErrInvalidPunchType = errors.New("invalid punch type")
)
