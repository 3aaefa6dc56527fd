package shift

import (
	"fmt"
	"strings"
	"time"
)

// PunchType is the slot of the working day a punch belongs to.
type PunchType string

const (
	PunchTypeEntry       PunchType = "ENTRY"
	PunchTypeLunchOut    PunchType = "LUNCH_OUT"
	PunchTypeLunchIn     PunchType = "LUNCH_IN"
	PunchTypeExit        PunchType = "EXIT"
	PunchTypeOutOfWindow PunchType = "OUT_OF_WINDOW"
)

// WindowTypes are the punch types a shift window can be configured for.
var WindowTypes = []PunchType{PunchTypeEntry, PunchTypeLunchOut, PunchTypeLunchIn, PunchTypeExit}

func (p PunchType) Description() string {
	switch p {
	case PunchTypeEntry:
		return "Entry"
	case PunchTypeLunchOut:
		return "Lunch out"
	case PunchTypeLunchIn:
		return "Lunch return"
	case PunchTypeExit:
		return "Exit"
	case PunchTypeOutOfWindow:
		return "Out of window"
	default:
		return string(p)
	}
}

// IsWindowType reports whether p can own a shift window.
func (p PunchType) IsWindowType() bool {
	for _, t := range WindowTypes {
		if p == t {
			return true
		}
	}
	return false
}

// ParsePunchType accepts any known punch type, case-insensitively.
func ParsePunchType(s string) (PunchType, bool) {
	p := PunchType(strings.ToUpper(strings.TrimSpace(s)))
	if p.IsWindowType() || p == PunchTypeOutOfWindow {
		return p, true
	}
	return "", false
}

// Status is the punctuality verdict of a punch.
type Status string

const (
	StatusOnTime      Status = "ON_TIME"
	StatusLate        Status = "LATE"
	StatusOutOfWindow Status = "OUT_OF_WINDOW"
)

func (s Status) Description() string {
	switch s {
	case StatusOnTime:
		return "On time"
	case StatusLate:
		return "Late"
	case StatusOutOfWindow:
		return "Out of window"
	default:
		return string(s)
	}
}

// TimeOfDay is a wall-clock time as seconds since midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayOf drops the date and sub-second part of t, in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay parses "15:04" or "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q: expected HH:MM or HH:MM:SS", s)
}

func (t TimeOfDay) Seconds() int {
	return int(t)
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < secondsPerDay
}

func (t TimeOfDay) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// Window is a configured time range for one punch type.
type Window struct {
	ID        string
	Name      string
	Start     TimeOfDay
	End       TimeOfDay
	PunchType PunchType
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contains reports whether t falls in [Start, End].
func (w Window) Contains(t TimeOfDay) bool {
	return w.Start <= t && t <= w.End
}

// Midpoint is the middle of the window in seconds since midnight, rounded down.
func (w Window) Midpoint() int {
	return (w.Start.Seconds() + w.End.Seconds()) / 2
}

// DistanceFrom is the absolute distance in seconds between t and the window midpoint.
func (w Window) DistanceFrom(t TimeOfDay) int {
	d := t.Seconds() - w.Midpoint()
	if d < 0 {
		return -d
	}
	return d
}

// Overlaps reports whether [start, end] intersects the window, bounds included.
func (w Window) Overlaps(start, end TimeOfDay) bool {
	return w.Start <= end && w.End >= start
}

// DeviationSeconds is how far t lies outside the window; 0 when inside.
func (w Window) DeviationSeconds(t TimeOfDay) int {
	switch {
	case t < w.Start:
		return w.Start.Seconds() - t.Seconds()
	case t > w.End:
		return t.Seconds() - w.End.Seconds()
	default:
		return 0
	}
}

// MaxNearestDistance bounds the midpoint distance at which a punch outside every
// window is still attributed to the nearest one.
const MaxNearestDistance = 2 * time.Hour

// Nearest returns the window whose midpoint is closest to t. Windows are expected in
// start order; on equal distance the earlier one is kept.
func Nearest(windows []Window, t TimeOfDay) (Window, int, bool) {
	var (
		best     Window
		bestDist int
		found    bool
	)
	for _, w := range windows {
		d := w.DistanceFrom(t)
		if !found || d < bestDist {
			best, bestDist, found = w, d, true
		}
	}
	return best, bestDist, found
}

// WithinNearestTolerance reports whether a midpoint distance in seconds is close enough.
func WithinNearestTolerance(distanceSeconds int) bool {
	return distanceSeconds <= int(MaxNearestDistance/time.Second)
}
