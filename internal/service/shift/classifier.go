package shift

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
)

type ClassifierImpl struct {
	store shift.Store
}

func NewClassifier(store shift.Store) shift.Classifier {
	return &ClassifierImpl{store: store}
}

// ClassifyPunchType implements shift.Classifier.
func (c *ClassifierImpl) ClassifyPunchType(ctx context.Context, t shift.TimeOfDay) (shift.PunchType, error) {
	containing, err := c.store.FindContaining(ctx, t)
	if err != nil {
		return "", fmt.Errorf("failed to classify punch type: %w", err)
	}
	// Store order is start then id, so the earliest window wins on cross-type overlap.
	if len(containing) > 0 {
		return containing[0].PunchType, nil
	}

	active, err := c.store.FindAllActiveOrderedByStart(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to classify punch type: %w", err)
	}
	nearest, distance, ok := shift.Nearest(active, t)
	if !ok || !shift.WithinNearestTolerance(distance) {
		return shift.PunchTypeOutOfWindow, nil
	}
	return nearest.PunchType, nil
}

// activeWindow returns ok=false when punchType has no active window.
func (c *ClassifierImpl) activeWindow(ctx context.Context, punchType shift.PunchType) (shift.Window, bool, error) {
	if !punchType.IsWindowType() {
		return shift.Window{}, false, nil
	}
	w, err := c.store.FindActiveByType(ctx, punchType)
	if err != nil {
		if errors.Is(err, shift.ErrWindowNotFound) {
			return shift.Window{}, false, nil
		}
		return shift.Window{}, false, fmt.Errorf("failed to get %s window: %w", punchType, err)
	}
	return w, true, nil
}

func statusFor(w shift.Window, ok bool, t shift.TimeOfDay) shift.Status {
	switch {
	case !ok:
		return shift.StatusOutOfWindow
	case w.Contains(t):
		return shift.StatusOnTime
	default:
		// Early punches attributed by nearest match are reported as LATE too.
		return shift.StatusLate
	}
}

func minutesFor(w shift.Window, ok bool, t shift.TimeOfDay) int {
	if !ok {
		return 0
	}
	return w.DeviationSeconds(t) / 60
}

// ClassifyStatus implements shift.Classifier.
func (c *ClassifierImpl) ClassifyStatus(ctx context.Context, t shift.TimeOfDay, punchType shift.PunchType) (shift.Status, error) {
	w, ok, err := c.activeWindow(ctx, punchType)
	if err != nil {
		return "", err
	}
	return statusFor(w, ok, t), nil
}

// MinutesDeviation implements shift.Classifier.
func (c *ClassifierImpl) MinutesDeviation(ctx context.Context, t shift.TimeOfDay, punchType shift.PunchType) (int, error) {
	w, ok, err := c.activeWindow(ctx, punchType)
	if err != nil {
		return 0, err
	}
	return minutesFor(w, ok, t), nil
}

// Classify implements shift.Classifier.
func (c *ClassifierImpl) Classify(ctx context.Context, t shift.TimeOfDay) (shift.Classification, error) {
	punchType, err := c.ClassifyPunchType(ctx, t)
	if err != nil {
		return shift.Classification{}, err
	}

	w, ok, err := c.activeWindow(ctx, punchType)
	if err != nil {
		return shift.Classification{}, err
	}
	status := statusFor(w, ok, t)
	minutes := minutesFor(w, ok, t)

	return shift.Classification{
		PunchType:        punchType,
		Status:           status,
		MinutesDeviation: minutes,
		Message:          shift.BuildMessage(t, punchType, status, minutes),
	}, nil
}
