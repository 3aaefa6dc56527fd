// Package redis decorates repositories with a Redis read-through cache.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

// ActiveWindowsKey holds the JSON list of active windows ordered by start then id.
const ActiveWindowsKey = "timeclock:shift_windows:active"

type shiftWindowCache struct {
	shift.WindowRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewShiftWindowRepository serves classifier lookups from the cached active set.
// Every write through the returned repository drops the cached set after it commits.
func NewShiftWindowRepository(next shift.WindowRepository, c cache.Cache, ttl time.Duration) shift.WindowRepository {
	return &shiftWindowCache{WindowRepository: next, cache: c, ttl: ttl}
}

func (r *shiftWindowCache) activeWindows(ctx context.Context) ([]shift.Window, error) {
	raw, ok, err := r.cache.Get(ctx, ActiveWindowsKey)
	if err != nil {
		slog.Warn("shift window cache read failed", "error", err)
	}
	if ok {
		var windows []shift.Window
		if err := json.Unmarshal(raw, &windows); err == nil {
			return windows, nil
		}
		slog.Warn("discarding corrupt shift window cache entry")
	}

	windows, err := r.WindowRepository.FindAllActiveOrderedByStart(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(windows); err == nil {
		if err := r.cache.Set(ctx, ActiveWindowsKey, raw, r.ttl); err != nil {
			slog.Warn("shift window cache write failed", "error", err)
		}
	}
	return windows, nil
}

// invalidate drops the cached set after the enclosing transaction commits, so a read
// racing the write cannot re-cache the pre-write set.
func (r *shiftWindowCache) invalidate(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	database.AfterCommit(ctx, func() {
		if err := r.cache.Delete(ctx, ActiveWindowsKey); err != nil {
			slog.Warn("shift window cache invalidation failed", "error", err)
		}
	})
}

// FindContaining implements shift.Store.
func (r *shiftWindowCache) FindContaining(ctx context.Context, t shift.TimeOfDay) ([]shift.Window, error) {
	windows, err := r.activeWindows(ctx)
	if err != nil {
		return nil, err
	}
	containing := make([]shift.Window, 0, 1)
	for _, w := range windows {
		if w.Contains(t) {
			containing = append(containing, w)
		}
	}
	return containing, nil
}

// FindActiveByType implements shift.Store.
func (r *shiftWindowCache) FindActiveByType(ctx context.Context, punchType shift.PunchType) (shift.Window, error) {
	windows, err := r.activeWindows(ctx)
	if err != nil {
		return shift.Window{}, err
	}
	for _, w := range windows {
		if w.PunchType == punchType {
			return w, nil
		}
	}
	return shift.Window{}, shift.ErrWindowNotFound
}

// FindAllActiveOrderedByStart implements shift.Store.
func (r *shiftWindowCache) FindAllActiveOrderedByStart(ctx context.Context) ([]shift.Window, error) {
	return r.activeWindows(ctx)
}

func (r *shiftWindowCache) Create(ctx context.Context, w shift.Window) (shift.Window, error) {
	created, err := r.WindowRepository.Create(ctx, w)
	if err == nil {
		r.invalidate(ctx)
	}
	return created, err
}

func (r *shiftWindowCache) Update(ctx context.Context, w shift.Window) error {
	err := r.WindowRepository.Update(ctx, w)
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *shiftWindowCache) SetActive(ctx context.Context, id string, active bool) error {
	err := r.WindowRepository.SetActive(ctx, id, active)
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

func (r *shiftWindowCache) Delete(ctx context.Context, id string) error {
	err := r.WindowRepository.Delete(ctx, id)
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}
