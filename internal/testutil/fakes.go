package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

// Transactor runs fn directly on ctx and counts calls. AfterCommit hooks run when fn succeeds.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.Calls++
	hookCtx, runHooks := database.WithAfterCommit(ctx)
	if err := fn(hookCtx); err != nil {
		return err
	}
	runHooks()
	return nil
}

// WindowStore is an in-memory shift.WindowRepository ordered by start then id.
type WindowStore struct {
	mu      sync.Mutex
	windows []shift.Window
	nextID  int
}

// NewWindowStore seeds the store; windows without an id get one.
func NewWindowStore(windows ...shift.Window) *WindowStore {
	s := &WindowStore{}
	for _, w := range windows {
		_, _ = s.Create(context.Background(), w)
	}
	return s
}

// Window builds an active window from "HH:MM[:SS]" bounds and panics on bad input.
func Window(punchType shift.PunchType, start, end string) shift.Window {
	s, err := shift.ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := shift.ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return shift.Window{Name: punchType.Description(), Start: s, End: e, PunchType: punchType, Active: true}
}

func (s *WindowStore) sorted(keep func(shift.Window) bool) []shift.Window {
	out := make([]shift.Window, 0, len(s.windows))
	for _, w := range s.windows {
		if keep(w) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *WindowStore) FindContaining(_ context.Context, t shift.TimeOfDay) ([]shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(w shift.Window) bool { return w.Active && w.Contains(t) }), nil
}

func (s *WindowStore) FindActiveByType(_ context.Context, punchType shift.PunchType) (shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := s.sorted(func(w shift.Window) bool { return w.Active && w.PunchType == punchType })
	if len(found) == 0 {
		return shift.Window{}, shift.ErrWindowNotFound
	}
	return found[0], nil
}

func (s *WindowStore) FindAllActiveOrderedByStart(_ context.Context) ([]shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(w shift.Window) bool { return w.Active }), nil
}

func (s *WindowStore) ExistsOverlapping(_ context.Context, punchType shift.PunchType, start, end shift.TimeOfDay, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.windows {
		if w.Active && w.PunchType == punchType && w.ID != excludeID && w.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *WindowStore) Create(_ context.Context, w shift.Window) (shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == "" {
		s.nextID++
		w.ID = fmt.Sprintf("w%03d", s.nextID)
	}
	s.windows = append(s.windows, w)
	return w, nil
}

func (s *WindowStore) index(id string) int {
	for i, w := range s.windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (s *WindowStore) Update(_ context.Context, w shift.Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(w.ID)
	if i < 0 {
		return shift.ErrWindowNotFound
	}
	s.windows[i] = w
	return nil
}

func (s *WindowStore) GetByID(_ context.Context, id string) (shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return shift.Window{}, shift.ErrWindowNotFound
	}
	return s.windows[i], nil
}

func (s *WindowStore) List(_ context.Context) ([]shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(shift.Window) bool { return true }), nil
}

func (s *WindowStore) ListActiveByType(_ context.Context, punchType shift.PunchType) ([]shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(w shift.Window) bool { return w.Active && w.PunchType == punchType }), nil
}

func (s *WindowStore) SearchByName(_ context.Context, name string) ([]shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = strings.ToLower(name)
	return s.sorted(func(w shift.Window) bool { return strings.Contains(strings.ToLower(w.Name), name) }), nil
}

func (s *WindowStore) FindWithin(_ context.Context, start, end shift.TimeOfDay) ([]shift.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(w shift.Window) bool { return w.Active && w.Start >= start && w.End <= end }), nil
}

func (s *WindowStore) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return shift.ErrWindowNotFound
	}
	s.windows[i].Active = active
	return nil
}

func (s *WindowStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return shift.ErrWindowNotFound
	}
	s.windows = append(s.windows[:i], s.windows[i+1:]...)
	return nil
}

func (s *WindowStore) CountActive(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.sorted(func(w shift.Window) bool { return w.Active }))), nil
}

func (s *WindowStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.windows)), nil
}

func (s *WindowStore) CountActiveTypes(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := map[shift.PunchType]struct{}{}
	for _, w := range s.windows {
		if w.Active {
			types[w.PunchType] = struct{}{}
		}
	}
	return len(types), nil
}
