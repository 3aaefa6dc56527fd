package shift

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"golang.org/x/sync/errgroup"
)

type WindowServiceImpl struct {
	repo shift.WindowRepository
	tx   database.Transactor
}

func NewWindowService(repo shift.WindowRepository, tx database.Transactor) shift.WindowService {
	return &WindowServiceImpl{repo: repo, tx: tx}
}

// parsed returns the window described by already validated fields.
func parsed(name, startTime, endTime, punchType string, active *bool) shift.Window {
	start, _ := shift.ParseTimeOfDay(startTime)
	end, _ := shift.ParseTimeOfDay(endTime)
	pt, _ := shift.ParsePunchType(punchType)

	w := shift.Window{
		Name:      strings.TrimSpace(name),
		Start:     start,
		End:       end,
		PunchType: pt,
		Active:    true,
	}
	if active != nil {
		w.Active = *active
	}
	return w
}

func (s *WindowServiceImpl) ensureNoOverlap(ctx context.Context, w shift.Window) error {
	if !w.Active {
		return nil
	}
	overlaps, err := s.repo.ExistsOverlapping(ctx, w.PunchType, w.Start, w.End, w.ID)
	if err != nil {
		return err
	}
	if overlaps {
		return shift.ErrWindowOverlap
	}
	return nil
}

// Create implements shift.WindowService.
func (s *WindowServiceImpl) Create(ctx context.Context, req shift.CreateWindowRequest) (shift.WindowResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.WindowResponse{}, err
	}

	w := parsed(req.Name, req.StartTime, req.EndTime, req.PunchType, req.Active)

	var created shift.Window
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureNoOverlap(txCtx, w); err != nil {
			return err
		}
		var err error
		created, err = s.repo.Create(txCtx, w)
		return err
	})
	if err != nil {
		return shift.WindowResponse{}, err
	}
	return shift.NewWindowResponse(created), nil
}

// Update implements shift.WindowService.
func (s *WindowServiceImpl) Update(ctx context.Context, req shift.UpdateWindowRequest) (shift.WindowResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.WindowResponse{}, err
	}

	var updated shift.Window
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		active := existing.Active
		if req.Active != nil {
			active = *req.Active
		}
		w := parsed(req.Name, req.StartTime, req.EndTime, req.PunchType, &active)
		w.ID = existing.ID
		w.CreatedAt = existing.CreatedAt

		if err := s.ensureNoOverlap(txCtx, w); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, w); err != nil {
			return err
		}
		updated, err = s.repo.GetByID(txCtx, w.ID)
		return err
	})
	if err != nil {
		return shift.WindowResponse{}, err
	}
	return shift.NewWindowResponse(updated), nil
}

// Get implements shift.WindowService.
func (s *WindowServiceImpl) Get(ctx context.Context, id string) (shift.WindowResponse, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return shift.WindowResponse{}, err
	}
	return shift.NewWindowResponse(w), nil
}

func toResponses(windows []shift.Window) []shift.WindowResponse {
	responses := make([]shift.WindowResponse, 0, len(windows))
	for _, w := range windows {
		responses = append(responses, shift.NewWindowResponse(w))
	}
	return responses
}

// List implements shift.WindowService.
func (s *WindowServiceImpl) List(ctx context.Context) ([]shift.WindowResponse, error) {
	windows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(windows), nil
}

// ListActive implements shift.WindowService.
func (s *WindowServiceImpl) ListActive(ctx context.Context) ([]shift.WindowResponse, error) {
	windows, err := s.repo.FindAllActiveOrderedByStart(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(windows), nil
}

// ListByType implements shift.WindowService.
func (s *WindowServiceImpl) ListByType(ctx context.Context, punchType string) ([]shift.WindowResponse, error) {
	pt, ok := shift.ParsePunchType(punchType)
	if !ok || !pt.IsWindowType() {
		return nil, shift.ErrInvalidPunchType
	}
	windows, err := s.repo.ListActiveByType(ctx, pt)
	if err != nil {
		return nil, err
	}
	return toResponses(windows), nil
}

// Search implements shift.WindowService.
func (s *WindowServiceImpl) Search(ctx context.Context, name string) ([]shift.WindowResponse, error) {
	windows, err := s.repo.SearchByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return toResponses(windows), nil
}

// ListWithin implements shift.WindowService.
func (s *WindowServiceImpl) ListWithin(ctx context.Context, req shift.RangeRequest) ([]shift.WindowResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, _ := shift.ParseTimeOfDay(req.Start)
	end, _ := shift.ParseTimeOfDay(req.End)

	windows, err := s.repo.FindWithin(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toResponses(windows), nil
}

// CheckOverlap implements shift.WindowService.
func (s *WindowServiceImpl) CheckOverlap(ctx context.Context, req shift.OverlapCheckRequest) (shift.OverlapCheckResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.OverlapCheckResponse{}, err
	}
	w := parsed("", req.StartTime, req.EndTime, req.PunchType, nil)

	excludeID := ""
	if req.ExcludeID != nil {
		excludeID = *req.ExcludeID
	}
	overlaps, err := s.repo.ExistsOverlapping(ctx, w.PunchType, w.Start, w.End, excludeID)
	if err != nil {
		return shift.OverlapCheckResponse{}, err
	}
	return shift.OverlapCheckResponse{Overlaps: overlaps}, nil
}

// Deactivate implements shift.WindowService.
func (s *WindowServiceImpl) Deactivate(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, false)
}

// Reactivate implements shift.WindowService.
func (s *WindowServiceImpl) Reactivate(ctx context.Context, id string) (shift.WindowResponse, error) {
	var reactivated shift.Window
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		w, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !w.Active {
			w.Active = true
			if err := s.ensureNoOverlap(txCtx, w); err != nil {
				return err
			}
			if err := s.repo.SetActive(txCtx, id, true); err != nil {
				return err
			}
		}
		reactivated = w
		return nil
	})
	if err != nil {
		return shift.WindowResponse{}, err
	}
	return shift.NewWindowResponse(reactivated), nil
}

// DeletePermanently implements shift.WindowService.
func (s *WindowServiceImpl) DeletePermanently(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Stats implements shift.WindowService.
func (s *WindowServiceImpl) Stats(ctx context.Context) (shift.WindowStats, error) {
	var (
		active, total int64
		types         int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = s.repo.CountActive(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		types, err = s.repo.CountActiveTypes(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return shift.WindowStats{}, err
	}

	return shift.WindowStats{
		TotalActive:   active,
		TotalInactive: total - active,
		Total:         total,
		Complete:      types == len(shift.WindowTypes),
	}, nil
}

// HasCompleteConfiguration implements shift.WindowService.
func (s *WindowServiceImpl) HasCompleteConfiguration(ctx context.Context) (bool, error) {
	types, err := s.repo.CountActiveTypes(ctx)
	if err != nil {
		return false, err
	}
	return types == len(shift.WindowTypes), nil
}
