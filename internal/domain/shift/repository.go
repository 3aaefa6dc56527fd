package shift

import "context"

// Store is the read surface the classifier works against. Only active windows are returned.
type Store interface {
	// FindContaining returns active windows with Start <= t <= End, ordered by start then id.
	FindContaining(ctx context.Context, t TimeOfDay) ([]Window, error)

	// FindActiveByType returns the earliest active window of punchType or ErrWindowNotFound.
	FindActiveByType(ctx context.Context, punchType PunchType) (Window, error)

	FindAllActiveOrderedByStart(ctx context.Context) ([]Window, error)

	// ExistsOverlapping ignores the window with excludeID (pass "" on create).
	ExistsOverlapping(ctx context.Context, punchType PunchType, start, end TimeOfDay, excludeID string) (bool, error)
}

// WindowRepository adds the administrative write and listing operations.
type WindowRepository interface {
	Store

	Create(ctx context.Context, window Window) (Window, error)
	Update(ctx context.Context, window Window) error
	GetByID(ctx context.Context, id string) (Window, error)

	// List returns every window, active or not, ordered by start time.
	List(ctx context.Context) ([]Window, error)
	ListActiveByType(ctx context.Context, punchType PunchType) ([]Window, error)
	SearchByName(ctx context.Context, name string) ([]Window, error)

	// FindWithin returns active windows lying entirely inside [start, end].
	FindWithin(ctx context.Context, start, end TimeOfDay) ([]Window, error)

	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error

	CountActive(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	// CountActiveTypes counts distinct punch types having at least one active window.
	CountActiveTypes(ctx context.Context) (int, error)
}
