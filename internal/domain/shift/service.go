package shift

import "context"

// Classifier maps a wall-clock time to a punch type and punctuality status.
type Classifier interface {
	ClassifyPunchType(ctx context.Context, t TimeOfDay) (PunchType, error)
	ClassifyStatus(ctx context.Context, t TimeOfDay, punchType PunchType) (Status, error)
	MinutesDeviation(ctx context.Context, t TimeOfDay, punchType PunchType) (int, error)

	// Classify runs the three steps above and builds the message.
	Classify(ctx context.Context, t TimeOfDay) (Classification, error)
}

// WindowService manages shift window configuration.
type WindowService interface {
	Create(ctx context.Context, req CreateWindowRequest) (WindowResponse, error)
	Update(ctx context.Context, req UpdateWindowRequest) (WindowResponse, error)
	Get(ctx context.Context, id string) (WindowResponse, error)
	List(ctx context.Context) ([]WindowResponse, error)
	ListActive(ctx context.Context) ([]WindowResponse, error)
	ListByType(ctx context.Context, punchType string) ([]WindowResponse, error)
	Search(ctx context.Context, name string) ([]WindowResponse, error)
	ListWithin(ctx context.Context, req RangeRequest) ([]WindowResponse, error)
	CheckOverlap(ctx context.Context, req OverlapCheckRequest) (OverlapCheckResponse, error)
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) (WindowResponse, error)
	DeletePermanently(ctx context.Context, id string) error
	Stats(ctx context.Context) (WindowStats, error)
	HasCompleteConfiguration(ctx context.Context) (bool, error)
}
