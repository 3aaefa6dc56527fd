package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByDNI ignores the active flag so that history stays reachable.
	GetByDNI(ctx context.Context, dni string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)

	// NextCode draws the next value of the employee code sequence.
	NextCode(ctx context.Context) (string, error)

	// Create returns ErrCodeExists or ErrDNIExists on unique violations.
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, e Employee) error
	ExistsByDNI(ctx context.Context, dni string, excludeID string) (bool, error)

	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ListActive(ctx context.Context) ([]Employee, error)
	SearchByName(ctx context.Context, query string) ([]Employee, error)
	ListByArea(ctx context.Context, area string) ([]Employee, error)
	ListByJobTitle(ctx context.Context, jobTitle string) ([]Employee, error)

	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error

	CountActive(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountActiveByArea(ctx context.Context) (map[string]int64, error)
}
