package employee

import (
	"context"
)

// EmployeeService defines business logic for employee administration
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee never changes the employee code
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	GetByDNI(ctx context.Context, dni string) (EmployeeResponse, error)
	GetByCode(ctx context.Context, code string) (EmployeeResponse, error)

	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	ListActive(ctx context.Context) ([]EmployeeResponse, error)
	Search(ctx context.Context, query string) ([]EmployeeResponse, error)
	ListByArea(ctx context.Context, area string) ([]EmployeeResponse, error)
	ListByJobTitle(ctx context.Context, jobTitle string) ([]EmployeeResponse, error)

	// DeleteEmployee soft deletes; punch history is kept
	DeleteEmployee(ctx context.Context, id string) error
	ReactivateEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	DeletePermanently(ctx context.Context, id string) error

	Stats(ctx context.Context) (EmployeeStats, error)
}
