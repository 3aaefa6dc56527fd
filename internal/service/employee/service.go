package employee

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	punchRepo    attendance.PunchRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, punchRepo attendance.PunchRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		punchRepo:    punchRepo,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByDNI(ctx, req.DNI, "")
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrDNIExists
	}

	newEmployee := employee.Employee{
		DNI:        req.DNI,
		FirstNames: req.FirstNames,
		LastNames:  req.LastNames,
		JobTitle:   req.JobTitle,
		Area:       req.Area,
		Active:     true,
	}

	// Codes come from a sequence; a collision only happens when a code was set by hand.
	for attempt := 0; attempt < employee.MaxCodeAttempts; attempt++ {
		code, err := s.employeeRepo.NextCode(ctx)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		newEmployee.Code = code

		created, err := s.employeeRepo.Create(ctx, newEmployee)
		if errors.Is(err, employee.ErrCodeExists) {
			continue
		}
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		return employee.NewEmployeeResponse(created), nil
	}

	return employee.EmployeeResponse{}, employee.ErrCodeGenerationFailed
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Code != nil && strings.TrimSpace(*req.Code) != existing.Code {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{
			Field:   "code",
			Message: "code cannot be changed",
		}}
	}

	if req.DNI != existing.DNI {
		exists, err := s.employeeRepo.ExistsByDNI(ctx, req.DNI, existing.ID)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrDNIExists
		}
	}

	existing.DNI = req.DNI
	existing.FirstNames = req.FirstNames
	existing.LastNames = req.LastNames
	existing.JobTitle = req.JobTitle
	existing.Area = req.Area
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if err := s.employeeRepo.Update(ctx, existing); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, existing.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// GetByDNI implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByDNI(ctx context.Context, dni string) (employee.EmployeeResponse, error) {
	dni = strings.TrimSpace(dni)
	if !validator.IsValidDNI(dni) {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{
			Field:   "dni",
			Message: "dni must be exactly 8 digits",
		}}
	}
	emp, err := s.employeeRepo.GetByDNI(ctx, dni)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// GetByCode implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByCode(ctx context.Context, code string) (employee.EmployeeResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !validator.IsValidEmployeeCode(code) {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{
			Field:   "code",
			Message: "code must look like EMP001",
		}}
	}
	emp, err := s.employeeRepo.GetByCode(ctx, code)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

func toResponses(employees []employee.Employee) []employee.EmployeeResponse {
	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return responses
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Employees:  toResponses(employees),
	}, nil
}

// ListActive implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListActive(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(employees), nil
}

// Search implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Search(ctx context.Context, query string) ([]employee.EmployeeResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []employee.EmployeeResponse{}, nil
	}
	employees, err := s.employeeRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}
	return toResponses(employees), nil
}

// ListByArea implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListByArea(ctx context.Context, area string) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListByArea(ctx, strings.TrimSpace(area))
	if err != nil {
		return nil, err
	}
	return toResponses(employees), nil
}

// ListByJobTitle implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListByJobTitle(ctx context.Context, jobTitle string) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListByJobTitle(ctx, strings.TrimSpace(jobTitle))
	if err != nil {
		return nil, err
	}
	return toResponses(employees), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !emp.Active {
		return employee.ErrEmployeeAlreadyInactive
	}
	return s.employeeRepo.SetActive(ctx, id, false)
}

// ReactivateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ReactivateEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if emp.Active {
		return employee.EmployeeResponse{}, employee.ErrEmployeeAlreadyActive
	}
	if err := s.employeeRepo.SetActive(ctx, id, true); err != nil {
		return employee.EmployeeResponse{}, err
	}
	emp.Active = true
	return employee.NewEmployeeResponse(emp), nil
}

// DeletePermanently implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeletePermanently(ctx context.Context, id string) error {
	if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
		return err
	}
	punches, err := s.punchRepo.CountByEmployee(ctx, id)
	if err != nil {
		return err
	}
	if punches > 0 {
		return employee.ErrHasPunchHistory
	}
	return s.employeeRepo.Delete(ctx, id)
}

// Stats implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Stats(ctx context.Context) (employee.EmployeeStats, error) {
	var (
		active, total int64
		byArea        map[string]int64
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = s.employeeRepo.CountActive(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.employeeRepo.Count(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		byArea, err = s.employeeRepo.CountActiveByArea(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return employee.EmployeeStats{}, err
	}

	return employee.EmployeeStats{
		TotalActive:   active,
		TotalInactive: total - active,
		Total:         total,
		ActiveByArea:  byArea,
	}, nil
}
