package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `e.id, e.code, e.dni, e.first_names, e.last_names, e.job_title, e.area, e.active, e.created_at, e.updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Code, &emp.DNI, &emp.FirstNames, &emp.LastNames,
		&emp.JobTitle, &emp.Area, &emp.Active, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func (e *employeeRepositoryImpl) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (e *employeeRepositoryImpl) getOne(ctx context.Context, column, value string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`SELECT %s FROM employees e WHERE e.%s = $1`, employeeColumns, column)
	emp, err := scanEmployee(q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by %s: %w", column, err)
	}
	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, "id", id)
}

// GetByDNI implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByDNI(ctx context.Context, dni string) (employee.Employee, error) {
	return e.getOne(ctx, "dni", dni)
}

// GetByCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return e.getOne(ctx, "code", code)
}

// NextCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) NextCode(ctx context.Context) (string, error) {
	q := GetQuerier(ctx, e.db)

	var seq int64
	if err := q.QueryRow(ctx, `SELECT nextval('employee_code_seq')`).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to draw employee code: %w", err)
	}
	return employee.FormatCode(seq), nil
}

func mapEmployeeUniqueViolation(err error) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return nil
	}
	switch constraint {
	case "employees_code_key":
		return employee.ErrCodeExists
	case "employees_dni_key":
		return employee.ErrDNIExists
	}
	return nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if newEmployee.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		newEmployee.ID = id.String()
	}

	query := `
		INSERT INTO employees (id, code, dni, first_names, last_names, job_title, area, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.Code, newEmployee.DNI, newEmployee.FirstNames,
		newEmployee.LastNames, newEmployee.JobTitle, newEmployee.Area, newEmployee.Active,
	).Scan(&newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		if mapped := mapEmployeeUniqueViolation(err); mapped != nil {
			return employee.Employee{}, mapped
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return newEmployee, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET code = $2, dni = $3, first_names = $4, last_names = $5,
		    job_title = $6, area = $7, active = $8, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		emp.ID, emp.Code, emp.DNI, emp.FirstNames, emp.LastNames, emp.JobTitle, emp.Area, emp.Active,
	)
	if err != nil {
		if mapped := mapEmployeeUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update employee with id %s: %w", emp.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ExistsByDNI implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByDNI(ctx context.Context, dni string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT EXISTS (SELECT 1 FROM employees WHERE dni = $1 AND ($2 = '' OR id::text <> $2))`
	var exists bool
	if err := q.QueryRow(ctx, query, dni, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee dni: %w", err)
	}
	return exists, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.first_names ILIKE $%d OR e.last_names ILIKE $%d OR e.code ILIKE $%d OR e.dni ILIKE $%d)", argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Area != nil && *filter.Area != "" {
		conditions = append(conditions, fmt.Sprintf("e.area = $%d", argIdx))
		args = append(args, *filter.Area)
		argIdx++
	}
	if filter.JobTitle != nil && *filter.JobTitle != "" {
		conditions = append(conditions, fmt.Sprintf("e.job_title = $%d", argIdx))
		args = append(args, *filter.JobTitle)
		argIdx++
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("e.active = $%d", argIdx))
		args = append(args, *filter.Active)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees e WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	validSortColumns := map[string]string{
		"code":       "e.code",
		"last_names": "e.last_names",
		"area":       "e.area",
		"created_at": "e.created_at",
	}
	sortColumn, ok := validSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "e.code"
	}

	sortOrder := "ASC"
	if strings.ToUpper(filter.SortOrder) == "DESC" {
		sortOrder = "DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		WHERE %s
		ORDER BY %s %s, e.id ASC
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	employees, err := e.queryEmployees(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees e WHERE e.active = TRUE ORDER BY e.code ASC`, employeeColumns)
	employees, err := e.queryEmployees(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	return employees, nil
}

// SearchByName implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SearchByName(ctx context.Context, search string) ([]employee.Employee, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		WHERE e.active = TRUE
		  AND (e.first_names ILIKE $1 OR e.last_names ILIKE $1
		       OR (e.first_names || ' ' || e.last_names) ILIKE $1)
		ORDER BY e.last_names ASC, e.first_names ASC
	`, employeeColumns)
	employees, err := e.queryEmployees(ctx, query, "%"+search+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return employees, nil
}

// ListByArea implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByArea(ctx context.Context, area string) ([]employee.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees e WHERE e.active = TRUE AND e.area = $1 ORDER BY e.code ASC`, employeeColumns)
	employees, err := e.queryEmployees(ctx, query, area)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by area: %w", err)
	}
	return employees, nil
}

// ListByJobTitle implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByJobTitle(ctx context.Context, jobTitle string) ([]employee.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees e WHERE e.active = TRUE AND e.job_title = $1 ORDER BY e.code ASC`, employeeColumns)
	employees, err := e.queryEmployees(ctx, query, jobTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by job title: %w", err)
	}
	return employees, nil
}

// SetActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to set employee active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return employee.ErrHasPunchHistory
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// CountActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, e.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE active = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

// Count implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, e.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

// CountActiveByArea implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountActiveByArea(ctx context.Context) (map[string]int64, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `SELECT area, COUNT(*) FROM employees WHERE active = TRUE GROUP BY area ORDER BY area`)
	if err != nil {
		return nil, fmt.Errorf("failed to count employees by area: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			area  string
			count int64
		)
		if err := rows.Scan(&area, &count); err != nil {
			return nil, fmt.Errorf("failed to scan area count: %w", err)
		}
		counts[area] = count
	}
	return counts, rows.Err()
}
