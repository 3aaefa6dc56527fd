package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmployeeRepo struct {
	mock.Mock
	employee.EmployeeRepository
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) GetByDNI(ctx context.Context, dni string) (employee.Employee, error) {
	args := m.Called(ctx, dni)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) NextCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) Update(ctx context.Context, e employee.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEmployeeRepo) ExistsByDNI(ctx context.Context, dni, excludeID string) (bool, error) {
	args := m.Called(ctx, dni, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]employee.Employee), args.Get(1).(int64), args.Error(2)
}

func (m *mockEmployeeRepo) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEmployeeRepo) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEmployeeRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEmployeeRepo) CountActiveByArea(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

type mockPunchRepo struct {
	mock.Mock
	attendance.PunchRepository
}

func (m *mockPunchRepo) CountByEmployee(ctx context.Context, employeeID string) (int64, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(int64), args.Error(1)
}

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		DNI: "12345678", FirstNames: "Ana", LastNames: "Quispe", JobTitle: "Analyst", Area: "Finance",
	}
}

func TestCreateEmployee_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(mockEmployeeRepo)
	svc := NewEmployeeService(repo, new(mockPunchRepo))

	repo.On("ExistsByDNI", ctx, "12345678", "").Return(false, nil)
	repo.On("NextCode", ctx).Return("EMP001", nil)
	repo.On("Create", ctx, mock.MatchedBy(func(e employee.Employee) bool {
		return e.Code == "EMP001" && e.DNI == "12345678" && e.Active
	})).Return(employee.Employee{ID: "id-1", Code: "EMP001", DNI: "12345678", FirstNames: "Ana", LastNames: "Quispe", Active: true}, nil)

	got, err := svc.CreateEmployee(ctx, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "EMP001", got.Code)
	assert.Equal(t, "Ana Quispe", got.FullName)
	repo.AssertExpectations(t)
}

func TestCreateEmployee_RetriesOnCodeCollision(t *testing.T) {
	ctx := context.Background()
	repo := new(mockEmployeeRepo)
	svc := NewEmployeeService(repo, new(mockPunchRepo))

	repo.On("ExistsByDNI", ctx, "12345678", "").Return(false, nil)
	repo.On("NextCode", ctx).Return("EMP001", nil).Once()
	repo.On("NextCode", ctx).Return("EMP002", nil).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(e employee.Employee) bool { return e.Code == "EMP001" })).
		Return(employee.Employee{}, employee.ErrCodeExists)
	repo.On("Create", ctx, mock.MatchedBy(func(e employee.Employee) bool { return e.Code == "EMP002" })).
		Return(employee.Employee{ID: "id-2", Code: "EMP002"}, nil)

	got, err := svc.CreateEmployee(ctx, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "EMP002", got.Code)
}

func TestCreateEmployee_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	repo := new(mockEmployeeRepo)
	svc := NewEmployeeService(repo, new(mockPunchRepo))

	repo.On("ExistsByDNI", ctx, "12345678", "").Return(false, nil)
	repo.On("NextCode", ctx).Return("EMP001", nil)
	repo.On("Create", ctx, mock.Anything).Return(employee.Employee{}, employee.ErrCodeExists)

	_, err := svc.CreateEmployee(ctx, validCreateRequest())
	assert.ErrorIs(t, err, employee.ErrCodeGenerationFailed)
	repo.AssertNumberOfCalls(t, "Create", employee.MaxCodeAttempts)
}

func TestCreateEmployee_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate dni", func(t *testing.T) {
		repo := new(mockEmployeeRepo)
		repo.On("ExistsByDNI", ctx, "12345678", "").Return(true, nil)

		_, err := NewEmployeeService(repo, new(mockPunchRepo)).CreateEmployee(ctx, validCreateRequest())
		assert.ErrorIs(t, err, employee.ErrDNIExists)
		repo.AssertNotCalled(t, "NextCode", mock.Anything)
	})

	t.Run("invalid request", func(t *testing.T) {
		req := validCreateRequest()
		req.DNI = "1234"
		req.FirstNames = ""

		_, err := NewEmployeeService(new(mockEmployeeRepo), new(mockPunchRepo)).CreateEmployee(ctx, req)
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "dni")
		assert.Contains(t, verrs.ToMap(), "first_names")
	})
}

func TestUpdateEmployee(t *testing.T) {
	ctx := context.Background()
	existing := employee.Employee{ID: "id-1", Code: "EMP001", DNI: "12345678", FirstNames: "Ana", LastNames: "Quispe", JobTitle: "Analyst", Area: "Finance", Active: true}

	req := func() employee.UpdateEmployeeRequest {
		return employee.UpdateEmployeeRequest{
			ID: "id-1", DNI: "87654321", FirstNames: "Ana María", LastNames: "Quispe", JobTitle: "Lead", Area: "Finance",
		}
	}

	t.Run("code cannot change", func(t *testing.T) {
		repo := new(mockEmployeeRepo)
		repo.On("GetByID", ctx, "id-1").Return(existing, nil)

		r := req()
		other := "EMP999"
		r.Code = &other
		_, err := NewEmployeeService(repo, new(mockPunchRepo)).UpdateEmployee(ctx, r)
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "code cannot be changed", verrs.ToMap()["code"])
	})

	t.Run("dni taken by another employee", func(t *testing.T) {
		repo := new(mockEmployeeRepo)
		repo.On("GetByID", ctx, "id-1").Return(existing, nil)
		repo.On("ExistsByDNI", ctx, "87654321", "id-1").Return(true, nil)

		_, err := NewEmployeeService(repo, new(mockPunchRepo)).UpdateEmployee(ctx, req())
		assert.ErrorIs(t, err, employee.ErrDNIExists)
	})

	t.Run("updates fields and keeps code", func(t *testing.T) {
		repo := new(mockEmployeeRepo)
		updated := existing
		updated.DNI, updated.FirstNames, updated.JobTitle = "87654321", "Ana María", "Lead"

		repo.On("GetByID", ctx, "id-1").Return(existing, nil).Once()
		repo.On("ExistsByDNI", ctx, "87654321", "id-1").Return(false, nil)
		repo.On("Update", ctx, updated).Return(nil)
		repo.On("GetByID", ctx, "id-1").Return(updated, nil).Once()

		r := req()
		same := "EMP001"
		r.Code = &same
		got, err := NewEmployeeService(repo, new(mockPunchRepo)).UpdateEmployee(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, "EMP001", got.Code)
		assert.Equal(t, "Lead", got.JobTitle)
		repo.AssertExpectations(t)
	})
}

func TestListEmployees_Pagination(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		page, limit int
		total       int64
		wantPages   int
		wantShowing string
	}{
		{"first page", 1, 20, 45, 3, "1-20 of 45"},
		{"last page", 3, 20, 45, 3, "41-45 of 45"},
		{"empty", 1, 20, 0, 0, "0 of 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockEmployeeRepo)
			repo.On("List", ctx, mock.Anything).Return([]employee.Employee{}, tt.total, nil)

			got, err := NewEmployeeService(repo, new(mockPunchRepo)).ListEmployees(ctx, employee.EmployeeFilter{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.wantShowing, got.Showing)
			assert.NotNil(t, got.Employees)
		})
	}
}

func TestDeleteAndReactivate(t *testing.T) {
	ctx := context.Background()
	active := employee.Employee{ID: "id-1", Active: true}
	inactive := employee.Employee{ID: "id-1", Active: false}

	repo := new(mockEmployeeRepo)
	repo.On("GetByID", ctx, "id-1").Return(active, nil).Once()
	repo.On("SetActive", ctx, "id-1", false).Return(nil)
	svc := NewEmployeeService(repo, new(mockPunchRepo))
	require.NoError(t, svc.DeleteEmployee(ctx, "id-1"))

	repo.On("GetByID", ctx, "id-1").Return(inactive, nil).Once()
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, "id-1"), employee.ErrEmployeeAlreadyInactive)

	repo.On("GetByID", ctx, "id-1").Return(inactive, nil).Once()
	repo.On("SetActive", ctx, "id-1", true).Return(nil)
	got, err := svc.ReactivateEmployee(ctx, "id-1")
	require.NoError(t, err)
	assert.True(t, got.Active)

	repo.On("GetByID", ctx, "id-1").Return(active, nil).Once()
	_, err = svc.ReactivateEmployee(ctx, "id-1")
	assert.ErrorIs(t, err, employee.ErrEmployeeAlreadyActive)
}

func TestDeletePermanently(t *testing.T) {
	ctx := context.Background()

	t.Run("refused with punch history", func(t *testing.T) {
		repo, punches := new(mockEmployeeRepo), new(mockPunchRepo)
		repo.On("GetByID", ctx, "id-1").Return(employee.Employee{ID: "id-1"}, nil)
		punches.On("CountByEmployee", ctx, "id-1").Return(int64(3), nil)

		err := NewEmployeeService(repo, punches).DeletePermanently(ctx, "id-1")
		assert.ErrorIs(t, err, employee.ErrHasPunchHistory)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deleted without history", func(t *testing.T) {
		repo, punches := new(mockEmployeeRepo), new(mockPunchRepo)
		repo.On("GetByID", ctx, "id-1").Return(employee.Employee{ID: "id-1"}, nil)
		punches.On("CountByEmployee", ctx, "id-1").Return(int64(0), nil)
		repo.On("Delete", ctx, "id-1").Return(nil)

		require.NoError(t, NewEmployeeService(repo, punches).DeletePermanently(ctx, "id-1"))
		repo.AssertExpectations(t)
	})

	t.Run("unknown employee", func(t *testing.T) {
		repo := new(mockEmployeeRepo)
		repo.On("GetByID", ctx, "nope").Return(employee.Employee{}, employee.ErrEmployeeNotFound)

		err := NewEmployeeService(repo, new(mockPunchRepo)).DeletePermanently(ctx, "nope")
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestStats(t *testing.T) {
	repo := new(mockEmployeeRepo)
	repo.On("CountActive", mock.Anything).Return(int64(7), nil)
	repo.On("Count", mock.Anything).Return(int64(10), nil)
	repo.On("CountActiveByArea", mock.Anything).Return(map[string]int64{"Finance": 4, "Operations": 3}, nil)

	got, err := NewEmployeeService(repo, new(mockPunchRepo)).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, employee.EmployeeStats{
		TotalActive: 7, TotalInactive: 3, Total: 10,
		ActiveByArea: map[string]int64{"Finance": 4, "Operations": 3},
	}, got)

	failing := new(mockEmployeeRepo)
	failing.On("CountActive", mock.Anything).Return(int64(0), errors.New("timeout"))
	failing.On("Count", mock.Anything).Return(int64(0), nil)
	failing.On("CountActiveByArea", mock.Anything).Return(map[string]int64{}, nil)
	_, err = NewEmployeeService(failing, new(mockPunchRepo)).Stats(context.Background())
	assert.EqualError(t, err, "timeout")
}
