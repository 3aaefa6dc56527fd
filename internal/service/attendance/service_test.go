package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	shiftservice "github.com/cmlabs-hris/timeclock-backend-go/internal/service/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var lima = time.FixedZone("PET", -5*60*60)

type employeeRepoMock struct {
	mock.Mock
	employee.EmployeeRepository
}

func (m *employeeRepoMock) GetByDNI(ctx context.Context, dni string) (employee.Employee, error) {
	args := m.Called(ctx, dni)
	return args.Get(0).(employee.Employee), args.Error(1)
}

type punchStore struct {
	mu      sync.Mutex
	records []attendance.PunchRecord
	locks   []string
	failOn  string
}

func (p *punchStore) Create(_ context.Context, r attendance.PunchRecord) (attendance.PunchRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOn == "create" {
		return attendance.PunchRecord{}, errors.New("disk full")
	}
	r.ID = fmt.Sprintf("p%03d", len(p.records)+1)
	p.records = append(p.records, r)
	return r, nil
}

func (p *punchStore) GetByID(_ context.Context, id string) (attendance.PunchRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.records {
		if r.ID == id {
			return r, nil
		}
	}
	return attendance.PunchRecord{}, attendance.ErrPunchNotFound
}

func (p *punchStore) ExistsInBand(_ context.Context, employeeID string, pt shift.PunchType, from, to time.Time) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.records {
		if r.EmployeeID == employeeID && r.PunchType == pt && !r.PunchedAt.Before(from) && !r.PunchedAt.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (p *punchStore) LockEmployee(_ context.Context, employeeID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locks = append(p.locks, employeeID)
	return nil
}

func (p *punchStore) CountByEmployee(_ context.Context, employeeID string) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var n int64
	for _, r := range p.records {
		if r.EmployeeID == employeeID {
			n++
		}
	}
	return n, nil
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func onDay(hhmm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", "2025-03-10 "+hhmm, lima)
	if err != nil {
		panic(err)
	}
	return t
}

var ana = employee.Employee{
	ID: "emp-1", Code: "EMP001", DNI: "12345678", FirstNames: "Ana", LastNames: "Quispe", Active: true,
}

type fixture struct {
	svc       attendance.AttendanceService
	employees *employeeRepoMock
	punches   *punchStore
	tx        *testutil.Transactor
	clock     *clock
}

func newFixture(windows ...shift.Window) *fixture {
	f := &fixture{
		employees: new(employeeRepoMock),
		punches:   &punchStore{},
		tx:        &testutil.Transactor{},
		clock:     &clock{},
	}
	f.employees.On("GetByDNI", mock.Anything, ana.DNI).Return(ana, nil)
	f.employees.On("GetByDNI", mock.Anything, mock.Anything).Return(employee.Employee{}, employee.ErrEmployeeNotFound)

	classifier := shiftservice.NewClassifier(testutil.NewWindowStore(windows...))
	f.svc = NewAttendanceService(f.employees, f.punches, classifier, f.tx, lima, f.clock.now)
	return f
}

func entryWindow() shift.Window {
	return testutil.Window(shift.PunchTypeEntry, "07:50", "08:20")
}

func TestRecord_OnTime(t *testing.T) {
	f := newFixture(entryWindow())
	f.clock.t = onDay("08:05:00")

	got, err := f.svc.Record(context.Background(), attendance.PunchRequest{DNI: " 12345678 "})
	require.NoError(t, err)

	assert.True(t, got.Success)
	assert.Equal(t, "ENTRY", got.PunchType)
	assert.Equal(t, "Entry", got.PunchTypeLabel)
	assert.Equal(t, "ON_TIME", got.Status)
	assert.Equal(t, 0, got.MinutesDeviation)
	assert.Nil(t, got.Note)
	assert.Equal(t, "Entry registered at 08:05:00, on time 🎉", got.Message)
	assert.Equal(t, "2025-03-10T08:05:00-05:00", got.Timestamp)
	assert.Equal(t, attendance.EmployeeSummary{ID: "emp-1", Code: "EMP001", FirstNames: "Ana", LastNames: "Quispe", DNI: "12345678"}, got.Employee)

	require.Len(t, f.punches.records, 1)
	assert.Equal(t, got.RecordID, f.punches.records[0].ID)
	assert.Equal(t, []string{"emp-1"}, f.punches.locks)
}

func TestRecord_LateByNearestWindow(t *testing.T) {
	f := newFixture(entryWindow())
	f.clock.t = onDay("08:25:00")

	got, err := f.svc.Record(context.Background(), attendance.PunchRequest{DNI: "12345678"})
	require.NoError(t, err)

	assert.Equal(t, "ENTRY", got.PunchType)
	assert.Equal(t, "LATE", got.Status)
	assert.Equal(t, 5, got.MinutesDeviation)
	require.NotNil(t, got.Note)
	assert.Equal(t, "Late by 5 minutes", *got.Note)
	assert.Equal(t, "Entry registered, you were 5 min late ⏰", got.Message)
	assert.Equal(t, shift.StatusLate, f.punches.records[0].Status)
}

func TestRecord_OutOfWindow(t *testing.T) {
	f := newFixture(entryWindow())
	f.clock.t = onDay("03:00:00")

	got, err := f.svc.Record(context.Background(), attendance.PunchRequest{DNI: "12345678"})
	require.NoError(t, err)

	assert.Equal(t, "OUT_OF_WINDOW", got.PunchType)
	assert.Equal(t, "OUT_OF_WINDOW", got.Status)
	require.NotNil(t, got.Note)
	assert.Equal(t, "Punch outside working hours", *got.Note)
}

func TestRecord_UsesConfiguredZone(t *testing.T) {
	f := newFixture(entryWindow())
	// 13:05 UTC is 08:05 in Lima.
	f.clock.t = time.Date(2025, 3, 10, 13, 5, 0, 0, time.UTC)

	got, err := f.svc.Record(context.Background(), attendance.PunchRequest{DNI: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, "ON_TIME", got.Status)
}

func TestRecord_EmployeeNotFound(t *testing.T) {
	f := newFixture(entryWindow())
	f.clock.t = onDay("08:05:00")

	_, err := f.svc.Record(context.Background(), attendance.PunchRequest{DNI: "99999999"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NotContains(t, err.Error(), "99999999")
	assert.Empty(t, f.punches.records)
	assert.Zero(t, f.tx.Calls)
}

func TestRecord_InvalidDNI(t *testing.T) {
	f := newFixture(entryWindow())

	for _, dni := range []string{"", "1234567", "123456789", "1234567a"} {
		_, err := f.svc.Record(context.Background(), attendance.PunchRequest{DNI: dni})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs, dni)
		assert.Contains(t, verrs.ToMap(), "dni")
	}
	f.employees.AssertNotCalled(t, "GetByDNI", mock.Anything, mock.Anything)
	assert.Empty(t, f.punches.records)
}

func TestRecord_DuplicateWithinBand(t *testing.T) {
	f := newFixture(entryWindow())
	ctx := context.Background()

	f.clock.t = onDay("08:00:00")
	_, err := f.svc.Record(ctx, attendance.PunchRequest{DNI: "12345678"})
	require.NoError(t, err)

	f.clock.t = onDay("08:02:00")
	_, err = f.svc.Record(ctx, attendance.PunchRequest{DNI: "12345678"})
	require.ErrorIs(t, err, attendance.ErrDuplicatePunch)

	var dup *attendance.DuplicatePunchError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "12345678", dup.DNI)
	assert.Equal(t, shift.PunchTypeEntry, dup.PunchType)
	assert.Len(t, f.punches.records, 1)
}

func TestRecord_DuplicateBandBoundary(t *testing.T) {
	tests := []struct {
		offset    time.Duration
		duplicate bool
	}{
		{0, true},
		{time.Minute, true},
		{5 * time.Minute, true},
		{-5 * time.Minute, true},
		{5*time.Minute + time.Second, false},
		{-5*time.Minute - time.Second, false},
		{6 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.offset.String(), func(t *testing.T) {
			f := newFixture(entryWindow())
			ctx := context.Background()
			first := onDay("08:05:00")

			f.clock.t = first
			_, err := f.svc.Record(ctx, attendance.PunchRequest{DNI: "12345678"})
			require.NoError(t, err)

			f.clock.t = first.Add(tt.offset)
			_, err = f.svc.Record(ctx, attendance.PunchRequest{DNI: "12345678"})
			if tt.duplicate {
				assert.ErrorIs(t, err, attendance.ErrDuplicatePunch)
				assert.Len(t, f.punches.records, 1)
			} else {
				assert.NoError(t, err)
				assert.Len(t, f.punches.records, 2)
			}
		})
	}
}

func TestRecord_DifferentTypeIsNotDuplicate(t *testing.T) {
	f := newFixture(
		testutil.Window(shift.PunchTypeLunchOut, "12:00", "12:30"),
		testutil.Window(shift.PunchTypeLunchIn, "12:31", "13:00"),
	)
	ctx := context.Background()

	f.clock.t = onDay("12:29:00")
	_, err := f.svc.Record(ctx, attendance.PunchRequest{DNI: "12345678"})
	require.NoError(t, err)

	f.clock.t = onDay("12:32:00")
	got, err := f.svc.Record(ctx, attendance.PunchRequest{DNI: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, "LUNCH_IN", got.PunchType)
}

func TestRecord_PersistFailureLeavesNoRecord(t *testing.T) {
	f := newFixture(entryWindow())
	f.punches.failOn = "create"
	f.clock.t = onDay("08:05:00")

	_, err := f.svc.Record(context.Background(), attendance.PunchRequest{DNI: "12345678"})
	assert.EqualError(t, err, "disk full")
	assert.Empty(t, f.punches.records)
}
