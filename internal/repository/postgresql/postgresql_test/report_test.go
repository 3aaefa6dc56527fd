package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepository_ListAttendance(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	punches := postgresql.NewPunchRepository(db)
	repo := postgresql.NewReportRepository(db)

	ana := createTestEmployee(t, ctx, db, "10000001")
	luis := createTestEmployee(t, ctx, db, "10000002")

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seed := []attendance.PunchRecord{
		{EmployeeID: ana.ID, PunchedAt: day.Add(8 * time.Hour), PunchType: shift.PunchTypeEntry, Status: shift.StatusOnTime},
		{EmployeeID: ana.ID, PunchedAt: day.Add(18 * time.Hour), PunchType: shift.PunchTypeExit, Status: shift.StatusOnTime},
		{EmployeeID: luis.ID, PunchedAt: day.Add(8*time.Hour + 20*time.Minute), PunchType: shift.PunchTypeEntry, Status: shift.StatusLate},
		{EmployeeID: luis.ID, PunchedAt: day.Add(48 * time.Hour), PunchType: shift.PunchTypeEntry, Status: shift.StatusOnTime},
	}
	for _, p := range seed {
		_, err := punches.Create(ctx, p)
		require.NoError(t, err)
	}

	dayEnd := day.Add(24 * time.Hour)

	t.Run("newest first within range", func(t *testing.T) {
		rows, total, err := repo.ListAttendance(ctx, report.AttendanceQuery{From: day, To: dayEnd})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, rows, 3)
		assert.Equal(t, shift.PunchTypeExit, rows[0].PunchType)
		assert.Equal(t, ana.Code, rows[0].EmployeeCode)
		assert.Equal(t, ana.FullName(), rows[0].EmployeeName)
	})

	t.Run("filters and paging", func(t *testing.T) {
		pt := shift.PunchTypeEntry
		rows, total, err := repo.ListAttendance(ctx, report.AttendanceQuery{
			From: day, To: day.Add(72 * time.Hour), EmployeeID: &luis.ID, PunchType: &pt, Limit: 1, Offset: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, rows, 1)
		assert.Equal(t, shift.StatusLate, rows[0].Status)
	})

	t.Run("end bound covers the last second of the day", func(t *testing.T) {
		late, err := punches.Create(ctx, attendance.PunchRecord{
			EmployeeID: ana.ID, PunchedAt: dayEnd.Add(-400 * time.Millisecond), PunchType: shift.PunchTypeExit, Status: shift.StatusLate,
		})
		require.NoError(t, err)
		_, err = punches.Create(ctx, attendance.PunchRecord{
			EmployeeID: ana.ID, PunchedAt: dayEnd, PunchType: shift.PunchTypeEntry, Status: shift.StatusOnTime,
		})
		require.NoError(t, err)

		rows, total, err := repo.ListAttendance(ctx, report.AttendanceQuery{From: day, To: dayEnd})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, rows, 4)
		assert.Equal(t, late.ID, rows[0].ID)
	})
}
