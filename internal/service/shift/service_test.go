package shift

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWindowService(store *testutil.WindowStore) (shift.WindowService, *testutil.Transactor) {
	tx := &testutil.Transactor{}
	return NewWindowService(store, tx), tx
}

func TestWindowService_Create(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewWindowStore(testutil.Window(shift.PunchTypeEntry, "08:00", "09:00"))
	svc, tx := newWindowService(store)

	t.Run("valid", func(t *testing.T) {
		got, err := svc.Create(ctx, shift.CreateWindowRequest{
			Name: " Lunch ", StartTime: "12:00", EndTime: "13:00", PunchType: "lunch_out",
		})
		require.NoError(t, err)
		assert.Equal(t, "Lunch", got.Name)
		assert.Equal(t, "12:00:00", got.StartTime)
		assert.Equal(t, "LUNCH_OUT", got.PunchType)
		assert.True(t, got.Active)
		assert.Equal(t, 1, tx.Calls)
	})

	t.Run("overlapping same type", func(t *testing.T) {
		_, err := svc.Create(ctx, shift.CreateWindowRequest{
			Name: "Late entry", StartTime: "09:00", EndTime: "10:00", PunchType: "ENTRY",
		})
		assert.ErrorIs(t, err, shift.ErrWindowOverlap)
	})

	t.Run("inactive window skips overlap check", func(t *testing.T) {
		inactive := false
		_, err := svc.Create(ctx, shift.CreateWindowRequest{
			Name: "Draft entry", StartTime: "08:30", EndTime: "09:30", PunchType: "ENTRY", Active: &inactive,
		})
		assert.NoError(t, err)
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := svc.Create(ctx, shift.CreateWindowRequest{
			Name: "Backwards", StartTime: "18:00", EndTime: "17:00", PunchType: "EXIT",
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, shift.ErrInvalidRange.Error(), verrs.ToMap()["end_time"])
	})
}

func TestWindowService_UpdateAndReactivate(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewWindowStore(
		testutil.Window(shift.PunchTypeEntry, "08:00", "09:00"),
		testutil.Window(shift.PunchTypeExit, "17:00", "18:00"),
	)
	svc, _ := newWindowService(store)

	updated, err := svc.Update(ctx, shift.UpdateWindowRequest{
		ID: "w001", Name: "Entry", StartTime: "07:45", EndTime: "08:45", PunchType: "ENTRY",
	})
	require.NoError(t, err)
	assert.Equal(t, "07:45:00", updated.StartTime)

	_, err = svc.Update(ctx, shift.UpdateWindowRequest{
		ID: "missing", Name: "Entry", StartTime: "07:45", EndTime: "08:45", PunchType: "ENTRY",
	})
	assert.ErrorIs(t, err, shift.ErrWindowNotFound)

	require.NoError(t, svc.Deactivate(ctx, "w001"))
	_, err = svc.Create(ctx, shift.CreateWindowRequest{Name: "New entry", StartTime: "08:00", EndTime: "08:30", PunchType: "ENTRY"})
	require.NoError(t, err)

	_, err = svc.Reactivate(ctx, "w001")
	assert.ErrorIs(t, err, shift.ErrWindowOverlap)

	got, err := svc.Reactivate(ctx, "w002")
	require.NoError(t, err)
	assert.True(t, got.Active)
}

func TestWindowService_Queries(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewWindowStore(
		testutil.Window(shift.PunchTypeEntry, "08:00", "09:00"),
		testutil.Window(shift.PunchTypeLunchOut, "12:00", "13:00"),
	)
	svc, _ := newWindowService(store)

	byType, err := svc.ListByType(ctx, "lunch_out")
	require.NoError(t, err)
	assert.Len(t, byType, 1)

	_, err = svc.ListByType(ctx, "OUT_OF_WINDOW")
	assert.ErrorIs(t, err, shift.ErrInvalidPunchType)

	within, err := svc.ListWithin(ctx, shift.RangeRequest{Start: "07:00", End: "10:00"})
	require.NoError(t, err)
	require.Len(t, within, 1)
	assert.Equal(t, "ENTRY", within[0].PunchType)

	_, err = svc.ListWithin(ctx, shift.RangeRequest{Start: "10:00", End: "07:00"})
	assert.Error(t, err)

	found, err := svc.Search(ctx, "entry")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	exclude := "w001"
	overlap, err := svc.CheckOverlap(ctx, shift.OverlapCheckRequest{PunchType: "ENTRY", StartTime: "08:30", EndTime: "09:30", ExcludeID: &exclude})
	require.NoError(t, err)
	assert.False(t, overlap.Overlaps)

	overlap, err = svc.CheckOverlap(ctx, shift.OverlapCheckRequest{PunchType: "ENTRY", StartTime: "08:30", EndTime: "09:30"})
	require.NoError(t, err)
	assert.True(t, overlap.Overlaps)
}

func TestWindowService_StatsAndCompleteness(t *testing.T) {
	ctx := context.Background()
	store := standardDay()
	svc, _ := newWindowService(store)

	complete, err := svc.HasCompleteConfiguration(ctx)
	require.NoError(t, err)
	assert.True(t, complete)

	require.NoError(t, svc.Deactivate(ctx, "w004"))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, shift.WindowStats{TotalActive: 3, TotalInactive: 1, Total: 4, Complete: false}, stats)

	require.NoError(t, svc.DeletePermanently(ctx, "w004"))
	assert.ErrorIs(t, svc.DeletePermanently(ctx, "w004"), shift.ErrWindowNotFound)
}
