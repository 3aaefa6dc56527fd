package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type shiftWindowRepository struct {
	db *database.DB
}

func NewShiftWindowRepository(db *database.DB) shift.WindowRepository {
	return &shiftWindowRepository{db: db}
}

const shiftWindowColumns = `id, name, start_time, end_time, punch_type, active, created_at, updated_at`

func toPgTime(t shift.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.Seconds()) * int64(time.Second/time.Microsecond), Valid: true}
}

func fromPgTime(t pgtype.Time) shift.TimeOfDay {
	return shift.TimeOfDay(t.Microseconds / int64(time.Second/time.Microsecond))
}

func scanShiftWindow(row pgx.Row) (shift.Window, error) {
	var (
		w          shift.Window
		start, end pgtype.Time
		punchType  string
	)
	if err := row.Scan(&w.ID, &w.Name, &start, &end, &punchType, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return shift.Window{}, err
	}
	w.Start = fromPgTime(start)
	w.End = fromPgTime(end)
	w.PunchType = shift.PunchType(punchType)
	return w, nil
}

func (r *shiftWindowRepository) queryWindows(ctx context.Context, query string, args ...interface{}) ([]shift.Window, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := make([]shift.Window, 0)
	for rows.Next() {
		w, err := scanShiftWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// FindContaining implements shift.Store.
func (r *shiftWindowRepository) FindContaining(ctx context.Context, t shift.TimeOfDay) ([]shift.Window, error) {
	query := `
		SELECT ` + shiftWindowColumns + `
		FROM shift_windows
		WHERE active = TRUE
		  AND start_time <= $1
		  AND end_time >= $1
		ORDER BY start_time ASC, id ASC
	`
	windows, err := r.queryWindows(ctx, query, toPgTime(t))
	if err != nil {
		return nil, fmt.Errorf("failed to find shift windows containing %s: %w", t, err)
	}
	return windows, nil
}

// FindActiveByType implements shift.Store.
func (r *shiftWindowRepository) FindActiveByType(ctx context.Context, punchType shift.PunchType) (shift.Window, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftWindowColumns + `
		FROM shift_windows
		WHERE active = TRUE AND punch_type = $1
		ORDER BY start_time ASC, id ASC
		LIMIT 1
	`
	w, err := scanShiftWindow(q.QueryRow(ctx, query, string(punchType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Window{}, shift.ErrWindowNotFound
		}
		return shift.Window{}, fmt.Errorf("failed to get active shift window by type: %w", err)
	}
	return w, nil
}

// FindAllActiveOrderedByStart implements shift.Store.
func (r *shiftWindowRepository) FindAllActiveOrderedByStart(ctx context.Context) ([]shift.Window, error) {
	query := `
		SELECT ` + shiftWindowColumns + `
		FROM shift_windows
		WHERE active = TRUE
		ORDER BY start_time ASC, id ASC
	`
	windows, err := r.queryWindows(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active shift windows: %w", err)
	}
	return windows, nil
}

// ExistsOverlapping implements shift.Store.
func (r *shiftWindowRepository) ExistsOverlapping(ctx context.Context, punchType shift.PunchType, start, end shift.TimeOfDay, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM shift_windows
			WHERE active = TRUE
			  AND punch_type = $1
			  AND ($4 = '' OR id::text <> $4)
			  AND start_time <= $3
			  AND end_time >= $2
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, string(punchType), toPgTime(start), toPgTime(end), excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check shift window overlap: %w", err)
	}
	return exists, nil
}

// Create implements shift.WindowRepository.
func (r *shiftWindowRepository) Create(ctx context.Context, w shift.Window) (shift.Window, error) {
	q := GetQuerier(ctx, r.db)

	if w.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return shift.Window{}, fmt.Errorf("failed to generate shift window id: %w", err)
		}
		w.ID = id.String()
	}

	query := `
		INSERT INTO shift_windows (id, name, start_time, end_time, punch_type, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		w.ID, w.Name, toPgTime(w.Start), toPgTime(w.End), string(w.PunchType), w.Active,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return shift.Window{}, fmt.Errorf("failed to create shift window: %w", err)
	}
	return w, nil
}

// Update implements shift.WindowRepository.
func (r *shiftWindowRepository) Update(ctx context.Context, w shift.Window) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_windows
		SET name = $2, start_time = $3, end_time = $4, punch_type = $5, active = $6, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, w.ID, w.Name, toPgTime(w.Start), toPgTime(w.End), string(w.PunchType), w.Active)
	if err != nil {
		return fmt.Errorf("failed to update shift window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrWindowNotFound
	}
	return nil
}

// GetByID implements shift.WindowRepository.
func (r *shiftWindowRepository) GetByID(ctx context.Context, id string) (shift.Window, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftWindowColumns + ` FROM shift_windows WHERE id = $1`
	w, err := scanShiftWindow(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Window{}, shift.ErrWindowNotFound
		}
		return shift.Window{}, fmt.Errorf("failed to get shift window: %w", err)
	}
	return w, nil
}

// List implements shift.WindowRepository.
func (r *shiftWindowRepository) List(ctx context.Context) ([]shift.Window, error) {
	query := `SELECT ` + shiftWindowColumns + ` FROM shift_windows ORDER BY start_time ASC, id ASC`
	windows, err := r.queryWindows(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift windows: %w", err)
	}
	return windows, nil
}

// ListActiveByType implements shift.WindowRepository.
func (r *shiftWindowRepository) ListActiveByType(ctx context.Context, punchType shift.PunchType) ([]shift.Window, error) {
	query := `
		SELECT ` + shiftWindowColumns + `
		FROM shift_windows
		WHERE active = TRUE AND punch_type = $1
		ORDER BY start_time ASC, id ASC
	`
	windows, err := r.queryWindows(ctx, query, string(punchType))
	if err != nil {
		return nil, fmt.Errorf("failed to list shift windows by type: %w", err)
	}
	return windows, nil
}

// SearchByName implements shift.WindowRepository.
func (r *shiftWindowRepository) SearchByName(ctx context.Context, name string) ([]shift.Window, error) {
	query := `
		SELECT ` + shiftWindowColumns + `
		FROM shift_windows
		WHERE name ILIKE $1
		ORDER BY start_time ASC, id ASC
	`
	windows, err := r.queryWindows(ctx, query, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search shift windows: %w", err)
	}
	return windows, nil
}

// FindWithin implements shift.WindowRepository.
func (r *shiftWindowRepository) FindWithin(ctx context.Context, start, end shift.TimeOfDay) ([]shift.Window, error) {
	query := `
		SELECT ` + shiftWindowColumns + `
		FROM shift_windows
		WHERE active = TRUE
		  AND start_time >= $1
		  AND end_time <= $2
		ORDER BY start_time ASC, id ASC
	`
	windows, err := r.queryWindows(ctx, query, toPgTime(start), toPgTime(end))
	if err != nil {
		return nil, fmt.Errorf("failed to find shift windows in range: %w", err)
	}
	return windows, nil
}

// SetActive implements shift.WindowRepository.
func (r *shiftWindowRepository) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE shift_windows SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to set shift window active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrWindowNotFound
	}
	return nil
}

// Delete implements shift.WindowRepository.
func (r *shiftWindowRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_windows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrWindowNotFound
	}
	return nil
}

// CountActive implements shift.WindowRepository.
func (r *shiftWindowRepository) CountActive(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_windows WHERE active = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active shift windows: %w", err)
	}
	return count, nil
}

// Count implements shift.WindowRepository.
func (r *shiftWindowRepository) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_windows`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count shift windows: %w", err)
	}
	return count, nil
}

// CountActiveTypes implements shift.WindowRepository.
func (r *shiftWindowRepository) CountActiveTypes(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(DISTINCT punch_type) FROM shift_windows WHERE active = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count configured punch types: %w", err)
	}
	return count, nil
}
