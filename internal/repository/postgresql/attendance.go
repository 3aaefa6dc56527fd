package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

// Create implements attendance.PunchRepository.
func (r *punchRepositoryImpl) Create(ctx context.Context, record attendance.PunchRecord) (attendance.PunchRecord, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.PunchRecord{}, fmt.Errorf("failed to generate punch id: %w", err)
		}
		record.ID = id.String()
	}

	query := `
		INSERT INTO punch_records (id, employee_id, punched_at, punch_type, status, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.PunchedAt, string(record.PunchType), string(record.Status), record.Note,
	).Scan(&record.CreatedAt)
	if err != nil {
		return attendance.PunchRecord{}, fmt.Errorf("failed to create punch record: %w", err)
	}
	return record, nil
}

// GetByID implements attendance.PunchRepository.
func (r *punchRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.PunchRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, punched_at, punch_type, status, note, created_at
		FROM punch_records
		WHERE id = $1
	`
	var (
		record            attendance.PunchRecord
		punchType, status string
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.EmployeeID, &record.PunchedAt, &punchType, &status, &record.Note, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.PunchRecord{}, attendance.ErrPunchNotFound
		}
		return attendance.PunchRecord{}, fmt.Errorf("failed to get punch record: %w", err)
	}
	record.PunchType = shift.PunchType(punchType)
	record.Status = shift.Status(status)
	return record, nil
}

// ExistsInBand implements attendance.PunchRepository.
func (r *punchRepositoryImpl) ExistsInBand(ctx context.Context, employeeID string, punchType shift.PunchType, from, to time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM punch_records
			WHERE employee_id = $1
			  AND punch_type = $2
			  AND punched_at BETWEEN $3 AND $4
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, string(punchType), from, to).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recent punches: %w", err)
	}
	return exists, nil
}

// LockEmployee implements attendance.PunchRepository. The lock is released on commit or rollback.
func (r *punchRepositoryImpl) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID); err != nil {
		return fmt.Errorf("failed to lock employee punches: %w", err)
	}
	return nil
}

// CountByEmployee implements attendance.PunchRepository.
func (r *punchRepositoryImpl) CountByEmployee(ctx context.Context, employeeID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM punch_records WHERE employee_id = $1`, employeeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count punch records: %w", err)
	}
	return count, nil
}
