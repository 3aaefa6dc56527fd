package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListAttendance implements report.ReportRepository.
func (r *reportRepositoryImpl) ListAttendance(ctx context.Context, aq report.AttendanceQuery) ([]report.AttendanceRow, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.punched_at >= $1 AND p.punched_at < $2"}
	args := []interface{}{aq.From, aq.To}
	argIdx := 3

	if aq.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, *aq.EmployeeID)
		argIdx++
	}
	if aq.PunchType != nil {
		conditions = append(conditions, fmt.Sprintf("p.punch_type = $%d", argIdx))
		args = append(args, string(*aq.PunchType))
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM punch_records p WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance rows: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			p.id, p.employee_id, e.code, e.first_names || ' ' || e.last_names,
			e.dni, e.job_title, e.area, p.punched_at, p.punch_type, p.status, p.note
		FROM punch_records p
		JOIN employees e ON e.id = p.employee_id
		WHERE %s
		ORDER BY p.punched_at DESC, p.id DESC
	`, whereClause)

	if aq.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, aq.Limit, aq.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance rows: %w", err)
	}
	defer rows.Close()

	result := make([]report.AttendanceRow, 0)
	for rows.Next() {
		var (
			row               report.AttendanceRow
			punchType, status string
		)
		err := rows.Scan(
			&row.ID, &row.EmployeeID, &row.EmployeeCode, &row.EmployeeName,
			&row.DNI, &row.JobTitle, &row.Area, &row.PunchedAt, &punchType, &status, &row.Note,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		row.PunchType = shift.PunchType(punchType)
		row.Status = shift.Status(status)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}
