package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	punchRepo    attendance.PunchRepository
	classifier   shift.Classifier
	tx           database.Transactor
	loc          *time.Location
	now          func() time.Time
}

// NewAttendanceService builds the punch recorder. Punch times are taken from now and
// classified in loc.
func NewAttendanceService(
	employeeRepo employee.EmployeeRepository,
	punchRepo attendance.PunchRepository,
	classifier shift.Classifier,
	tx database.Transactor,
	loc *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		employeeRepo: employeeRepo,
		punchRepo:    punchRepo,
		classifier:   classifier,
		tx:           tx,
		loc:          loc,
		now:          now,
	}
}

// Record implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Record(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResult{}, err
	}

	emp, err := s.employeeRepo.GetByDNI(ctx, req.DNI)
	if err != nil {
		return attendance.PunchResult{}, fmt.Errorf("failed to find employee by dni: %w", err)
	}

	punchedAt := s.now().In(s.loc)
	tod := shift.TimeOfDayOf(punchedAt)

	var (
		classification shift.Classification
		record         attendance.PunchRecord
	)
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.punchRepo.LockEmployee(txCtx, emp.ID); err != nil {
			return err
		}

		var err error
		classification, err = s.classifier.Classify(txCtx, tod)
		if err != nil {
			return err
		}

		duplicate, err := s.punchRepo.ExistsInBand(txCtx, emp.ID, classification.PunchType,
			punchedAt.Add(-attendance.DuplicateBand), punchedAt.Add(attendance.DuplicateBand))
		if err != nil {
			return err
		}
		if duplicate {
			return &attendance.DuplicatePunchError{DNI: emp.DNI, PunchType: classification.PunchType}
		}

		record = attendance.PunchRecord{
			EmployeeID: emp.ID,
			PunchedAt:  punchedAt,
			PunchType:  classification.PunchType,
			Status:     classification.Status,
		}
		if note := shift.Note(classification.Status, classification.MinutesDeviation); note != "" {
			record.Note = &note
		}

		record, err = s.punchRepo.Create(txCtx, record)
		return err
	})
	if err != nil {
		return attendance.PunchResult{}, err
	}

	return attendance.PunchResult{
		Success: true,
		Message: classification.Message,
		Employee: attendance.EmployeeSummary{
			ID:         emp.ID,
			Code:       emp.Code,
			FirstNames: emp.FirstNames,
			LastNames:  emp.LastNames,
			DNI:        emp.DNI,
		},
		PunchType:        string(record.PunchType),
		PunchTypeLabel:   record.PunchType.Description(),
		Status:           string(record.Status),
		Timestamp:        record.PunchedAt.In(s.loc).Format(time.RFC3339),
		MinutesDeviation: classification.MinutesDeviation,
		Note:             record.Note,
		RecordID:         record.ID,
	}, nil
}
