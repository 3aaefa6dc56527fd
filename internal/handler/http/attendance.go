package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/errorlog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	metrics           *metrics.Metrics
}

// NewAttendanceHandler accepts a nil m to disable metrics.
func NewAttendanceHandler(attendanceService attendance.AttendanceService, m *metrics.Metrics) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		metrics:           m,
	}
}

// Punch handles POST /api/public/attendance/punch
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req attendance.PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.PunchRejected(metrics.ReasonInvalid)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Record(r.Context(), req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			h.metrics.PunchRejected(metrics.ReasonInvalid)
			errorlog.Validation(r, validationErrs.ToMap())
		case errors.Is(err, employee.ErrEmployeeNotFound):
			h.metrics.PunchRejected(metrics.ReasonEmployeeNotFound)
			errorlog.PunchRejected(r, req.DNI, metrics.ReasonEmployeeNotFound, err)
		case errors.Is(err, attendance.ErrDuplicatePunch):
			h.metrics.PunchRejected(metrics.ReasonDuplicate)
			errorlog.PunchRejected(r, req.DNI, metrics.ReasonDuplicate, err)
		default:
			errorlog.Internal(r, err)
		}
		response.HandleError(w, err)
		return
	}

	h.metrics.PunchRecorded(result.PunchType, result.Status)
	slog.Info("punch recorded",
		"employee_id", result.Employee.ID,
		"punch_type", result.PunchType,
		"status", result.Status,
		"minutes_deviation", result.MinutesDeviation,
	)
	response.Created(w, result.Message, result)
}
