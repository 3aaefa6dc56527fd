package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicatePunch):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrPunchNotFound):
		NotFound(w, "Punch record not found")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUserInactive):
		Forbidden(w, "User account is inactive")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDNIExists):
		Conflict(w, "DNI already registered")
	case errors.Is(err, employee.ErrCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmployeeAlreadyActive):
		Conflict(w, "Employee is already active")
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, "Employee is already inactive")
	case errors.Is(err, employee.ErrHasPunchHistory):
		Conflict(w, err.Error())

	// Shift window domain errors
	case errors.Is(err, shift.ErrWindowNotFound):
		NotFound(w, "Shift window not found")
	case errors.Is(err, shift.ErrWindowOverlap):
		Conflict(w, err.Error())
	case errors.Is(err, shift.ErrInvalidRange):
		ValidationError(w, map[string]string{"end_time": err.Error()})
	case errors.Is(err, shift.ErrInvalidPunchType):
		ValidationError(w, map[string]string{"punch_type": err.Error()})

	// Report domain errors
	case errors.Is(err, report.ErrTooManyRows):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
