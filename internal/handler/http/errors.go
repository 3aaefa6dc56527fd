package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/errorlog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

var integrityErrors = []error{
	employee.ErrDNIExists,
	employee.ErrCodeExists,
	employee.ErrHasPunchHistory,
	employee.ErrEmployeeAlreadyActive,
	employee.ErrEmployeeAlreadyInactive,
	shift.ErrWindowOverlap,
	attendance.ErrDuplicatePunch,
}

var expectedErrors = []error{
	employee.ErrEmployeeNotFound,
	shift.ErrWindowNotFound,
	shift.ErrInvalidRange,
	shift.ErrInvalidPunchType,
	attendance.ErrPunchNotFound,
	user.ErrUserNotFound,
	report.ErrTooManyRows,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleError records err as a diagnostic event and writes the mapped response.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		errorlog.Validation(r, validationErrs.ToMap())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserInactive):
		errorlog.AuthenticationFailure(r, "", err)
	case isAny(err, integrityErrors):
		errorlog.DataIntegrity(r, err)
	case isAny(err, expectedErrors):
	default:
		errorlog.Internal(r, err)
	}
	response.HandleError(w, err)
}

// pathID returns the {id} URL parameter. Values that are not record ids yield notFound
// without reaching the store.
func pathID(r *http.Request, notFound error) (string, error) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		return "", notFound
	}
	return strings.ToLower(id), nil
}
