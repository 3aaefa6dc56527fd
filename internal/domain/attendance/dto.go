package attendance

import (
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type PunchRequest struct {
	DNI string `json:"dni"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors
	r.DNI = strings.TrimSpace(r.DNI)

	if validator.IsEmpty(r.DNI) {
		errs = append(errs, validator.ValidationError{
			Field:   "dni",
			Message: "dni is required",
		})
	} else if !validator.IsValidDNI(r.DNI) {
		errs = append(errs, validator.ValidationError{
			Field:   "dni",
			Message: "dni must be exactly 8 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeSummary struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	FirstNames string `json:"first_names"`
	LastNames  string `json:"last_names"`
	DNI        string `json:"dni"`
}

type PunchResult struct {
	Success          bool            `json:"success"`
	Message          string          `json:"message"`
	Employee         EmployeeSummary `json:"employee"`
	PunchType        string          `json:"punch_type"`
	PunchTypeLabel   string          `json:"punch_type_label"`
	Status           string          `json:"status"`
	Timestamp        string          `json:"timestamp"`
	MinutesDeviation int             `json:"minutes_deviation"`
	Note             *string         `json:"note,omitempty"`
	RecordID         string          `json:"record_id"`
}
