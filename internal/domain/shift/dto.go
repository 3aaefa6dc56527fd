package shift

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// SHIFT WINDOW DTOs
// ========================================

type CreateWindowRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartTime string `json:"start_time" validate:"required"` // HH:MM or HH:MM:SS
	EndTime   string `json:"end_time" validate:"required"`
	PunchType string `json:"punch_type" validate:"required"`
	Active    *bool  `json:"active,omitempty"`
}

func (r *CreateWindowRequest) Validate() error {
	return validateWindowFields(r, r.StartTime, r.EndTime, r.PunchType)
}

type UpdateWindowRequest struct {
	ID        string `json:"-"`
	Name      string `json:"name" validate:"required,max=100"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	PunchType string `json:"punch_type" validate:"required"`
	Active    *bool  `json:"active,omitempty"`
}

func (r *UpdateWindowRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if err := validateWindowFields(r, r.StartTime, r.EndTime, r.PunchType); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateWindowFields checks tags on req, then parses the time range and type.
func validateWindowFields(req any, startTime, endTime, punchType string) error {
	errs := validator.Struct(req)
	fields := errs.ToMap()

	var start, end TimeOfDay
	startOK, endOK := false, false
	if _, tagged := fields["start_time"]; !tagged {
		t, err := ParseTimeOfDay(startTime)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "start_time",
				Message: "start_time must be in HH:MM or HH:MM:SS format",
			})
		} else {
			start, startOK = t, true
		}
	}
	if _, tagged := fields["end_time"]; !tagged {
		t, err := ParseTimeOfDay(endTime)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "end_time must be in HH:MM or HH:MM:SS format",
			})
		} else {
			end, endOK = t, true
		}
	}
	if startOK && endOK && start > end {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: ErrInvalidRange.Error(),
		})
	}

	if _, tagged := fields["punch_type"]; !tagged {
		if p, ok := ParsePunchType(punchType); !ok || !p.IsWindowType() {
			errs = append(errs, validator.ValidationError{
				Field:   "punch_type",
				Message: "punch_type must be one of: ENTRY, LUNCH_OUT, LUNCH_IN, EXIT",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OverlapCheckRequest struct {
	PunchType string  `json:"punch_type" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	ExcludeID *string `json:"exclude_id,omitempty"`
}

func (r *OverlapCheckRequest) Validate() error {
	err := validateWindowFields(r, r.StartTime, r.EndTime, r.PunchType)
	if r.ExcludeID == nil || *r.ExcludeID == "" || validator.IsValidUUID(*r.ExcludeID) {
		return err
	}

	var errs validator.ValidationErrors
	if err != nil {
		errs = err.(validator.ValidationErrors)
	}
	return append(errs, validator.ValidationError{
		Field:   "exclude_id",
		Message: "exclude_id must be a valid UUID",
	})
}

type OverlapCheckResponse struct {
	Overlaps bool `json:"overlaps"`
}

// RangeRequest selects windows lying inside [Start, End].
type RangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r *RangeRequest) Validate() error {
	var errs validator.ValidationErrors

	start, err := ParseTimeOfDay(r.Start)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "start",
			Message: "start must be in HH:MM or HH:MM:SS format",
		})
	}
	end, err2 := ParseTimeOfDay(r.End)
	if err2 != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "end",
			Message: "end must be in HH:MM or HH:MM:SS format",
		})
	}
	if err == nil && err2 == nil && start > end {
		errs = append(errs, validator.ValidationError{
			Field:   "end",
			Message: ErrInvalidRange.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WindowResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	StartTime            string `json:"start_time"`
	EndTime              string `json:"end_time"`
	PunchType            string `json:"punch_type"`
	PunchTypeDescription string `json:"punch_type_description"`
	Active               bool   `json:"active"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

func NewWindowResponse(w Window) WindowResponse {
	return WindowResponse{
		ID:                   w.ID,
		Name:                 w.Name,
		StartTime:            w.Start.String(),
		EndTime:              w.End.String(),
		PunchType:            string(w.PunchType),
		PunchTypeDescription: w.PunchType.Description(),
		Active:               w.Active,
		CreatedAt:            w.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:            w.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

type WindowStats struct {
	TotalActive   int64 `json:"total_active"`
	TotalInactive int64 `json:"total_inactive"`
	Total         int64 `json:"total"`
	Complete      bool  `json:"complete"`
}
