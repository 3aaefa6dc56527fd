package employee

import (
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	DNI        string `json:"dni" validate:"required"`
	FirstNames string `json:"first_names" validate:"required,max=100"`
	LastNames  string `json:"last_names" validate:"required,max=100"`
	JobTitle   string `json:"job_title" validate:"required,max=100"`
	Area       string `json:"area" validate:"required,max=100"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.normalize()
	errs := validator.Struct(r)
	errs = appendDNIError(errs, r.DNI)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateEmployeeRequest) normalize() {
	r.DNI = strings.TrimSpace(r.DNI)
	r.FirstNames = strings.TrimSpace(r.FirstNames)
	r.LastNames = strings.TrimSpace(r.LastNames)
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.Area = strings.TrimSpace(r.Area)
}

type UpdateEmployeeRequest struct {
	ID         string `json:"-"`
	DNI        string `json:"dni" validate:"required"`
	FirstNames string `json:"first_names" validate:"required,max=100"`
	LastNames  string `json:"last_names" validate:"required,max=100"`
	JobTitle   string `json:"job_title" validate:"required,max=100"`
	Area       string `json:"area" validate:"required,max=100"`
	// Code is accepted so clients can echo it back; a different value is rejected.
	Code   *string `json:"code,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	r.DNI = strings.TrimSpace(r.DNI)
	r.FirstNames = strings.TrimSpace(r.FirstNames)
	r.LastNames = strings.TrimSpace(r.LastNames)
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.Area = strings.TrimSpace(r.Area)

	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	errs = append(errs, validator.Struct(r)...)
	errs = appendDNIError(errs, r.DNI)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func appendDNIError(errs validator.ValidationErrors, dni string) validator.ValidationErrors {
	if _, tagged := errs.ToMap()["dni"]; tagged {
		return errs
	}
	if !validator.IsValidDNI(dni) {
		errs = append(errs, validator.ValidationError{
			Field:   "dni",
			Message: "dni must be exactly 8 digits",
		})
	}
	return errs
}

type EmployeeFilter struct {
	Search   *string `json:"search,omitempty"`
	Area     *string `json:"area,omitempty"`
	JobTitle *string `json:"job_title,omitempty"`
	Active   *bool   `json:"active,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // code, last_names, area, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"code", "last_names", "area", "created_at"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: code, last_names, area, created_at",
			})
		}
	} else {
		f.SortBy = "code"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "asc"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	DNI        string `json:"dni"`
	FirstNames string `json:"first_names"`
	LastNames  string `json:"last_names"`
	FullName   string `json:"full_name"`
	JobTitle   string `json:"job_title"`
	Area       string `json:"area"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Code:       e.Code,
		DNI:        e.DNI,
		FirstNames: e.FirstNames,
		LastNames:  e.LastNames,
		FullName:   e.FullName(),
		JobTitle:   e.JobTitle,
		Area:       e.Area,
		Active:     e.Active,
		CreatedAt:  e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}

type EmployeeStats struct {
	TotalActive   int64            `json:"total_active"`
	TotalInactive int64            `json:"total_inactive"`
	Total         int64            `json:"total"`
	ActiveByArea  map[string]int64 `json:"active_by_area"`
}
