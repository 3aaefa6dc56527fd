package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	GetByDNI(w http.ResponseWriter, r *http.Request)
	GetByCode(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	ListActive(w http.ResponseWriter, r *http.Request)
	SearchEmployees(w http.ResponseWriter, r *http.Request)
	ListByArea(w http.ResponseWriter, r *http.Request)
	ListByJobTitle(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	ReactivateEmployee(w http.ResponseWriter, r *http.Request)
	DeletePermanently(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// queryInt returns the positive integer query parameter key, or fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	id, err := pathID(r, employee.ErrEmployeeNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	req.ID = id

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, employee.ErrEmployeeNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// GetByDNI implements EmployeeHandler
func (h *employeeHandlerImpl) GetByDNI(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetByDNI(r.Context(), chi.URLParam(r, "dni"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// GetByCode implements EmployeeHandler
func (h *employeeHandlerImpl) GetByCode(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{}
	query := r.URL.Query()

	if search := query.Get("search"); search != "" {
		filter.Search = &search
	}
	if area := query.Get("area"); area != "" {
		filter.Area = &area
	}
	if jobTitle := query.Get("job_title"); jobTitle != "" {
		filter.JobTitle = &jobTitle
	}
	if active := query.Get("active"); active != "" {
		parsed, err := strconv.ParseBool(active)
		if err != nil {
			response.BadRequest(w, "active must be true or false", nil)
			return
		}
		filter.Active = &parsed
	}

	// Pagination
	filter.Page = queryInt(r, "page", 1)
	filter.Limit = queryInt(r, "limit", 20)

	// Sorting
	filter.SortBy = query.Get("sort_by")
	filter.SortOrder = query.Get("sort_order")

	result, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.SuccessWithMeta(w, result.Employees, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// ListActive implements EmployeeHandler
func (h *employeeHandlerImpl) ListActive(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.ListActive(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// SearchEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		query = r.URL.Query().Get("query")
	}

	result, err := h.employeeService.Search(r.Context(), query)
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// ListByArea implements EmployeeHandler
func (h *employeeHandlerImpl) ListByArea(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.ListByArea(r.Context(), chi.URLParam(r, "area"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// ListByJobTitle implements EmployeeHandler
func (h *employeeHandlerImpl) ListByJobTitle(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.ListByJobTitle(r.Context(), chi.URLParam(r, "title"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, employee.ErrEmployeeNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.employeeService.DeleteEmployee(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deactivated successfully", nil)
}

// ReactivateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) ReactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, employee.ErrEmployeeNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	result, err := h.employeeService.ReactivateEmployee(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Employee reactivated successfully", result)
}

// DeletePermanently implements EmployeeHandler
func (h *employeeHandlerImpl) DeletePermanently(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, employee.ErrEmployeeNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.employeeService.DeletePermanently(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deleted permanently", nil)
}

// Stats implements EmployeeHandler
func (h *employeeHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}
