package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftWindowHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListActive(w http.ResponseWriter, r *http.Request)
	ListByType(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	ListWithin(w http.ResponseWriter, r *http.Request)
	CheckOverlap(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Reactivate(w http.ResponseWriter, r *http.Request)
	DeletePermanently(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type shiftWindowHandlerImpl struct {
	windowService shift.WindowService
}

func NewShiftWindowHandler(windowService shift.WindowService) ShiftWindowHandler {
	return &shiftWindowHandlerImpl{
		windowService: windowService,
	}
}

// Create handles POST /shift-windows
func (h *shiftWindowHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.windowService.Create(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.Created(w, "Shift window created successfully", result)
}

// Update handles PUT /shift-windows/{id}
func (h *shiftWindowHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	id, err := pathID(r, shift.ErrWindowNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	req.ID = id

	result, err := h.windowService.Update(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response.SuccessWithMessage(w, "Shift window updated successfully", result)
}

// Get handles GET /shift-windows/{id}
func (h *shiftWindowHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, shift.ErrWindowNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	result, err := h.windowService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// List handles GET /shift-windows
func (h *shiftWindowHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.windowService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// ListActive handles GET /shift-windows/active
func (h *shiftWindowHandlerImpl) ListActive(w http.ResponseWriter, r *http.Request) {
	result, err := h.windowService.ListActive(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// ListByType handles GET /shift-windows/type/{type}
func (h *shiftWindowHandlerImpl) ListByType(w http.ResponseWriter, r *http.Request) {
	result, err := h.windowService.ListByType(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// Search handles GET /shift-windows/search?name=
func (h *shiftWindowHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.windowService.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// ListWithin handles GET /shift-windows/in-range?start=&end=
func (h *shiftWindowHandlerImpl) ListWithin(w http.ResponseWriter, r *http.Request) {
	req := shift.RangeRequest{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}

	result, err := h.windowService.ListWithin(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// CheckOverlap handles POST /shift-windows/check-overlap
func (h *shiftWindowHandlerImpl) CheckOverlap(w http.ResponseWriter, r *http.Request) {
	var req shift.OverlapCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.windowService.CheckOverlap(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}

// Deactivate handles DELETE /shift-windows/{id}
func (h *shiftWindowHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, shift.ErrWindowNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.windowService.Deactivate(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Shift window deactivated successfully", nil)
}

// Reactivate handles PUT /shift-windows/{id}/reactivate
func (h *shiftWindowHandlerImpl) Reactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, shift.ErrWindowNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	result, err := h.windowService.Reactivate(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Shift window reactivated successfully", result)
}

// DeletePermanently handles DELETE /shift-windows/{id}/permanent
func (h *shiftWindowHandlerImpl) DeletePermanently(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, shift.ErrWindowNotFound)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.windowService.DeletePermanently(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Shift window deleted permanently", nil)
}

// Stats handles GET /shift-windows/stats
func (h *shiftWindowHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.windowService.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	response.Success(w, result)
}
