package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"escala/backend/internal/dto"
	"escala/backend/internal/service"
	"escala/backend/pkg/response"
)

// AvailabilityHandler serves the caller's availability endpoints.
type AvailabilityHandler struct {
	availSvc service.AvailabilityService
}

// NewAvailabilityHandler creates an AvailabilityHandler.
func NewAvailabilityHandler(availSvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availSvc: availSvc}
}

// ListRoutines lists the caller's weekly routine defaults.
// GET /api/v1/availability/routines
func (h *AvailabilityHandler) ListRoutines(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	routines, err := h.availSvc.ListRoutines(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": routines})
}

// SetRoutine upserts the caller's routine for one service day.
// PUT /api/v1/availability/routines
func (h *AvailabilityHandler) SetRoutine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	routine, err := h.availSvc.SetRoutine(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, routine)
}

// ListExceptions lists the caller's date-specific overrides in a date range.
// GET /api/v1/availability/exceptions
func (h *AvailabilityHandler) ListExceptions(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	from, until, ok := parseDateRange(c)
	if !ok {
		return
	}

	exceptions, err := h.availSvc.ListExceptions(c.Request.Context(), userID, from, until)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": exceptions})
}

// SetException upserts a date-specific override for the caller.
// PUT /api/v1/availability/exceptions
func (h *AvailabilityHandler) SetException(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	exc, err := h.availSvc.SetException(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, exc)
}

// DeleteException removes a date-specific override for the caller.
// DELETE /api/v1/availability/exceptions
func (h *AvailabilityHandler) DeleteException(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DeleteExceptionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	if err := h.availSvc.DeleteException(c.Request.Context(), userID, &req); err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, nil)
}

// MonthOverview resolves the caller's availability for every service
// occurrence of the requested month.
// GET /api/v1/availability/overview
func (h *AvailabilityHandler) MonthOverview(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.OverviewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	overview, err := h.availSvc.MonthOverview(c.Request.Context(), userID, month)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, overview)
}

// handleAvailabilityError maps availability business errors to responses.
func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrServiceDayNotFound):
		response.NotFound(c, 16001, "service day not found")
	case errors.Is(err, service.ErrDeadlineExceeded):
		msg := "availability edits for this month are closed"
		var deadlineErr *service.DeadlineError
		if errors.As(err, &deadlineErr) {
			msg = fmt.Sprintf("availability edits for this month are closed, editable from %s",
				deadlineErr.EditableMonth.Format("2006-01"))
		}
		response.UnprocessableEntity(c, 16002, msg)
	default:
		response.InternalError(c)
	}
}
