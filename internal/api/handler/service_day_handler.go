package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"escala/backend/internal/dto"
	"escala/backend/internal/service"
	"escala/backend/pkg/response"
)

// ServiceDayHandler serves service-day management endpoints.
type ServiceDayHandler struct {
	sdSvc service.ServiceDayService
}

// NewServiceDayHandler creates a ServiceDayHandler.
func NewServiceDayHandler(sdSvc service.ServiceDayService) *ServiceDayHandler {
	return &ServiceDayHandler{sdSvc: sdSvc}
}

// CreateServiceDay creates a recurring weekly service day.
// POST /api/v1/service-days
func (h *ServiceDayHandler) CreateServiceDay(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateServiceDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	day, err := h.sdSvc.Create(c.Request.Context(), orgID, &req, callerID)
	if err != nil {
		h.handleServiceDayError(c, err)
		return
	}

	response.Created(c, day)
}

// ListServiceDays lists the organization's service days.
// GET /api/v1/service-days
func (h *ServiceDayHandler) ListServiceDays(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	days, err := h.sdSvc.List(c.Request.Context(), orgID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": days})
}

// UpdateServiceDay renames a service day. Weekday is immutable.
// PUT /api/v1/service-days/:id
func (h *ServiceDayHandler) UpdateServiceDay(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "service day id is required")
		return
	}

	var req dto.UpdateServiceDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	day, err := h.sdSvc.Update(c.Request.Context(), orgID, id, &req, callerID)
	if err != nil {
		h.handleServiceDayError(c, err)
		return
	}

	response.OK(c, day)
}

// DeleteServiceDay removes a service day.
// DELETE /api/v1/service-days/:id
func (h *ServiceDayHandler) DeleteServiceDay(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "service day id is required")
		return
	}

	if err := h.sdSvc.Delete(c.Request.Context(), orgID, id, callerID); err != nil {
		h.handleServiceDayError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleServiceDayError maps service-day business errors to responses.
func (h *ServiceDayHandler) handleServiceDayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrServiceDayNotFound):
		response.NotFound(c, 15001, "service day not found")
	default:
		response.InternalError(c)
	}
}
