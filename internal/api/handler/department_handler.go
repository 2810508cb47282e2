package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"escala/backend/internal/dto"
	"escala/backend/internal/service"
	"escala/backend/pkg/response"
)

// DepartmentHandler serves department and function endpoints.
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler creates a DepartmentHandler.
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// ListDepartments lists the organization's departments.
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	var req dto.DepartmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	depts, err := h.deptSvc.List(c.Request.Context(), orgID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": depts})
}

// GetDepartment returns one department.
// GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	dept, err := h.deptSvc.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// CreateDepartment creates a department.
// POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), orgID, &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.Created(c, dept)
}

// UpdateDepartment updates a department.
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
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
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), orgID, id, &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// DeleteDepartment removes a department without members.
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
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
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), orgID, id, callerID); err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── functions ──

// CreateFunction creates a role within the department.
// POST /api/v1/departments/:id/functions
func (h *DepartmentHandler) CreateFunction(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	if deptID == "" {
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	var req dto.CreateFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	fn, err := h.deptSvc.CreateFunction(c.Request.Context(), orgID, deptID, &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.Created(c, fn)
}

// ListFunctions lists the department's functions.
// GET /api/v1/departments/:id/functions
func (h *DepartmentHandler) ListFunctions(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	if deptID == "" {
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	fns, err := h.deptSvc.ListFunctions(c.Request.Context(), orgID, deptID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": fns})
}

// UpdateFunction renames a function.
// PUT /api/v1/departments/:id/functions/:function_id
func (h *DepartmentHandler) UpdateFunction(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	fnID := c.Param("function_id")
	if deptID == "" || fnID == "" {
		response.BadRequest(c, 10001, "department id and function id are required")
		return
	}

	var req dto.UpdateFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	fn, err := h.deptSvc.UpdateFunction(c.Request.Context(), orgID, deptID, fnID, &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, fn)
}

// DeleteFunction removes a function.
// DELETE /api/v1/departments/:id/functions/:function_id
func (h *DepartmentHandler) DeleteFunction(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	fnID := c.Param("function_id")
	if deptID == "" || fnID == "" {
		response.BadRequest(c, 10001, "department id and function id are required")
		return
	}

	if err := h.deptSvc.DeleteFunction(c.Request.Context(), orgID, deptID, fnID, callerID); err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleDepartmentError maps department business errors to responses.
func (h *DepartmentHandler) handleDepartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "department not found")
	case errors.Is(err, service.ErrDepartmentNameExists):
		response.BadRequest(c, 13002, "department name already exists")
	case errors.Is(err, service.ErrDepartmentHasMembers):
		response.BadRequest(c, 13003, "department has members and cannot be deleted")
	case errors.Is(err, service.ErrParentNotFound):
		response.NotFound(c, 13004, "parent department not found")
	case errors.Is(err, service.ErrNestingTooDeep):
		response.BadRequest(c, 13005, "departments nest at most one level")
	case errors.Is(err, service.ErrFunctionNotFound):
		response.NotFound(c, 13006, "function not found")
	default:
		response.InternalError(c)
	}
}
