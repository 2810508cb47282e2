package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"escala/backend/internal/dto"
	"escala/backend/internal/service"
	"escala/backend/pkg/response"
)

// MemberHandler serves department membership endpoints.
type MemberHandler struct {
	memberSvc service.MemberService
}

// NewMemberHandler creates a MemberHandler.
func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// AddMember adds a user to the department.
// POST /api/v1/departments/:id/members
func (h *MemberHandler) AddMember(c *gin.Context) {
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

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	member, err := h.memberSvc.Add(c.Request.Context(), orgID, deptID, &req, callerID)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.Created(c, member)
}

// ListMembers lists the department's members with their functions.
// GET /api/v1/departments/:id/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	if deptID == "" {
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	members, err := h.memberSvc.List(c.Request.Context(), orgID, deptID)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, gin.H{"list": members})
}

// UpdateMember changes a member's role or function set.
// PUT /api/v1/departments/:id/members/:member_id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	memberID := c.Param("member_id")
	if deptID == "" || memberID == "" {
		response.BadRequest(c, 10001, "department id and member id are required")
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	member, err := h.memberSvc.Update(c.Request.Context(), orgID, deptID, memberID, &req, callerID)
	if err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, member)
}

// RemoveMember removes a member and their roster assignments.
// DELETE /api/v1/departments/:id/members/:member_id
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	memberID := c.Param("member_id")
	if deptID == "" || memberID == "" {
		response.BadRequest(c, 10001, "department id and member id are required")
		return
	}

	if err := h.memberSvc.Remove(c.Request.Context(), orgID, deptID, memberID, callerID); err != nil {
		h.handleMemberError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleMemberError maps membership business errors to responses.
func (h *MemberHandler) handleMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotDepartmentLeader):
		response.Forbidden(c, 10003, "department leader or admin role required")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "department not found")
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 14001, "member not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 14002, "user not found")
	case errors.Is(err, service.ErrAlreadyMember):
		response.BadRequest(c, 14003, "user already belongs to the department")
	case errors.Is(err, service.ErrFunctionWrongScope):
		response.BadRequest(c, 14004, "function does not belong to the department")
	case errors.Is(err, service.ErrUserOutsideOrg):
		response.BadRequest(c, 14005, "user belongs to another organization")
	default:
		response.InternalError(c)
	}
}
