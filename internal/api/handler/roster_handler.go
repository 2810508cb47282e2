package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"escala/backend/internal/dto"
	"escala/backend/internal/service"
	"escala/backend/pkg/response"
)

// RosterHandler serves roster assignment, eligibility and export endpoints.
type RosterHandler struct {
	rosterSvc      service.RosterService
	eligibilitySvc service.EligibilityService
	exportSvc      service.ExportService
}

// NewRosterHandler creates a RosterHandler.
func NewRosterHandler(rosterSvc service.RosterService, eligibilitySvc service.EligibilityService, exportSvc service.ExportService) *RosterHandler {
	return &RosterHandler{
		rosterSvc:      rosterSvc,
		eligibilitySvc: eligibilitySvc,
		exportSvc:      exportSvc,
	}
}

// Assign fills one roster slot.
// POST /api/v1/departments/:id/roster
func (h *RosterHandler) Assign(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	if deptID == "" {
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	entry, err := h.rosterSvc.Assign(c.Request.Context(), orgID, deptID, &req, callerID)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.Created(c, entry)
}

// Unassign clears one roster slot.
// DELETE /api/v1/roster/:entry_id
func (h *RosterHandler) Unassign(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	entryID := c.Param("entry_id")
	if entryID == "" {
		response.BadRequest(c, 10001, "roster entry id is required")
		return
	}

	if err := h.rosterSvc.Unassign(c.Request.Context(), orgID, entryID, callerID); err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListRoster lists a department's roster for one month.
// GET /api/v1/departments/:id/roster?month=2026-03
func (h *RosterHandler) ListRoster(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	if deptID == "" {
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	var req dto.RosterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	entries, err := h.rosterSvc.ListByDepartmentMonth(c.Request.Context(), orgID, deptID, month)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// MyRoster lists the caller's assignments across departments.
// GET /api/v1/roster/me?from=2026-03-01&until=2026-04-30
func (h *RosterHandler) MyRoster(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	from, until, ok := parseDateRange(c)
	if !ok {
		return
	}

	entries, err := h.rosterSvc.ListByUser(c.Request.Context(), userID, from, until)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// EligibleMembers lists candidates who can fill one slot.
// GET /api/v1/departments/:id/eligible-members?function_id=&date=&service_day_id=
func (h *RosterHandler) EligibleMembers(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	if deptID == "" {
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	var req dto.EligibleMembersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	members, err := h.eligibilitySvc.FindEligibleMembers(c.Request.Context(), orgID, deptID, req.FunctionID, date, req.ServiceDayID)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, gin.H{"list": members})
}

// ExportRoster downloads a department's month roster as a spreadsheet.
// GET /api/v1/departments/:id/roster/export?month=2026-03
func (h *RosterHandler) ExportRoster(c *gin.Context) {
	orgID, ok := MustGetOrganizationID(c)
	if !ok {
		return
	}

	deptID := c.Param("id")
	if deptID == "" {
		response.BadRequest(c, 10001, "department id is required")
		return
	}

	var req dto.RosterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		response.BadRequest(c, 10001, "request validation failed")
		return
	}

	buf, filename, err := h.exportSvc.ExportMonth(c.Request.Context(), orgID, deptID, month)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// parseDateRange reads optional from/until query params, defaulting to a
// window around today.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -7)
	until := now.AddDate(0, 2, 0)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(c, 10001, "request validation failed")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if v := c.Query("until"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.BadRequest(c, 10001, "request validation failed")
			return time.Time{}, time.Time{}, false
		}
		until = parsed
	}
	return from, until, true
}

// handleRosterError maps roster business errors to responses.
func (h *RosterHandler) handleRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotDepartmentLeader):
		response.Forbidden(c, 10003, "department leader or admin role required")
	case errors.Is(err, service.ErrSlotOccupied):
		response.Conflict(c, 17001, "roster slot already filled")
	case errors.Is(err, service.ErrRosterEntryNotFound):
		response.NotFound(c, 17002, "roster entry not found")
	case errors.Is(err, service.ErrMemberNotInDepartment):
		response.BadRequest(c, 17003, "member does not belong to the department")
	case errors.Is(err, service.ErrMemberLacksFunction):
		response.BadRequest(c, 17004, "member does not hold the function")
	case errors.Is(err, service.ErrWeekdayMismatch):
		response.BadRequest(c, 17005, "date does not fall on the service day's weekday")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "department not found")
	case errors.Is(err, service.ErrFunctionNotFound):
		response.NotFound(c, 13006, "function not found")
	case errors.Is(err, service.ErrServiceDayNotFound):
		response.NotFound(c, 15001, "service day not found")
	case errors.Is(err, service.ErrExportNoEntries):
		response.NotFound(c, 17006, "no roster entries for the month")
	case errors.Is(err, service.ErrExportGenerate):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
