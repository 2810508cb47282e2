package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"escala/backend/internal/service"
)

// CalendarHandler serves the iCalendar feed of the caller's assignments.
type CalendarHandler struct {
	calSvc service.CalendarService
}

// NewCalendarHandler creates a CalendarHandler.
func NewCalendarHandler(calSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calSvc: calSvc}
}

// MyFeed serves the caller's roster as an ICS document for calendar apps.
// GET /api/v1/calendar/me.ics?from=2026-03-01&until=2026-06-30
func (h *CalendarHandler) MyFeed(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	from, until, ok := parseDateRange(c)
	if !ok {
		return
	}

	feed, err := h.calSvc.MemberFeed(c.Request.Context(), userID, from, until)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
