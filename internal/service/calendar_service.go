package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"escala/backend/internal/repository"
)

// CalendarService renders a member's roster entries as an iCalendar feed so
// volunteers can subscribe from their phone's calendar app.
type CalendarService interface {
	MemberFeed(ctx context.Context, userID string, from, until time.Time) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService creates a CalendarService.
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) MemberFeed(ctx context.Context, userID string, from, until time.Time) (string, error) {
	entries, err := s.repo.Roster.ListByMemberUserAndRange(ctx, userID, from, until)
	if err != nil {
		s.logger.Error("listing roster entries failed", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//escala//roster//EN")

	for i := range entries {
		e := &entries[i]

		event := cal.AddEvent(fmt.Sprintf("roster-%s@escala", e.RosterEntryID))
		event.SetAllDayStartAt(e.ScheduleDate)
		event.SetAllDayEndAt(e.ScheduleDate.AddDate(0, 0, 1))
		event.SetDtStampTime(time.Now())

		summary := "Service"
		if e.ServiceDay != nil {
			summary = e.ServiceDay.Name
		}
		if e.Function != nil {
			summary += " - " + e.Function.Name
		}
		event.SetSummary(summary)
	}

	return cal.Serialize(), nil
}
