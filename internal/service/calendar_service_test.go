package service

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"escala/backend/internal/model"
)

func TestCalendarService_MemberFeed(t *testing.T) {
	m, _ := setupEligibilityFixture()
	ctx := context.Background()

	m.roster.Create(ctx, &model.RosterEntry{
		RosterEntryID: "re-1",
		DepartmentID:  "dept-worship", FunctionID: "fn-guitar", MemberID: "mem-ana",
		ServiceDayID: "sd-sun-am", ScheduleDate: mustDate(t, "2026-03-01"),
	})
	// Bruno's entry stays out of Ana's feed
	m.roster.Create(ctx, &model.RosterEntry{
		RosterEntryID: "re-2",
		DepartmentID:  "dept-worship", FunctionID: "fn-guitar", MemberID: "mem-bruno",
		ServiceDayID: "sd-sun-pm", ScheduleDate: mustDate(t, "2026-03-01"),
	})

	svc := NewCalendarService(m.repo, zap.NewNop())
	feed, err := svc.MemberFeed(ctx, "user-ana", mustDate(t, "2026-03-01"), mustDate(t, "2026-03-31"))
	if err != nil {
		t.Fatalf("MemberFeed should succeed: %v", err)
	}

	if !strings.Contains(feed, "BEGIN:VCALENDAR") || !strings.Contains(feed, "END:VCALENDAR") {
		t.Error("the feed must be a calendar document")
	}
	if !strings.Contains(feed, "roster-re-1@escala") {
		t.Error("Ana's entry must appear as an event")
	}
	if strings.Contains(feed, "roster-re-2@escala") {
		t.Error("another member's entry must not leak into the feed")
	}
	if !strings.Contains(feed, "Sunday Morning - Guitarist") {
		t.Error("the event summary carries the service and function names")
	}
}

func TestCalendarService_MemberFeed_Empty(t *testing.T) {
	m, _ := setupEligibilityFixture()

	svc := NewCalendarService(m.repo, zap.NewNop())
	feed, err := svc.MemberFeed(context.Background(), "user-ana", mustDate(t, "2026-03-01"), mustDate(t, "2026-03-31"))
	if err != nil {
		t.Fatalf("MemberFeed should succeed: %v", err)
	}
	if !strings.Contains(feed, "BEGIN:VCALENDAR") {
		t.Error("an empty feed is still a valid calendar")
	}
	if strings.Contains(feed, "BEGIN:VEVENT") {
		t.Error("no assignments means no events")
	}
}
