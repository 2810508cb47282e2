package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"escala/backend/internal/dto"
	"escala/backend/internal/model"
)

// ── test helpers ──

// Calendar facts used below: 2026-03-01 is a Sunday, so Sundays in
// March 2026 fall on the 1st, 8th, 15th, 22nd and 29th; 2026-03-04 is
// a Wednesday.

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func setupAvailabilityFixture() (*mockRepos, *availabilityService) {
	m := newMockRepos()
	ctx := context.Background()

	m.org.Create(ctx, &model.Organization{OrganizationID: "org-1", Name: "Igreja Central"})
	m.user.Create(ctx, &model.User{UserID: "user-ana", OrganizationID: "org-1", Name: "Ana", Email: "ana@example.com"})
	m.serviceDay.Create(ctx, &model.ServiceDay{ServiceDayID: "sd-sun-am", OrganizationID: "org-1", Weekday: 0, Name: "Sunday Morning"})
	m.serviceDay.Create(ctx, &model.ServiceDay{ServiceDayID: "sd-sun-pm", OrganizationID: "org-1", Weekday: 0, Name: "Sunday Evening"})
	m.serviceDay.Create(ctx, &model.ServiceDay{ServiceDayID: "sd-wed", OrganizationID: "org-1", Weekday: 3, Name: "Midweek Prayer"})

	svc := NewAvailabilityService(m.repo, zap.NewNop()).(*availabilityService)
	return m, svc
}

// addMembership puts the user in a department with the given deadline day.
func addMembership(m *mockRepos, userID, deptID string, deadlineDay int) {
	ctx := context.Background()
	m.dept.Create(ctx, &model.Department{
		DepartmentID:            deptID,
		OrganizationID:          "org-1",
		Name:                    deptID,
		AvailabilityDeadlineDay: deadlineDay,
		IsActive:                true,
	})
	m.member.Create(ctx, &model.DepartmentMember{
		DepartmentID: deptID,
		UserID:       userID,
		DeptRole:     model.DeptRoleMember,
	})
}

// ── EditableMonth ──

func TestEditableMonth(t *testing.T) {
	cases := []struct {
		name        string
		today       string
		deadlineDay int
		want        string
	}{
		{"on deadline day opens next month", "2026-03-20", 20, "2026-04"},
		{"past deadline day skips a month", "2026-03-21", 20, "2026-05"},
		{"start of month opens next month", "2026-03-01", 20, "2026-04"},
		{"end of month skips a month", "2026-03-31", 20, "2026-05"},
		{"earlier department deadline", "2026-03-16", 15, "2026-05"},
		{"zero falls back to default", "2026-03-10", 0, "2026-04"},
		{"december rolls the year", "2026-12-28", 20, "2027-02"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			today, err := time.Parse(dateLayout, tc.today)
			if err != nil {
				t.Fatalf("bad fixture date: %v", err)
			}
			got := EditableMonth(today, tc.deadlineDay)
			if got.Format("2006-01") != tc.want {
				t.Errorf("EditableMonth(%s, %d) = %s, want %s", tc.today, tc.deadlineDay, got.Format("2006-01"), tc.want)
			}
			if got.Day() != 1 {
				t.Errorf("expected first of month, got day %d", got.Day())
			}
		})
	}
}

// ── Resolve precedence ──

func TestAvailabilityService_Resolve_DefaultAvailable(t *testing.T) {
	_, svc := setupAvailabilityFixture()

	date, _ := time.Parse(dateLayout, "2026-03-01")
	available, err := svc.Resolve(context.Background(), "user-ana", date, "sd-sun-am")
	if err != nil {
		t.Fatalf("Resolve should succeed: %v", err)
	}
	if !available {
		t.Error("a user with no routine and no exception must resolve available")
	}
}

func TestAvailabilityService_Resolve_RoutineBlocks(t *testing.T) {
	m, svc := setupAvailabilityFixture()
	ctx := context.Background()

	m.availability.UpsertRoutine(ctx, &model.AvailabilityRoutine{
		UserID: "user-ana", ServiceDayID: "sd-sun-am", IsAvailable: false,
	})

	date, _ := time.Parse(dateLayout, "2026-03-01")
	available, err := svc.Resolve(ctx, "user-ana", date, "sd-sun-am")
	if err != nil {
		t.Fatalf("Resolve should succeed: %v", err)
	}
	if available {
		t.Error("routine is_available=false must resolve unavailable")
	}

	// the evening service has no routine row and stays available
	available, err = svc.Resolve(ctx, "user-ana", date, "sd-sun-pm")
	if err != nil {
		t.Fatalf("Resolve should succeed: %v", err)
	}
	if !available {
		t.Error("routine for one service day must not leak onto another")
	}
}

func TestAvailabilityService_Resolve_WholeDayOverridesRoutine(t *testing.T) {
	m, svc := setupAvailabilityFixture()
	ctx := context.Background()

	date, _ := time.Parse(dateLayout, "2026-03-08")
	m.availability.UpsertRoutine(ctx, &model.AvailabilityRoutine{
		UserID: "user-ana", ServiceDayID: "sd-sun-am", IsAvailable: false,
	})
	m.availability.UpsertException(ctx, &model.AvailabilityException{
		UserID: "user-ana", SpecificDate: date, ServiceDayID: nil, IsAvailable: true,
	})

	available, err := svc.Resolve(ctx, "user-ana", date, "sd-sun-am")
	if err != nil {
		t.Fatalf("Resolve should succeed: %v", err)
	}
	if !available {
		t.Error("a whole-day exception must override the routine")
	}

	// other Sundays keep the routine answer
	other, _ := time.Parse(dateLayout, "2026-03-15")
	available, err = svc.Resolve(ctx, "user-ana", other, "sd-sun-am")
	if err != nil {
		t.Fatalf("Resolve should succeed: %v", err)
	}
	if available {
		t.Error("the exception is date-specific and must not affect other dates")
	}
}

func TestAvailabilityService_Resolve_ScopedOverridesWholeDay(t *testing.T) {
	m, svc := setupAvailabilityFixture()
	ctx := context.Background()

	date, _ := time.Parse(dateLayout, "2026-03-08")
	m.availability.UpsertException(ctx, &model.AvailabilityException{
		UserID: "user-ana", SpecificDate: date, ServiceDayID: nil, IsAvailable: false,
	})
	m.availability.UpsertException(ctx, &model.AvailabilityException{
		UserID: "user-ana", SpecificDate: date, ServiceDayID: strPtr("sd-sun-pm"), IsAvailable: true,
	})

	// the scoped row wins for its own service
	available, err := svc.Resolve(ctx, "user-ana", date, "sd-sun-pm")
	if err != nil {
		t.Fatalf("Resolve should succeed: %v", err)
	}
	if !available {
		t.Error("a service-scoped exception must override the whole-day one")
	}

	// the whole-day row still covers the morning service
	available, err = svc.Resolve(ctx, "user-ana", date, "sd-sun-am")
	if err != nil {
		t.Fatalf("Resolve should succeed: %v", err)
	}
	if available {
		t.Error("services without a scoped row must follow the whole-day exception")
	}
}

// ── SetRoutine ──

func TestAvailabilityService_SetRoutine_UnknownServiceDay(t *testing.T) {
	_, svc := setupAvailabilityFixture()

	_, err := svc.SetRoutine(context.Background(), "user-ana", &dto.SetRoutineRequest{
		ServiceDayID: "sd-missing", IsAvailable: boolPtr(false),
	})
	if !errors.Is(err, ErrServiceDayNotFound) {
		t.Errorf("expected ErrServiceDayNotFound, got: %v", err)
	}
}

func TestAvailabilityService_SetRoutine_UpsertReplaces(t *testing.T) {
	m, svc := setupAvailabilityFixture()
	ctx := context.Background()

	if _, err := svc.SetRoutine(ctx, "user-ana", &dto.SetRoutineRequest{
		ServiceDayID: "sd-sun-am", IsAvailable: boolPtr(false),
	}); err != nil {
		t.Fatalf("first SetRoutine should succeed: %v", err)
	}
	resp, err := svc.SetRoutine(ctx, "user-ana", &dto.SetRoutineRequest{
		ServiceDayID: "sd-sun-am", IsAvailable: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("second SetRoutine should succeed: %v", err)
	}
	if !resp.IsAvailable {
		t.Error("second write must report the new value")
	}
	if len(m.availability.routines) != 1 {
		t.Errorf("upsert must keep one row per (user, service day), got %d", len(m.availability.routines))
	}
	if got := m.availability.routines[routineKey("user-ana", "sd-sun-am")]; !got.IsAvailable {
		t.Error("stored routine must carry the latest value")
	}
}

// ── SetException and the deadline ──

func TestAvailabilityService_SetException_BeforeDeadline(t *testing.T) {
	_, svc := setupAvailabilityFixture()
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	// on March 10 the open month is April
	resp, err := svc.SetException(context.Background(), "user-ana", &dto.SetExceptionRequest{
		Date: "2026-04-05", IsAvailable: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("SetException inside the open month should succeed: %v", err)
	}
	if resp.IsAvailable {
		t.Error("response must echo the written value")
	}
}

func TestAvailabilityService_SetException_PastDeadline(t *testing.T) {
	_, svc := setupAvailabilityFixture()
	svc.now = func() time.Time { return time.Date(2026, 3, 21, 9, 0, 0, 0, time.UTC) }

	// past March 20 the whole of April is closed
	_, err := svc.SetException(context.Background(), "user-ana", &dto.SetExceptionRequest{
		Date: "2026-04-05", IsAvailable: boolPtr(false),
	})
	if !errors.Is(err, ErrDeadlineExceeded) {
		t.Errorf("expected ErrDeadlineExceeded, got: %v", err)
	}

	// the failure names the month that is still open
	var deadlineErr *DeadlineError
	if !errors.As(err, &deadlineErr) {
		t.Fatalf("expected a DeadlineError, got: %v", err)
	}
	if got := deadlineErr.EditableMonth.Format("2006-01"); got != "2026-05" {
		t.Errorf("expected editable month 2026-05 in the error, got %s", got)
	}

	// May stays writable
	if _, err := svc.SetException(context.Background(), "user-ana", &dto.SetExceptionRequest{
		Date: "2026-05-03", IsAvailable: boolPtr(false),
	}); err != nil {
		t.Errorf("SetException for the month after should succeed: %v", err)
	}
}

func TestAvailabilityService_SetException_DepartmentDeadlineApplies(t *testing.T) {
	m, svc := setupAvailabilityFixture()
	addMembership(m, "user-ana", "dept-worship", 15)
	svc.now = func() time.Time { return time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC) }

	// past the department's day 15, April has already closed
	_, err := svc.SetException(context.Background(), "user-ana", &dto.SetExceptionRequest{
		Date: "2026-04-05", IsAvailable: boolPtr(false),
	})
	if !errors.Is(err, ErrDeadlineExceeded) {
		t.Errorf("expected ErrDeadlineExceeded under the department deadline, got: %v", err)
	}
}

func TestAvailabilityService_SetException_StrictestDeadlineWins(t *testing.T) {
	m, svc := setupAvailabilityFixture()
	addMembership(m, "user-ana", "dept-worship", 25)
	addMembership(m, "user-ana", "dept-reception", 10)
	svc.now = func() time.Time { return time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC) }

	// day 12 is fine for dept-worship (25) but past dept-reception (10)
	_, err := svc.SetException(context.Background(), "user-ana", &dto.SetExceptionRequest{
		Date: "2026-04-05", IsAvailable: boolPtr(false),
	})
	if !errors.Is(err, ErrDeadlineExceeded) {
		t.Errorf("the earliest department deadline must apply, got: %v", err)
	}
}

func TestAvailabilityService_SetException_UpsertKeepsScopesApart(t *testing.T) {
	m, svc := setupAvailabilityFixture()
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	// whole-day and service-scoped rows on the same date are distinct keys
	if _, err := svc.SetException(ctx, "user-ana", &dto.SetExceptionRequest{
		Date: "2026-04-05", IsAvailable: boolPtr(false),
	}); err != nil {
		t.Fatalf("whole-day write should succeed: %v", err)
	}
	if _, err := svc.SetException(ctx, "user-ana", &dto.SetExceptionRequest{
		Date: "2026-04-05", ServiceDayID: strPtr("sd-sun-am"), IsAvailable: boolPtr(true),
	}); err != nil {
		t.Fatalf("scoped write should succeed: %v", err)
	}
	if len(m.availability.exceptions) != 2 {
		t.Fatalf("expected 2 exception rows, got %d", len(m.availability.exceptions))
	}

	// repeating the scoped write replaces, not duplicates
	if _, err := svc.SetException(ctx, "user-ana", &dto.SetExceptionRequest{
		Date: "2026-04-05", ServiceDayID: strPtr("sd-sun-am"), IsAvailable: boolPtr(false),
	}); err != nil {
		t.Fatalf("repeated scoped write should succeed: %v", err)
	}
	if len(m.availability.exceptions) != 2 {
		t.Errorf("upsert must not add a third row, got %d", len(m.availability.exceptions))
	}
}

func TestAvailabilityService_DeleteException_PastDeadline(t *testing.T) {
	m, svc := setupAvailabilityFixture()
	svc.now = func() time.Time { return time.Date(2026, 3, 21, 9, 0, 0, 0, time.UTC) }

	date, _ := time.Parse(dateLayout, "2026-04-05")
	m.availability.UpsertException(context.Background(), &model.AvailabilityException{
		UserID: "user-ana", SpecificDate: date, IsAvailable: false,
	})

	err := svc.DeleteException(context.Background(), "user-ana", &dto.DeleteExceptionRequest{Date: "2026-04-05"})
	if !errors.Is(err, ErrDeadlineExceeded) {
		t.Errorf("deleting inside a closed month must fail, got: %v", err)
	}
	if len(m.availability.exceptions) != 1 {
		t.Error("the row must survive a rejected delete")
	}
}

// ── MonthOverview ──

func TestAvailabilityService_MonthOverview(t *testing.T) {
	m, svc := setupAvailabilityFixture()
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	m.availability.UpsertRoutine(ctx, &model.AvailabilityRoutine{
		UserID: "user-ana", ServiceDayID: "sd-wed", IsAvailable: false,
	})
	excDate, _ := time.Parse(dateLayout, "2026-04-05")
	m.availability.UpsertException(ctx, &model.AvailabilityException{
		UserID: "user-ana", SpecificDate: excDate, ServiceDayID: strPtr("sd-sun-am"), IsAvailable: false,
	})

	month, _ := time.Parse("2006-01", "2026-04")
	overview, err := svc.MonthOverview(ctx, "user-ana", month)
	if err != nil {
		t.Fatalf("MonthOverview should succeed: %v", err)
	}

	if overview.Month != "2026-04" {
		t.Errorf("expected month 2026-04, got %s", overview.Month)
	}
	if overview.EditableMonth != "2026-04" {
		t.Errorf("expected editable month 2026-04, got %s", overview.EditableMonth)
	}
	if !overview.Editable {
		t.Error("April must be editable on March 10")
	}

	// April 2026: Sundays on 5, 12, 19, 26 (2 services each) and
	// Wednesdays on 1, 8, 15, 22, 29
	if len(overview.Days) != 4*2+5 {
		t.Fatalf("expected 13 service occurrences, got %d", len(overview.Days))
	}

	for _, day := range overview.Days {
		switch {
		case day.Date == "2026-04-05" && day.ServiceDayID == "sd-sun-am":
			if day.IsAvailable || !day.FromException {
				t.Errorf("2026-04-05 sd-sun-am must be blocked by the exception: %+v", day)
			}
		case day.ServiceDayID == "sd-wed":
			if day.IsAvailable {
				t.Errorf("wednesdays must follow the routine: %+v", day)
			}
			if day.FromException {
				t.Errorf("routine answers must not be flagged as exceptions: %+v", day)
			}
		default:
			if !day.IsAvailable {
				t.Errorf("unconfigured occurrence must default to available: %+v", day)
			}
		}
	}
}

func TestAvailabilityService_MonthOverview_ClosedMonth(t *testing.T) {
	_, svc := setupAvailabilityFixture()
	svc.now = func() time.Time { return time.Date(2026, 3, 21, 9, 0, 0, 0, time.UTC) }

	month, _ := time.Parse("2006-01", "2026-04")
	overview, err := svc.MonthOverview(context.Background(), "user-ana", month)
	if err != nil {
		t.Fatalf("MonthOverview should succeed: %v", err)
	}
	if overview.Editable {
		t.Error("April must be read-only after March 20")
	}
	if overview.EditableMonth != "2026-05" {
		t.Errorf("expected editable month 2026-05, got %s", overview.EditableMonth)
	}
}

func TestAvailabilityService_ListExceptions(t *testing.T) {
	_, svc := setupAvailabilityFixture()
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	for _, req := range []*dto.SetExceptionRequest{
		{Date: "2026-04-05", ServiceDayID: strPtr("sd-sun-am"), IsAvailable: boolPtr(false)},
		{Date: "2026-04-12", IsAvailable: boolPtr(false)},
		{Date: "2026-05-03", ServiceDayID: strPtr("sd-sun-am"), IsAvailable: boolPtr(true)},
	} {
		if _, err := svc.SetException(ctx, "user-ana", req); err != nil {
			t.Fatalf("SetException failed: %v", err)
		}
	}

	april, err := svc.ListExceptions(ctx, "user-ana",
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListExceptions failed: %v", err)
	}
	if len(april) != 2 {
		t.Fatalf("expected 2 April exceptions, got %d", len(april))
	}
	for _, exc := range april {
		if exc.Date != "2026-04-05" && exc.Date != "2026-04-12" {
			t.Errorf("unexpected exception date %s", exc.Date)
		}
	}

	other, err := svc.ListExceptions(ctx, "user-bruno",
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListExceptions failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no exceptions for another user, got %d", len(other))
	}
}
