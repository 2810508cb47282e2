package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"escala/backend/internal/model"
)

func setupExportFixture(t *testing.T) (*mockRepos, ExportService) {
	t.Helper()
	m, _ := setupEligibilityFixture()
	ctx := context.Background()

	m.roster.Create(ctx, &model.RosterEntry{
		DepartmentID: "dept-worship", FunctionID: "fn-guitar", MemberID: "mem-ana",
		ServiceDayID: "sd-sun-am", ScheduleDate: mustDate(t, "2026-03-01"),
	})
	m.roster.Create(ctx, &model.RosterEntry{
		DepartmentID: "dept-worship", FunctionID: "fn-vocal", MemberID: "mem-carla",
		ServiceDayID: "sd-sun-am", ScheduleDate: mustDate(t, "2026-03-01"),
	})
	m.roster.Create(ctx, &model.RosterEntry{
		DepartmentID: "dept-worship", FunctionID: "fn-guitar", MemberID: "mem-bruno",
		ServiceDayID: "sd-sun-pm", ScheduleDate: mustDate(t, "2026-03-08"),
	})

	svc := NewExportService(m.repo, zap.NewNop())
	return m, svc
}

func TestExportService_ExportMonth(t *testing.T) {
	_, svc := setupExportFixture(t)

	buf, filename, err := svc.ExportMonth(context.Background(), "org-1", "dept-worship", mustDate(t, "2026-03-01"))
	if err != nil {
		t.Fatalf("ExportMonth should succeed: %v", err)
	}
	if filename != "roster-Worship-2026-03.xlsx" {
		t.Errorf("unexpected filename: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("the buffer must be a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("2026-03")
	if err != nil {
		t.Fatalf("the month sheet must exist: %v", err)
	}
	// header plus two service occurrences
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][1] != "Service" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "2026-03-01" {
		t.Errorf("occurrences must be date-ordered, got %v", rows[1])
	}
	joined := strings.Join(rows[1], "|")
	if !strings.Contains(joined, "Ana") || !strings.Contains(joined, "Carla") {
		t.Errorf("assigned member names must appear in the row: %v", rows[1])
	}
}

func TestExportService_ExportMonth_Errors(t *testing.T) {
	_, svc := setupExportFixture(t)
	ctx := context.Background()

	_, _, err := svc.ExportMonth(ctx, "org-1", "dept-missing", mustDate(t, "2026-03-01"))
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("expected ErrDepartmentNotFound, got: %v", err)
	}

	// a month without entries has nothing to export
	_, _, err = svc.ExportMonth(ctx, "org-1", "dept-worship", mustDate(t, "2026-07-01"))
	if !errors.Is(err, ErrExportNoEntries) {
		t.Errorf("expected ErrExportNoEntries, got: %v", err)
	}
}
