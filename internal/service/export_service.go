package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"escala/backend/internal/repository"
)

// ── export business errors ──

var (
	ErrExportNoEntries = errors.New("no roster entries for the month")
	ErrExportGenerate  = errors.New("generating excel file failed")
)

// ExportService renders a department's monthly roster as an Excel workbook.
//
// Format: one sheet per month, one row per service occurrence (date + service
// name, ascending), one column per department function, member name in each
// cell. Unfilled slots render as "-". The buffer is returned to the handler,
// which sets the download headers.
type ExportService interface {
	ExportMonth(ctx context.Context, organizationID, departmentID string, month time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportMonth(ctx context.Context, organizationID, departmentID string, month time.Time) (*bytes.Buffer, string, error) {
	dept, err := s.repo.Department.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrDepartmentNotFound
		}
		s.logger.Error("fetching department failed", zap.Error(err))
		return nil, "", err
	}
	if dept.OrganizationID != organizationID {
		return nil, "", ErrDepartmentNotFound
	}

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	entries, err := s.repo.Roster.ListByDepartmentAndRange(ctx, departmentID, first, last)
	if err != nil {
		s.logger.Error("listing roster entries failed", zap.Error(err))
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	functions, err := s.repo.Function.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("listing functions failed", zap.Error(err))
		return nil, "", err
	}

	// index: "date:serviceDay:function" → member name, plus the occurrence rows
	type occurrence struct {
		date        time.Time
		serviceID   string
		serviceName string
	}
	cellIndex := make(map[string]string)
	occSeen := make(map[string]bool)
	var occurrences []occurrence

	for i := range entries {
		e := &entries[i]
		name := "-"
		if e.Member != nil && e.Member.User != nil {
			name = e.Member.User.Name
		}
		cellIndex[fmt.Sprintf("%s:%s:%s", e.ScheduleDate.Format(dateLayout), e.ServiceDayID, e.FunctionID)] = name

		occKey := e.ScheduleDate.Format(dateLayout) + ":" + e.ServiceDayID
		if !occSeen[occKey] {
			occSeen[occKey] = true
			occ := occurrence{date: e.ScheduleDate, serviceID: e.ServiceDayID}
			if e.ServiceDay != nil {
				occ.serviceName = e.ServiceDay.Name
			}
			occurrences = append(occurrences, occ)
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if !occurrences[i].date.Equal(occurrences[j].date) {
			return occurrences[i].date.Before(occurrences[j].date)
		}
		return occurrences[i].serviceName < occurrences[j].serviceName
	})

	f := excelize.NewFile()
	defer f.Close()

	sheet := first.Format("2006-01")
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		s.logger.Error("renaming sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerate
	}

	// header row
	_ = f.SetCellValue(sheet, "A1", "Date")
	_ = f.SetCellValue(sheet, "B1", "Service")
	for col, fn := range functions {
		cell, _ := excelize.CoordinatesToCellName(col+3, 1)
		_ = f.SetCellValue(sheet, cell, fn.Name)
	}

	for row, occ := range occurrences {
		dateCell, _ := excelize.CoordinatesToCellName(1, row+2)
		_ = f.SetCellValue(sheet, dateCell, occ.date.Format(dateLayout))
		svcCell, _ := excelize.CoordinatesToCellName(2, row+2)
		_ = f.SetCellValue(sheet, svcCell, occ.serviceName)

		for col, fn := range functions {
			cell, _ := excelize.CoordinatesToCellName(col+3, row+2)
			value := cellIndex[fmt.Sprintf("%s:%s:%s", occ.date.Format(dateLayout), occ.serviceID, fn.FunctionID)]
			if value == "" {
				value = "-"
			}
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("writing excel buffer failed", zap.Error(err))
		return nil, "", ErrExportGenerate
	}

	filename := fmt.Sprintf("roster-%s-%s.xlsx", dept.Name, sheet)
	return buf, filename, nil
}
