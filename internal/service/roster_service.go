package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"escala/backend/internal/dto"
	"escala/backend/internal/model"
	"escala/backend/internal/repository"
)

// ── roster business errors ──

var (
	ErrRosterEntryNotFound   = errors.New("roster entry not found")
	ErrSlotOccupied          = errors.New("roster slot already filled")
	ErrMemberNotInDepartment = errors.New("member does not belong to the department")
	ErrMemberLacksFunction   = errors.New("member does not hold the function")
	ErrWeekdayMismatch       = errors.New("date does not fall on the service day's weekday")
)

// RosterService creates and removes roster assignments. Mutations require the
// caller to be an organization admin or a leader of the department; every
// department lookup is scoped to the caller's organization.
type RosterService interface {
	// Assign fills one slot. The insert is optimistic: a concurrent leader
	// filling the same slot surfaces as ErrSlotOccupied from the unique index,
	// not from a pre-check.
	Assign(ctx context.Context, organizationID, departmentID string, req *dto.AssignRequest, callerID string) (*dto.RosterEntryResponse, error)
	// Unassign deletes unconditionally; callers re-query eligibility afterward.
	Unassign(ctx context.Context, organizationID, rosterEntryID string, callerID string) error
	ListByDepartmentMonth(ctx context.Context, organizationID, departmentID string, month time.Time) ([]dto.RosterEntryResponse, error)
	ListByUser(ctx context.Context, userID string, from, until time.Time) ([]dto.RosterEntryResponse, error)
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService creates a RosterService.
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger}
}

// ────────────────────── Assign ──────────────────────

func (s *rosterService) Assign(ctx context.Context, organizationID, departmentID string, req *dto.AssignRequest, callerID string) (*dto.RosterEntryResponse, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.deptScoped(ctx, organizationID, departmentID); err != nil {
		return nil, err
	}
	if err := requireDeptLeader(ctx, s.repo, departmentID, callerID); err != nil {
		return nil, err
	}

	fn, err := s.repo.Function.GetByID(ctx, req.FunctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFunctionNotFound
		}
		s.logger.Error("fetching function failed", zap.Error(err))
		return nil, err
	}
	if fn.DepartmentID != departmentID {
		return nil, ErrFunctionNotFound
	}

	member, err := s.repo.Member.GetByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotInDepartment
		}
		s.logger.Error("fetching member failed", zap.Error(err))
		return nil, err
	}
	if member.DepartmentID != departmentID {
		return nil, ErrMemberNotInDepartment
	}

	holds, err := s.repo.Member.HoldsFunction(ctx, req.MemberID, req.FunctionID)
	if err != nil {
		s.logger.Error("checking member function failed", zap.Error(err))
		return nil, err
	}
	if !holds {
		return nil, ErrMemberLacksFunction
	}

	day, err := s.repo.ServiceDay.GetByID(ctx, req.ServiceDayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceDayNotFound
		}
		s.logger.Error("fetching service day failed", zap.Error(err))
		return nil, err
	}
	if int(date.Weekday()) != day.Weekday {
		return nil, ErrWeekdayMismatch
	}

	entry := &model.RosterEntry{
		DepartmentID: departmentID,
		FunctionID:   req.FunctionID,
		MemberID:     req.MemberID,
		ServiceDayID: req.ServiceDayID,
		ScheduleDate: date,
	}
	entry.CreatedBy = &callerID
	entry.UpdatedBy = &callerID

	if err := s.repo.Roster.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, ErrSlotOccupied
		}
		s.logger.Error("creating roster entry failed", zap.Error(err))
		return nil, err
	}

	resp := s.toRosterEntryResponse(entry)
	resp.FunctionName = fn.Name
	resp.ServiceName = day.Name
	if member.User != nil {
		resp.MemberName = member.User.Name
	}
	return resp, nil
}

// ────────────────────── Unassign ──────────────────────

func (s *rosterService) Unassign(ctx context.Context, organizationID, rosterEntryID string, callerID string) error {
	entry, err := s.repo.Roster.GetByID(ctx, rosterEntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRosterEntryNotFound
		}
		s.logger.Error("fetching roster entry failed", zap.Error(err))
		return err
	}

	// entries of other organizations stay invisible
	if _, err := s.deptScoped(ctx, organizationID, entry.DepartmentID); err != nil {
		return ErrRosterEntryNotFound
	}
	if err := requireDeptLeader(ctx, s.repo, entry.DepartmentID, callerID); err != nil {
		return err
	}

	if err := s.repo.Roster.Delete(ctx, rosterEntryID, callerID); err != nil {
		s.logger.Error("deleting roster entry failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── listings ──────────────────────

func (s *rosterService) ListByDepartmentMonth(ctx context.Context, organizationID, departmentID string, month time.Time) ([]dto.RosterEntryResponse, error) {
	if _, err := s.deptScoped(ctx, organizationID, departmentID); err != nil {
		return nil, err
	}

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	entries, err := s.repo.Roster.ListByDepartmentAndRange(ctx, departmentID, first, last)
	if err != nil {
		s.logger.Error("listing roster entries failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RosterEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *s.toRosterEntryResponse(&entries[i]))
	}
	return result, nil
}

func (s *rosterService) ListByUser(ctx context.Context, userID string, from, until time.Time) ([]dto.RosterEntryResponse, error) {
	entries, err := s.repo.Roster.ListByMemberUserAndRange(ctx, userID, from, until)
	if err != nil {
		s.logger.Error("listing member roster entries failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RosterEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *s.toRosterEntryResponse(&entries[i]))
	}
	return result, nil
}

func (s *rosterService) deptScoped(ctx context.Context, organizationID, departmentID string) (*model.Department, error) {
	dept, err := s.repo.Department.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("fetching department failed", zap.Error(err))
		return nil, err
	}
	if dept.OrganizationID != organizationID {
		return nil, ErrDepartmentNotFound
	}
	return dept, nil
}

func (s *rosterService) toRosterEntryResponse(entry *model.RosterEntry) *dto.RosterEntryResponse {
	resp := &dto.RosterEntryResponse{
		ID:           entry.RosterEntryID,
		DepartmentID: entry.DepartmentID,
		FunctionID:   entry.FunctionID,
		MemberID:     entry.MemberID,
		ServiceDayID: entry.ServiceDayID,
		Date:         entry.ScheduleDate.Format(dateLayout),
	}
	if entry.Function != nil {
		resp.FunctionName = entry.Function.Name
	}
	if entry.ServiceDay != nil {
		resp.ServiceName = entry.ServiceDay.Name
	}
	if entry.Member != nil && entry.Member.User != nil {
		resp.MemberName = entry.Member.User.Name
	}
	return resp
}
