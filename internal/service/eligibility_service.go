package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"escala/backend/internal/dto"
	"escala/backend/internal/model"
	"escala/backend/internal/repository"
)

// ── eligibility business errors ──

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrFunctionNotFound   = errors.New("function not found")
)

// EligibilityService computes the candidate pool for a roster slot.
type EligibilityService interface {
	// FindEligibleMembers returns department members who hold the function,
	// are available on the date per routine/exception resolution, and hold no
	// assignment anywhere in the organization for the same (date, service day)
	// slot. A nil serviceDayID considers every service occurring on the date's
	// weekday. Result is ordered by full name; empty when nobody qualifies.
	FindEligibleMembers(ctx context.Context, organizationID, departmentID, functionID string, date time.Time, serviceDayID *string) ([]dto.EligibleMemberResponse, error)
}

type eligibilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEligibilityService creates an EligibilityService.
func NewEligibilityService(repo *repository.Repository, logger *zap.Logger) EligibilityService {
	return &eligibilityService{repo: repo, logger: logger}
}

func (s *eligibilityService) FindEligibleMembers(ctx context.Context, organizationID, departmentID, functionID string, date time.Time, serviceDayID *string) ([]dto.EligibleMemberResponse, error) {
	// scope checks: department in organization, function in department
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

	fn, err := s.repo.Function.GetByID(ctx, functionID)
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

	// the service occurrences the date implies
	var serviceDays []model.ServiceDay
	if serviceDayID != nil {
		day, err := s.repo.ServiceDay.GetByID(ctx, *serviceDayID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrServiceDayNotFound
			}
			s.logger.Error("fetching service day failed", zap.Error(err))
			return nil, err
		}
		serviceDays = []model.ServiceDay{*day}
	} else {
		serviceDays, err = s.repo.ServiceDay.ListByWeekday(ctx, organizationID, int(date.Weekday()))
		if err != nil {
			s.logger.Error("listing service days failed", zap.Error(err))
			return nil, err
		}
	}
	if len(serviceDays) == 0 {
		return []dto.EligibleMemberResponse{}, nil
	}

	// membership + function filters in one query
	members, err := s.repo.Member.ListByDepartmentAndFunction(ctx, departmentID, functionID)
	if err != nil {
		s.logger.Error("listing members by function failed", zap.Error(err))
		return nil, err
	}
	if len(members) == 0 {
		return []dto.EligibleMemberResponse{}, nil
	}

	userIDs := make([]string, 0, len(members))
	for i := range members {
		userIDs = append(userIDs, members[i].UserID)
	}

	excs, err := s.repo.Availability.ListExceptionsByUsersAndDate(ctx, userIDs, date)
	if err != nil {
		s.logger.Error("listing exceptions failed", zap.Error(err))
		return nil, err
	}

	// per service day: routines and already-assigned users org-wide
	type dayState struct {
		routines map[string]bool // user id → is_available
		assigned map[string]bool // user id → has a conflicting entry
	}
	states := make([]dayState, 0, len(serviceDays))
	for i := range serviceDays {
		routines, err := s.repo.Availability.ListRoutinesByUsers(ctx, userIDs, serviceDays[i].ServiceDayID)
		if err != nil {
			s.logger.Error("listing routines failed", zap.Error(err))
			return nil, err
		}
		routineMap := make(map[string]bool, len(routines))
		for j := range routines {
			routineMap[routines[j].UserID] = routines[j].IsAvailable
		}

		assignedIDs, err := s.repo.Roster.ListAssignedUserIDs(ctx, organizationID, date, serviceDays[i].ServiceDayID)
		if err != nil {
			s.logger.Error("listing assigned users failed", zap.Error(err))
			return nil, err
		}
		assignedMap := make(map[string]bool, len(assignedIDs))
		for _, id := range assignedIDs {
			assignedMap[id] = true
		}

		states = append(states, dayState{routines: routineMap, assigned: assignedMap})
	}

	result := make([]dto.EligibleMemberResponse, 0, len(members))
	for i := range members {
		m := &members[i]
		eligible := true
		for j := range serviceDays {
			scoped, wholeDay := splitExceptions(excs, m.UserID, serviceDays[j].ServiceDayID)
			var routineVal *bool
			if v, ok := states[j].routines[m.UserID]; ok {
				routineVal = &v
			}
			if !resolveDecision(scoped, wholeDay, routineVal) || states[j].assigned[m.UserID] {
				eligible = false
				break
			}
		}
		if !eligible {
			continue
		}

		row := dto.EligibleMemberResponse{
			UserID:       m.UserID,
			MemberID:     m.MemberID,
			FunctionID:   fn.FunctionID,
			FunctionName: fn.Name,
			IsAvailable:  true,
		}
		if m.User != nil {
			row.FullName = m.User.Name
			row.Email = m.User.Email
			row.AvatarURL = m.User.AvatarURL
		}
		result = append(result, row)
	}

	// deterministic pick-list order
	sort.Slice(result, func(i, j int) bool {
		if result[i].FullName != result[j].FullName {
			return result[i].FullName < result[j].FullName
		}
		return result[i].UserID < result[j].UserID
	})

	return result, nil
}
