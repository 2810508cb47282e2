package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"escala/backend/internal/dto"
	"escala/backend/internal/model"
	"escala/backend/internal/repository"
)

// ── membership business errors ──

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyMember      = errors.New("user already belongs to the department")
	ErrFunctionWrongScope = errors.New("function does not belong to the department")
	ErrUserOutsideOrg     = errors.New("user belongs to another organization")
)

// MemberService manages department membership and held functions. Writes
// require the caller to be an organization admin or a leader of the
// department.
type MemberService interface {
	Add(ctx context.Context, organizationID, departmentID string, req *dto.AddMemberRequest, callerID string) (*dto.MemberResponse, error)
	List(ctx context.Context, organizationID, departmentID string) ([]dto.MemberResponse, error)
	Update(ctx context.Context, organizationID, departmentID, memberID string, req *dto.UpdateMemberRequest, callerID string) (*dto.MemberResponse, error)
	// Remove deletes the membership and cascades deletion of the member's
	// roster entries.
	Remove(ctx context.Context, organizationID, departmentID, memberID string, callerID string) error
}

type memberService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMemberService creates a MemberService.
func NewMemberService(repo *repository.Repository, logger *zap.Logger) MemberService {
	return &memberService{repo: repo, logger: logger}
}

// ────────────────────── Add ──────────────────────

func (s *memberService) Add(ctx context.Context, organizationID, departmentID string, req *dto.AddMemberRequest, callerID string) (*dto.MemberResponse, error) {
	dept, err := s.deptScoped(ctx, organizationID, departmentID)
	if err != nil {
		return nil, err
	}
	if err := requireDeptLeader(ctx, s.repo, departmentID, callerID); err != nil {
		return nil, err
	}

	user, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("fetching user failed", zap.Error(err))
		return nil, err
	}
	if user.OrganizationID != organizationID {
		return nil, ErrUserOutsideOrg
	}

	existing, err := s.repo.Member.GetByDepartmentAndUser(ctx, departmentID, req.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("fetching membership failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	if err := s.validateFunctions(ctx, dept.DepartmentID, req.FunctionIDs); err != nil {
		return nil, err
	}

	role := req.DeptRole
	if role == "" {
		role = model.DeptRoleMember
	}

	member := &model.DepartmentMember{
		DepartmentID: departmentID,
		UserID:       req.UserID,
		DeptRole:     role,
	}
	member.CreatedBy = &callerID
	member.UpdatedBy = &callerID

	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.logger.Error("creating membership failed", zap.Error(err))
		return nil, err
	}

	if len(req.FunctionIDs) > 0 {
		if err := s.repo.Member.ReplaceFunctions(ctx, member.MemberID, req.FunctionIDs, callerID); err != nil {
			s.logger.Error("setting member functions failed", zap.Error(err))
			return nil, err
		}
	}

	return s.loadMemberResponse(ctx, member.MemberID)
}

// ────────────────────── List ──────────────────────

func (s *memberService) List(ctx context.Context, organizationID, departmentID string) ([]dto.MemberResponse, error) {
	if _, err := s.deptScoped(ctx, organizationID, departmentID); err != nil {
		return nil, err
	}

	members, err := s.repo.Member.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("listing members failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		result = append(result, *toMemberResponse(&members[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *memberService) Update(ctx context.Context, organizationID, departmentID, memberID string, req *dto.UpdateMemberRequest, callerID string) (*dto.MemberResponse, error) {
	if _, err := s.deptScoped(ctx, organizationID, departmentID); err != nil {
		return nil, err
	}
	if err := requireDeptLeader(ctx, s.repo, departmentID, callerID); err != nil {
		return nil, err
	}

	member, err := s.memberScoped(ctx, departmentID, memberID)
	if err != nil {
		return nil, err
	}

	if req.DeptRole != nil {
		member.DeptRole = *req.DeptRole
		member.UpdatedBy = &callerID
		if err := s.repo.Member.Update(ctx, member); err != nil {
			s.logger.Error("updating membership failed", zap.Error(err))
			return nil, err
		}
	}

	if req.FunctionIDs != nil {
		if err := s.validateFunctions(ctx, departmentID, req.FunctionIDs); err != nil {
			return nil, err
		}
		if err := s.repo.Member.ReplaceFunctions(ctx, memberID, req.FunctionIDs, callerID); err != nil {
			s.logger.Error("replacing member functions failed", zap.Error(err))
			return nil, err
		}
	}

	return s.loadMemberResponse(ctx, memberID)
}

// ────────────────────── Remove ──────────────────────

func (s *memberService) Remove(ctx context.Context, organizationID, departmentID, memberID string, callerID string) error {
	if _, err := s.deptScoped(ctx, organizationID, departmentID); err != nil {
		return err
	}
	if err := requireDeptLeader(ctx, s.repo, departmentID, callerID); err != nil {
		return err
	}
	if _, err := s.memberScoped(ctx, departmentID, memberID); err != nil {
		return err
	}

	// roster entries of a removed member go with the membership
	if err := s.repo.Roster.DeleteByMember(ctx, memberID, callerID); err != nil {
		s.logger.Error("cascading roster deletion failed", zap.Error(err))
		return err
	}

	if err := s.repo.Member.Delete(ctx, memberID, callerID); err != nil {
		s.logger.Error("deleting membership failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── helpers ──────────────────────

func (s *memberService) deptScoped(ctx context.Context, organizationID, departmentID string) (*model.Department, error) {
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

func (s *memberService) memberScoped(ctx context.Context, departmentID, memberID string) (*model.DepartmentMember, error) {
	member, err := s.repo.Member.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		s.logger.Error("fetching member failed", zap.Error(err))
		return nil, err
	}
	if member.DepartmentID != departmentID {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (s *memberService) validateFunctions(ctx context.Context, departmentID string, functionIDs []string) error {
	for _, fnID := range functionIDs {
		fn, err := s.repo.Function.GetByID(ctx, fnID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFunctionNotFound
			}
			return err
		}
		if fn.DepartmentID != departmentID {
			return ErrFunctionWrongScope
		}
	}
	return nil
}

func (s *memberService) loadMemberResponse(ctx context.Context, memberID string) (*dto.MemberResponse, error) {
	member, err := s.repo.Member.GetByID(ctx, memberID)
	if err != nil {
		s.logger.Error("reloading member failed", zap.Error(err))
		return nil, err
	}
	return toMemberResponse(member), nil
}

func toMemberResponse(member *model.DepartmentMember) *dto.MemberResponse {
	resp := &dto.MemberResponse{
		MemberID:  member.MemberID,
		UserID:    member.UserID,
		DeptRole:  member.DeptRole,
		Functions: make([]dto.FunctionResponse, 0, len(member.Functions)),
	}
	if member.User != nil {
		resp.Name = member.User.Name
		resp.Email = member.User.Email
		resp.AvatarURL = member.User.AvatarURL
	}
	for i := range member.Functions {
		mf := &member.Functions[i]
		fn := dto.FunctionResponse{ID: mf.FunctionID}
		if mf.Function != nil {
			fn.Name = mf.Function.Name
			fn.DepartmentID = mf.Function.DepartmentID
		}
		resp.Functions = append(resp.Functions, fn)
	}
	return resp
}
