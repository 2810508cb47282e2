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

// ── department business errors ──

var (
	ErrDepartmentNameExists = errors.New("department name already exists")
	ErrDepartmentHasMembers = errors.New("department has members and cannot be deleted")
	ErrParentNotFound       = errors.New("parent department not found")
	ErrNestingTooDeep       = errors.New("departments nest at most one level")
)

// DepartmentService manages departments and their functions.
type DepartmentService interface {
	Create(ctx context.Context, organizationID string, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, organizationID, id string) (*dto.DepartmentResponse, error)
	List(ctx context.Context, organizationID string, req *dto.DepartmentListRequest) ([]dto.DepartmentResponse, error)
	Update(ctx context.Context, organizationID, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, organizationID, id string, callerID string) error

	// ── functions ──
	CreateFunction(ctx context.Context, organizationID, departmentID string, req *dto.CreateFunctionRequest, callerID string) (*dto.FunctionResponse, error)
	ListFunctions(ctx context.Context, organizationID, departmentID string) ([]dto.FunctionResponse, error)
	UpdateFunction(ctx context.Context, organizationID, departmentID, functionID string, req *dto.UpdateFunctionRequest, callerID string) (*dto.FunctionResponse, error)
	DeleteFunction(ctx context.Context, organizationID, departmentID, functionID string, callerID string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService creates a DepartmentService.
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, organizationID string, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	existing, err := s.repo.Department.GetByName(ctx, organizationID, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("fetching department by name failed", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	if req.ParentID != nil {
		parent, err := s.repo.Department.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.OrganizationID != organizationID {
			return nil, ErrParentNotFound
		}
		if parent.ParentID != nil {
			return nil, ErrNestingTooDeep
		}
	}

	deadlineDay := DefaultDeadlineDay
	if req.AvailabilityDeadlineDay != nil {
		deadlineDay = *req.AvailabilityDeadlineDay
	}

	dept := &model.Department{
		OrganizationID:          organizationID,
		ParentID:                req.ParentID,
		Name:                    req.Name,
		PriorityOrder:           req.PriorityOrder,
		AvailabilityDeadlineDay: deadlineDay,
		IsActive:                true,
	}
	dept.CreatedBy = &callerID
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("creating department failed", zap.Error(err))
		return nil, err
	}

	return s.toDepartmentResponse(ctx, dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, organizationID, id string) (*dto.DepartmentResponse, error) {
	dept, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return s.toDepartmentResponse(ctx, dept), nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context, organizationID string, req *dto.DepartmentListRequest) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.ListByOrganization(ctx, organizationID, req.IncludeInactive)
	if err != nil {
		s.logger.Error("listing departments failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *s.toDepartmentResponse(ctx, &depts[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, organizationID, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	dept, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != dept.Name {
		existing, err := s.repo.Department.GetByName(ctx, organizationID, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDepartmentNameExists
		}
		dept.Name = *req.Name
	}
	if req.PriorityOrder != nil {
		dept.PriorityOrder = *req.PriorityOrder
	}
	if req.AvailabilityDeadlineDay != nil {
		dept.AvailabilityDeadlineDay = *req.AvailabilityDeadlineDay
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		s.logger.Error("updating department failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toDepartmentResponse(ctx, dept), nil
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, organizationID, id string, callerID string) error {
	if _, err := s.getScoped(ctx, organizationID, id); err != nil {
		return err
	}

	count, err := s.repo.Department.CountMembers(ctx, id)
	if err != nil {
		s.logger.Error("counting members failed", zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrDepartmentHasMembers
	}

	if err := s.repo.Department.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("deleting department failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── functions ──────────────────────

func (s *departmentService) CreateFunction(ctx context.Context, organizationID, departmentID string, req *dto.CreateFunctionRequest, callerID string) (*dto.FunctionResponse, error) {
	if _, err := s.getScoped(ctx, organizationID, departmentID); err != nil {
		return nil, err
	}

	fn := &model.DepartmentFunction{
		DepartmentID: departmentID,
		Name:         req.Name,
	}
	fn.CreatedBy = &callerID
	fn.UpdatedBy = &callerID

	if err := s.repo.Function.Create(ctx, fn); err != nil {
		s.logger.Error("creating function failed", zap.Error(err))
		return nil, err
	}

	return &dto.FunctionResponse{ID: fn.FunctionID, DepartmentID: departmentID, Name: fn.Name}, nil
}

func (s *departmentService) ListFunctions(ctx context.Context, organizationID, departmentID string) ([]dto.FunctionResponse, error) {
	if _, err := s.getScoped(ctx, organizationID, departmentID); err != nil {
		return nil, err
	}

	fns, err := s.repo.Function.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("listing functions failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.FunctionResponse, 0, len(fns))
	for i := range fns {
		result = append(result, dto.FunctionResponse{
			ID:           fns[i].FunctionID,
			DepartmentID: fns[i].DepartmentID,
			Name:         fns[i].Name,
		})
	}
	return result, nil
}

func (s *departmentService) UpdateFunction(ctx context.Context, organizationID, departmentID, functionID string, req *dto.UpdateFunctionRequest, callerID string) (*dto.FunctionResponse, error) {
	if _, err := s.getScoped(ctx, organizationID, departmentID); err != nil {
		return nil, err
	}

	fn, err := s.repo.Function.GetByID(ctx, functionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFunctionNotFound
		}
		return nil, err
	}
	if fn.DepartmentID != departmentID {
		return nil, ErrFunctionNotFound
	}

	fn.Name = req.Name
	fn.UpdatedBy = &callerID
	if err := s.repo.Function.Update(ctx, fn); err != nil {
		s.logger.Error("updating function failed", zap.Error(err))
		return nil, err
	}

	return &dto.FunctionResponse{ID: fn.FunctionID, DepartmentID: departmentID, Name: fn.Name}, nil
}

func (s *departmentService) DeleteFunction(ctx context.Context, organizationID, departmentID, functionID string, callerID string) error {
	if _, err := s.getScoped(ctx, organizationID, departmentID); err != nil {
		return err
	}

	fn, err := s.repo.Function.GetByID(ctx, functionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFunctionNotFound
		}
		return err
	}
	if fn.DepartmentID != departmentID {
		return ErrFunctionNotFound
	}

	return s.repo.Function.Delete(ctx, functionID, callerID)
}

// ────────────────────── helpers ──────────────────────

func (s *departmentService) getScoped(ctx context.Context, organizationID, id string) (*model.Department, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("fetching department failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if dept.OrganizationID != organizationID {
		return nil, ErrDepartmentNotFound
	}
	return dept, nil
}

func (s *departmentService) toDepartmentResponse(ctx context.Context, dept *model.Department) *dto.DepartmentResponse {
	count, err := s.repo.Department.CountMembers(ctx, dept.DepartmentID)
	if err != nil {
		s.logger.Warn("counting members failed, defaulting to 0", zap.Error(err))
		count = 0
	}
	return &dto.DepartmentResponse{
		ID:                      dept.DepartmentID,
		OrganizationID:          dept.OrganizationID,
		ParentID:                dept.ParentID,
		Name:                    dept.Name,
		PriorityOrder:           dept.PriorityOrder,
		AvailabilityDeadlineDay: dept.AvailabilityDeadlineDay,
		IsActive:                dept.IsActive,
		MemberCount:             count,
		CreatedAt:               dept.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               dept.UpdatedAt.Format(time.RFC3339),
	}
}
