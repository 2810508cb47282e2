package repository

import (
	"context"

	"gorm.io/gorm"

	"escala/backend/internal/model"
	pkgerrors "escala/backend/pkg/errors"
)

// DepartmentRepository is the department data-access interface.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	GetByID(ctx context.Context, id string) (*model.Department, error)
	GetByName(ctx context.Context, organizationID, name string) (*model.Department, error)
	ListByOrganization(ctx context.Context, organizationID string, includeInactive bool) ([]model.Department, error)
	// ListByUser returns the active departments the user is a member of.
	ListByUser(ctx context.Context, userID string) ([]model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id string, deletedBy string) error
	CountMembers(ctx context.Context, departmentID string) (int64, error)
}

// departmentRepo is the GORM implementation of DepartmentRepository.
type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo creates a DepartmentRepository.
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("department_id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetByName(ctx context.Context, organizationID, name string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND name = ?", organizationID, name).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) ListByOrganization(ctx context.Context, organizationID string, includeInactive bool) ([]model.Department, error) {
	q := r.db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var depts []model.Department
	err := q.Order("priority_order ASC, name ASC").Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) ListByUser(ctx context.Context, userID string) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Joins("JOIN department_members dm ON dm.department_id = departments.department_id").
		Where("dm.user_id = ? AND dm.deleted_at IS NULL AND departments.is_active = ?", userID, true).
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) Update(ctx context.Context, dept *model.Department) error {
	oldVersion := dept.Version
	result := r.db.WithContext(ctx).
		Model(dept).
		Where("department_id = ? AND version = ?", dept.DepartmentID, oldVersion).
		Updates(map[string]interface{}{
			"parent_id":                 dept.ParentID,
			"name":                      dept.Name,
			"priority_order":            dept.PriorityOrder,
			"availability_deadline_day": dept.AvailabilityDeadlineDay,
			"is_active":                 dept.IsActive,
			"updated_by":                dept.UpdatedBy,
			"version":                   oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	dept.Version = oldVersion + 1
	return nil
}

func (r *departmentRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Department{}).
		Where("department_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *departmentRepo) CountMembers(ctx context.Context, departmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DepartmentMember{}).
		Where("department_id = ? AND deleted_at IS NULL", departmentID).
		Count(&count).Error
	return count, err
}
