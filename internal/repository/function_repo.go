package repository

import (
	"context"

	"gorm.io/gorm"

	"escala/backend/internal/model"
)

// FunctionRepository is the department-function data-access interface.
type FunctionRepository interface {
	Create(ctx context.Context, fn *model.DepartmentFunction) error
	GetByID(ctx context.Context, id string) (*model.DepartmentFunction, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.DepartmentFunction, error)
	Update(ctx context.Context, fn *model.DepartmentFunction) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type functionRepo struct {
	db *gorm.DB
}

// NewFunctionRepo creates a FunctionRepository.
func NewFunctionRepo(db *gorm.DB) FunctionRepository {
	return &functionRepo{db: db}
}

func (r *functionRepo) Create(ctx context.Context, fn *model.DepartmentFunction) error {
	return r.db.WithContext(ctx).Create(fn).Error
}

func (r *functionRepo) GetByID(ctx context.Context, id string) (*model.DepartmentFunction, error) {
	var fn model.DepartmentFunction
	err := r.db.WithContext(ctx).Where("function_id = ?", id).First(&fn).Error
	if err != nil {
		return nil, err
	}
	return &fn, nil
}

func (r *functionRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.DepartmentFunction, error) {
	var fns []model.DepartmentFunction
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&fns).Error
	return fns, err
}

func (r *functionRepo) Update(ctx context.Context, fn *model.DepartmentFunction) error {
	return r.db.WithContext(ctx).Save(fn).Error
}

func (r *functionRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.DepartmentFunction{}).
		Where("function_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
