package repository

import (
	"context"

	"gorm.io/gorm"

	"escala/backend/internal/model"
)

// MemberRepository is the department-membership data-access interface.
type MemberRepository interface {
	Create(ctx context.Context, member *model.DepartmentMember) error
	GetByID(ctx context.Context, id string) (*model.DepartmentMember, error)
	GetByDepartmentAndUser(ctx context.Context, departmentID, userID string) (*model.DepartmentMember, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.DepartmentMember, error)
	// ListByDepartmentAndFunction returns live members of the department holding
	// the function, with User preloaded.
	ListByDepartmentAndFunction(ctx context.Context, departmentID, functionID string) ([]model.DepartmentMember, error)
	Update(ctx context.Context, member *model.DepartmentMember) error
	Delete(ctx context.Context, id string, deletedBy string) error

	// HoldsFunction reports whether the member holds the function.
	HoldsFunction(ctx context.Context, memberID, functionID string) (bool, error)
	// ReplaceFunctions swaps the member's function set for the given one.
	ReplaceFunctions(ctx context.Context, memberID string, functionIDs []string, createdBy string) error
}

type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo creates a MemberRepository.
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, member *model.DepartmentMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*model.DepartmentMember, error) {
	var member model.DepartmentMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Functions").
		Where("member_id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) GetByDepartmentAndUser(ctx context.Context, departmentID, userID string) (*model.DepartmentMember, error) {
	var member model.DepartmentMember
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND user_id = ?", departmentID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.DepartmentMember, error) {
	var members []model.DepartmentMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Functions.Function").
		Where("department_id = ?", departmentID).
		Find(&members).Error
	return members, err
}

func (r *memberRepo) ListByDepartmentAndFunction(ctx context.Context, departmentID, functionID string) ([]model.DepartmentMember, error) {
	var members []model.DepartmentMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN member_functions mf ON mf.member_id = department_members.member_id").
		Where("department_members.department_id = ? AND mf.function_id = ?", departmentID, functionID).
		Find(&members).Error
	return members, err
}

func (r *memberRepo) Update(ctx context.Context, member *model.DepartmentMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.DepartmentMember{}).
		Where("member_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *memberRepo) HoldsFunction(ctx context.Context, memberID, functionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.MemberFunction{}).
		Where("member_id = ? AND function_id = ?", memberID, functionID).
		Count(&count).Error
	return count > 0, err
}

func (r *memberRepo) ReplaceFunctions(ctx context.Context, memberID string, functionIDs []string, createdBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", memberID).Delete(&model.MemberFunction{}).Error; err != nil {
			return err
		}
		for _, fnID := range functionIDs {
			mf := model.MemberFunction{
				MemberID:   memberID,
				FunctionID: fnID,
				CreatedBy:  &createdBy,
			}
			if err := tx.Create(&mf).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
