package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"escala/backend/internal/model"
	"escala/backend/internal/repository"
)

// ── authorization errors ──

var ErrNotDepartmentLeader = errors.New("caller is not an organization admin or a leader of the department")

// requireDeptLeader authorizes mutations on a department's roster and
// membership: organization admins pass, as do leaders of that department.
// The caller's authority is read from storage, not from the request.
func requireDeptLeader(ctx context.Context, repo *repository.Repository, departmentID, callerID string) error {
	caller, err := repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotDepartmentLeader
		}
		return err
	}
	if caller.Role == model.RoleAdmin {
		return nil
	}

	membership, err := repo.Member.GetByDepartmentAndUser(ctx, departmentID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotDepartmentLeader
		}
		return err
	}
	if membership.DeptRole != model.DeptRoleLeader {
		return ErrNotDepartmentLeader
	}
	return nil
}
