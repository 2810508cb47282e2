package repository

import (
	"context"

	"gorm.io/gorm"

	"escala/backend/internal/model"
	pkgerrors "escala/backend/pkg/errors"
)

// ServiceDayRepository is the service-day data-access interface.
type ServiceDayRepository interface {
	Create(ctx context.Context, day *model.ServiceDay) error
	GetByID(ctx context.Context, id string) (*model.ServiceDay, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]model.ServiceDay, error)
	ListByWeekday(ctx context.Context, organizationID string, weekday int) ([]model.ServiceDay, error)
	Update(ctx context.Context, day *model.ServiceDay) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type serviceDayRepo struct {
	db *gorm.DB
}

// NewServiceDayRepo creates a ServiceDayRepository.
func NewServiceDayRepo(db *gorm.DB) ServiceDayRepository {
	return &serviceDayRepo{db: db}
}

func (r *serviceDayRepo) Create(ctx context.Context, day *model.ServiceDay) error {
	return r.db.WithContext(ctx).Create(day).Error
}

func (r *serviceDayRepo) GetByID(ctx context.Context, id string) (*model.ServiceDay, error) {
	var day model.ServiceDay
	err := r.db.WithContext(ctx).Where("service_day_id = ?", id).First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *serviceDayRepo) ListByOrganization(ctx context.Context, organizationID string) ([]model.ServiceDay, error) {
	var days []model.ServiceDay
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("weekday ASC, name ASC").
		Find(&days).Error
	return days, err
}

func (r *serviceDayRepo) ListByWeekday(ctx context.Context, organizationID string, weekday int) ([]model.ServiceDay, error) {
	var days []model.ServiceDay
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND weekday = ?", organizationID, weekday).
		Order("name ASC").
		Find(&days).Error
	return days, err
}

func (r *serviceDayRepo) Update(ctx context.Context, day *model.ServiceDay) error {
	oldVersion := day.Version
	result := r.db.WithContext(ctx).
		Model(day).
		Where("service_day_id = ? AND version = ?", day.ServiceDayID, oldVersion).
		Updates(map[string]interface{}{
			"name":       day.Name,
			"updated_by": day.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	day.Version = oldVersion + 1
	return nil
}

func (r *serviceDayRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ServiceDay{}).
		Where("service_day_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
