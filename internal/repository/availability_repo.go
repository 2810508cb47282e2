package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"escala/backend/internal/model"
)

// AvailabilityRepository is the routine/exception data-access interface.
type AvailabilityRepository interface {
	// ── routines ──
	GetRoutine(ctx context.Context, userID, serviceDayID string) (*model.AvailabilityRoutine, error)
	ListRoutinesByUser(ctx context.Context, userID string) ([]model.AvailabilityRoutine, error)
	ListRoutinesByUsers(ctx context.Context, userIDs []string, serviceDayID string) ([]model.AvailabilityRoutine, error)
	// UpsertRoutine inserts or replaces on (user_id, service_day_id).
	UpsertRoutine(ctx context.Context, routine *model.AvailabilityRoutine) error

	// ── exceptions ──
	ListExceptionsByUserAndRange(ctx context.Context, userID string, from, until time.Time) ([]model.AvailabilityException, error)
	ListExceptionsByUsersAndDate(ctx context.Context, userIDs []string, date time.Time) ([]model.AvailabilityException, error)
	// UpsertException inserts or replaces on the scope-dependent unique key:
	// (user_id, specific_date, service_day_id) for scoped rows,
	// (user_id, specific_date) among whole-day rows otherwise.
	UpsertException(ctx context.Context, exc *model.AvailabilityException) error
	DeleteException(ctx context.Context, userID string, date time.Time, serviceDayID *string) error
}

type availabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepo creates an AvailabilityRepository.
func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

// ── routines ──

func (r *availabilityRepo) GetRoutine(ctx context.Context, userID, serviceDayID string) (*model.AvailabilityRoutine, error) {
	var routine model.AvailabilityRoutine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND service_day_id = ?", userID, serviceDayID).
		First(&routine).Error
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *availabilityRepo) ListRoutinesByUser(ctx context.Context, userID string) ([]model.AvailabilityRoutine, error) {
	var routines []model.AvailabilityRoutine
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&routines).Error
	return routines, err
}

func (r *availabilityRepo) ListRoutinesByUsers(ctx context.Context, userIDs []string, serviceDayID string) ([]model.AvailabilityRoutine, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var routines []model.AvailabilityRoutine
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND service_day_id = ?", userIDs, serviceDayID).
		Find(&routines).Error
	return routines, err
}

func (r *availabilityRepo) UpsertRoutine(ctx context.Context, routine *model.AvailabilityRoutine) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "service_day_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_available": routine.IsAvailable,
				"updated_at":   gorm.Expr("NOW()"),
			}),
		}).
		Create(routine).Error
}

// ── exceptions ──

func (r *availabilityRepo) ListExceptionsByUserAndRange(ctx context.Context, userID string, from, until time.Time) ([]model.AvailabilityException, error) {
	var excs []model.AvailabilityException
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND specific_date >= ? AND specific_date <= ?", userID, from, until).
		Order("specific_date ASC").
		Find(&excs).Error
	return excs, err
}

func (r *availabilityRepo) ListExceptionsByUsersAndDate(ctx context.Context, userIDs []string, date time.Time) ([]model.AvailabilityException, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var excs []model.AvailabilityException
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND specific_date = ?", userIDs, date).
		Find(&excs).Error
	return excs, err
}

func (r *availabilityRepo) UpsertException(ctx context.Context, exc *model.AvailabilityException) error {
	// The whole-day row (NULL service_day_id) lives under its own partial unique
	// index, so conflict inference needs a matching target per scope.
	conflict := clause.OnConflict{
		Columns:     []clause.Column{{Name: "user_id"}, {Name: "specific_date"}, {Name: "service_day_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{gorm.Expr("service_day_id IS NOT NULL")}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_available": exc.IsAvailable,
			"updated_at":   gorm.Expr("NOW()"),
		}),
	}
	if exc.ServiceDayID == nil {
		conflict.Columns = []clause.Column{{Name: "user_id"}, {Name: "specific_date"}}
		conflict.TargetWhere = clause.Where{Exprs: []clause.Expression{gorm.Expr("service_day_id IS NULL")}}
	}

	return r.db.WithContext(ctx).Clauses(conflict).Create(exc).Error
}

func (r *availabilityRepo) DeleteException(ctx context.Context, userID string, date time.Time, serviceDayID *string) error {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND specific_date = ?", userID, date)
	if serviceDayID == nil {
		q = q.Where("service_day_id IS NULL")
	} else {
		q = q.Where("service_day_id = ?", *serviceDayID)
	}
	return q.Delete(&model.AvailabilityException{}).Error
}
