package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"escala/backend/internal/model"
)

// ErrDuplicateSlot is returned when an insert hits the unique roster-slot index.
var ErrDuplicateSlot = errors.New("roster slot already filled")

// RosterRepository is the roster-entry data-access interface.
type RosterRepository interface {
	// Create inserts an entry; returns ErrDuplicateSlot when the
	// (department, function, date, service day) slot is already filled.
	Create(ctx context.Context, entry *model.RosterEntry) error
	GetByID(ctx context.Context, id string) (*model.RosterEntry, error)
	ListByDepartmentAndRange(ctx context.Context, departmentID string, from, until time.Time) ([]model.RosterEntry, error)
	ListByMemberUserAndRange(ctx context.Context, userID string, from, until time.Time) ([]model.RosterEntry, error)
	// ListAssignedUserIDs returns the users holding any entry in the
	// organization at the (date, service day) slot, across all departments.
	ListAssignedUserIDs(ctx context.Context, organizationID string, date time.Time, serviceDayID string) ([]string, error)
	Delete(ctx context.Context, id string, deletedBy string) error
	DeleteByMember(ctx context.Context, memberID string, deletedBy string) error
}

type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo creates a RosterRepository.
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) Create(ctx context.Context, entry *model.RosterEntry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlot
		}
		return err
	}
	return nil
}

func (r *rosterRepo) GetByID(ctx context.Context, id string) (*model.RosterEntry, error) {
	var entry model.RosterEntry
	err := r.db.WithContext(ctx).
		Preload("Member.User").
		Preload("Function").
		Preload("ServiceDay").
		Where("roster_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *rosterRepo) ListByDepartmentAndRange(ctx context.Context, departmentID string, from, until time.Time) ([]model.RosterEntry, error) {
	var entries []model.RosterEntry
	err := r.db.WithContext(ctx).
		Preload("Member.User").
		Preload("Function").
		Preload("ServiceDay").
		Where("department_id = ? AND schedule_date >= ? AND schedule_date <= ?", departmentID, from, until).
		Order("schedule_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *rosterRepo) ListByMemberUserAndRange(ctx context.Context, userID string, from, until time.Time) ([]model.RosterEntry, error) {
	var entries []model.RosterEntry
	err := r.db.WithContext(ctx).
		Preload("Function").
		Preload("ServiceDay").
		Joins("JOIN department_members dm ON dm.member_id = roster_entries.member_id").
		Where("dm.user_id = ? AND roster_entries.schedule_date >= ? AND roster_entries.schedule_date <= ?", userID, from, until).
		Order("roster_entries.schedule_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *rosterRepo) ListAssignedUserIDs(ctx context.Context, organizationID string, date time.Time, serviceDayID string) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&model.RosterEntry{}).
		Joins("JOIN department_members dm ON dm.member_id = roster_entries.member_id").
		Joins("JOIN departments d ON d.department_id = roster_entries.department_id").
		Where("d.organization_id = ? AND roster_entries.schedule_date = ? AND roster_entries.service_day_id = ?",
			organizationID, date, serviceDayID).
		Distinct().
		Pluck("dm.user_id", &userIDs).Error
	return userIDs, err
}

func (r *rosterRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.RosterEntry{}).
		Where("roster_entry_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *rosterRepo) DeleteByMember(ctx context.Context, memberID string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.RosterEntry{}).
		Where("member_id = ?", memberID).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
