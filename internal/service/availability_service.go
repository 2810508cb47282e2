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

// ── availability business errors ──

var (
	ErrServiceDayNotFound = errors.New("service day not found")
	ErrDeadlineExceeded   = errors.New("availability edits for this month are closed")
)

// DeadlineError rejects a dated write for a closed month. It matches
// ErrDeadlineExceeded under errors.Is and carries the first month the
// caller may still edit, so responses can name the boundary.
type DeadlineError struct {
	EditableMonth time.Time
}

func (e *DeadlineError) Error() string {
	return "availability edits for this month are closed, editable from " + e.EditableMonth.Format("2006-01")
}

func (e *DeadlineError) Is(target error) bool { return target == ErrDeadlineExceeded }

// DefaultDeadlineDay applies when a user belongs to no department.
const DefaultDeadlineDay = 20

const dateLayout = "2006-01-02"

// AvailabilityService resolves and edits member availability.
type AvailabilityService interface {
	// Resolve decides whether the user can serve on the given date and service
	// day: service-scoped exception, then whole-day exception, then routine,
	// then available by default.
	Resolve(ctx context.Context, userID string, date time.Time, serviceDayID string) (bool, error)
	ListRoutines(ctx context.Context, userID string) ([]dto.RoutineResponse, error)
	SetRoutine(ctx context.Context, userID string, req *dto.SetRoutineRequest) (*dto.RoutineResponse, error)
	ListExceptions(ctx context.Context, userID string, from, until time.Time) ([]dto.ExceptionResponse, error)
	SetException(ctx context.Context, userID string, req *dto.SetExceptionRequest) (*dto.ExceptionResponse, error)
	DeleteException(ctx context.Context, userID string, req *dto.DeleteExceptionRequest) error
	// MonthOverview resolves every service occurrence of the month for the user.
	MonthOverview(ctx context.Context, userID string, month time.Time) (*dto.MonthOverviewResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAvailabilityService creates an AvailabilityService.
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger, now: time.Now}
}

// EditableMonth returns the first day of the month whose availability is
// currently open for editing. Past the department deadline day, the upcoming
// month is already being closed and edits shift one month further out.
func EditableMonth(today time.Time, deadlineDay int) time.Time {
	if deadlineDay <= 0 {
		deadlineDay = DefaultDeadlineDay
	}
	monthsAhead := 1
	if today.Day() > deadlineDay {
		monthsAhead = 2
	}
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return first.AddDate(0, monthsAhead, 0)
}

// resolveDecision applies the three-tier precedence once every lookup has
// returned. Reversing the first two tiers would change semantics on days with
// mixed per-service overrides.
func resolveDecision(scoped, wholeDay, routine *bool) bool {
	if scoped != nil {
		return *scoped
	}
	if wholeDay != nil {
		return *wholeDay
	}
	if routine != nil {
		return *routine
	}
	return true
}

// splitExceptions picks the service-scoped and whole-day overrides for one
// user and service day out of a date's exception rows.
func splitExceptions(excs []model.AvailabilityException, userID, serviceDayID string) (scoped, wholeDay *bool) {
	for i := range excs {
		if excs[i].UserID != userID {
			continue
		}
		if excs[i].ServiceDayID == nil {
			v := excs[i].IsAvailable
			wholeDay = &v
			continue
		}
		if *excs[i].ServiceDayID == serviceDayID {
			v := excs[i].IsAvailable
			scoped = &v
		}
	}
	return scoped, wholeDay
}

// ────────────────────── Resolve ──────────────────────

func (s *availabilityService) Resolve(ctx context.Context, userID string, date time.Time, serviceDayID string) (bool, error) {
	excs, err := s.repo.Availability.ListExceptionsByUsersAndDate(ctx, []string{userID}, date)
	if err != nil {
		s.logger.Error("listing availability exceptions failed", zap.Error(err))
		return false, err
	}

	var routineVal *bool
	routine, err := s.repo.Availability.GetRoutine(ctx, userID, serviceDayID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("fetching availability routine failed", zap.Error(err))
		return false, err
	}
	if routine != nil {
		routineVal = &routine.IsAvailable
	}

	scoped, wholeDay := splitExceptions(excs, userID, serviceDayID)
	return resolveDecision(scoped, wholeDay, routineVal), nil
}

// ────────────────────── ListRoutines ──────────────────────

func (s *availabilityService) ListRoutines(ctx context.Context, userID string) ([]dto.RoutineResponse, error) {
	routines, err := s.repo.Availability.ListRoutinesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("listing routines failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoutineResponse, 0, len(routines))
	for i := range routines {
		resp := dto.RoutineResponse{
			ServiceDayID: routines[i].ServiceDayID,
			IsAvailable:  routines[i].IsAvailable,
		}
		if day, err := s.repo.ServiceDay.GetByID(ctx, routines[i].ServiceDayID); err == nil {
			resp.ServiceName = day.Name
			resp.Weekday = day.Weekday
		}
		result = append(result, resp)
	}
	return result, nil
}

// ────────────────────── SetRoutine ──────────────────────

func (s *availabilityService) SetRoutine(ctx context.Context, userID string, req *dto.SetRoutineRequest) (*dto.RoutineResponse, error) {
	day, err := s.repo.ServiceDay.GetByID(ctx, req.ServiceDayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceDayNotFound
		}
		s.logger.Error("fetching service day failed", zap.Error(err))
		return nil, err
	}

	routine := &model.AvailabilityRoutine{
		UserID:       userID,
		ServiceDayID: day.ServiceDayID,
		IsAvailable:  *req.IsAvailable,
	}
	if err := s.repo.Availability.UpsertRoutine(ctx, routine); err != nil {
		s.logger.Error("upserting routine failed", zap.Error(err))
		return nil, err
	}

	return &dto.RoutineResponse{
		ServiceDayID: day.ServiceDayID,
		ServiceName:  day.Name,
		Weekday:      day.Weekday,
		IsAvailable:  routine.IsAvailable,
	}, nil
}

// ────────────────────── ListExceptions ──────────────────────

func (s *availabilityService) ListExceptions(ctx context.Context, userID string, from, until time.Time) ([]dto.ExceptionResponse, error) {
	exceptions, err := s.repo.Availability.ListExceptionsByUserAndRange(ctx, userID, from, until)
	if err != nil {
		s.logger.Error("listing exceptions failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ExceptionResponse, 0, len(exceptions))
	for i := range exceptions {
		result = append(result, dto.ExceptionResponse{
			Date:         exceptions[i].SpecificDate.Format(dateLayout),
			ServiceDayID: exceptions[i].ServiceDayID,
			IsAvailable:  exceptions[i].IsAvailable,
		})
	}
	return result, nil
}

// ────────────────────── SetException ──────────────────────

func (s *availabilityService) SetException(ctx context.Context, userID string, req *dto.SetExceptionRequest) (*dto.ExceptionResponse, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, err
	}

	if err := s.checkDeadline(ctx, userID, date); err != nil {
		return nil, err
	}

	if req.ServiceDayID != nil {
		if _, err := s.repo.ServiceDay.GetByID(ctx, *req.ServiceDayID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrServiceDayNotFound
			}
			s.logger.Error("fetching service day failed", zap.Error(err))
			return nil, err
		}
	}

	exc := &model.AvailabilityException{
		UserID:       userID,
		SpecificDate: date,
		ServiceDayID: req.ServiceDayID,
		IsAvailable:  *req.IsAvailable,
	}
	if err := s.repo.Availability.UpsertException(ctx, exc); err != nil {
		s.logger.Error("upserting exception failed", zap.Error(err))
		return nil, err
	}

	return &dto.ExceptionResponse{
		Date:         date.Format(dateLayout),
		ServiceDayID: req.ServiceDayID,
		IsAvailable:  exc.IsAvailable,
	}, nil
}

// ────────────────────── DeleteException ──────────────────────

func (s *availabilityService) DeleteException(ctx context.Context, userID string, req *dto.DeleteExceptionRequest) error {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return err
	}

	if err := s.checkDeadline(ctx, userID, date); err != nil {
		return err
	}

	if err := s.repo.Availability.DeleteException(ctx, userID, date, req.ServiceDayID); err != nil {
		s.logger.Error("deleting exception failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── MonthOverview ──────────────────────

func (s *availabilityService) MonthOverview(ctx context.Context, userID string, month time.Time) (*dto.MonthOverviewResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("fetching user failed", zap.Error(err))
		return nil, err
	}

	days, err := s.repo.ServiceDay.ListByOrganization(ctx, user.OrganizationID)
	if err != nil {
		s.logger.Error("listing service days failed", zap.Error(err))
		return nil, err
	}

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	excs, err := s.repo.Availability.ListExceptionsByUserAndRange(ctx, userID, first, last)
	if err != nil {
		s.logger.Error("listing exceptions failed", zap.Error(err))
		return nil, err
	}
	routines, err := s.repo.Availability.ListRoutinesByUser(ctx, userID)
	if err != nil {
		s.logger.Error("listing routines failed", zap.Error(err))
		return nil, err
	}

	routineByDay := make(map[string]bool, len(routines))
	for i := range routines {
		routineByDay[routines[i].ServiceDayID] = routines[i].IsAvailable
	}
	excByDate := make(map[string][]model.AvailabilityException)
	for i := range excs {
		key := excs[i].SpecificDate.Format(dateLayout)
		excByDate[key] = append(excByDate[key], excs[i])
	}

	editable := s.editableMonthFor(ctx, userID)

	resp := &dto.MonthOverviewResponse{
		Month:         first.Format("2006-01"),
		EditableMonth: editable.Format("2006-01"),
		Editable:      !first.Before(editable),
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		weekday := int(d.Weekday())
		for i := range days {
			if days[i].Weekday != weekday {
				continue
			}
			dayExcs := excByDate[d.Format(dateLayout)]
			scoped, wholeDay := splitExceptions(dayExcs, userID, days[i].ServiceDayID)
			var routineVal *bool
			if v, ok := routineByDay[days[i].ServiceDayID]; ok {
				routineVal = &v
			}
			resp.Days = append(resp.Days, dto.DayAvailability{
				Date:          d.Format(dateLayout),
				ServiceDayID:  days[i].ServiceDayID,
				ServiceName:   days[i].Name,
				IsAvailable:   resolveDecision(scoped, wholeDay, routineVal),
				FromException: scoped != nil || wholeDay != nil,
			})
		}
	}

	return resp, nil
}

// checkDeadline rejects writes dated before the start of the currently
// editable month. The strictest deadline day among the user's departments
// applies; 20 when the user belongs to none.
func (s *availabilityService) checkDeadline(ctx context.Context, userID string, date time.Time) error {
	deadlineDay, err := s.deadlineDayFor(ctx, userID)
	if err != nil {
		return err
	}
	if editable := EditableMonth(s.now(), deadlineDay); date.Before(editable) {
		return &DeadlineError{EditableMonth: editable}
	}
	return nil
}

func (s *availabilityService) editableMonthFor(ctx context.Context, userID string) time.Time {
	deadlineDay, err := s.deadlineDayFor(ctx, userID)
	if err != nil {
		deadlineDay = DefaultDeadlineDay
	}
	return EditableMonth(s.now(), deadlineDay)
}

func (s *availabilityService) deadlineDayFor(ctx context.Context, userID string) (int, error) {
	depts, err := s.repo.Department.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("listing user departments failed", zap.Error(err))
		return 0, err
	}
	deadlineDay := DefaultDeadlineDay
	for i := range depts {
		if depts[i].AvailabilityDeadlineDay > 0 && depts[i].AvailabilityDeadlineDay < deadlineDay {
			deadlineDay = depts[i].AvailabilityDeadlineDay
		}
	}
	return deadlineDay, nil
}
