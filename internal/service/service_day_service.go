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

// ServiceDayService manages the recurring weekly service templates.
type ServiceDayService interface {
	Create(ctx context.Context, organizationID string, req *dto.CreateServiceDayRequest, callerID string) (*dto.ServiceDayResponse, error)
	List(ctx context.Context, organizationID string) ([]dto.ServiceDayResponse, error)
	Update(ctx context.Context, organizationID, id string, req *dto.UpdateServiceDayRequest, callerID string) (*dto.ServiceDayResponse, error)
	Delete(ctx context.Context, organizationID, id string, callerID string) error
}

type serviceDayService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewServiceDayService creates a ServiceDayService.
func NewServiceDayService(repo *repository.Repository, logger *zap.Logger) ServiceDayService {
	return &serviceDayService{repo: repo, logger: logger}
}

func (s *serviceDayService) Create(ctx context.Context, organizationID string, req *dto.CreateServiceDayRequest, callerID string) (*dto.ServiceDayResponse, error) {
	day := &model.ServiceDay{
		OrganizationID: organizationID,
		Weekday:        req.Weekday,
		Name:           req.Name,
	}
	day.CreatedBy = &callerID
	day.UpdatedBy = &callerID

	if err := s.repo.ServiceDay.Create(ctx, day); err != nil {
		s.logger.Error("creating service day failed", zap.Error(err))
		return nil, err
	}

	return toServiceDayResponse(day), nil
}

func (s *serviceDayService) List(ctx context.Context, organizationID string) ([]dto.ServiceDayResponse, error) {
	days, err := s.repo.ServiceDay.ListByOrganization(ctx, organizationID)
	if err != nil {
		s.logger.Error("listing service days failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ServiceDayResponse, 0, len(days))
	for i := range days {
		result = append(result, *toServiceDayResponse(&days[i]))
	}
	return result, nil
}

func (s *serviceDayService) Update(ctx context.Context, organizationID, id string, req *dto.UpdateServiceDayRequest, callerID string) (*dto.ServiceDayResponse, error) {
	day, err := s.getScoped(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	// weekday stays fixed once rosters reference the day
	day.Name = req.Name
	day.UpdatedBy = &callerID

	if err := s.repo.ServiceDay.Update(ctx, day); err != nil {
		s.logger.Error("updating service day failed", zap.Error(err))
		return nil, err
	}

	return toServiceDayResponse(day), nil
}

func (s *serviceDayService) Delete(ctx context.Context, organizationID, id string, callerID string) error {
	if _, err := s.getScoped(ctx, organizationID, id); err != nil {
		return err
	}
	return s.repo.ServiceDay.Delete(ctx, id, callerID)
}

func (s *serviceDayService) getScoped(ctx context.Context, organizationID, id string) (*model.ServiceDay, error) {
	day, err := s.repo.ServiceDay.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceDayNotFound
		}
		s.logger.Error("fetching service day failed", zap.Error(err))
		return nil, err
	}
	if day.OrganizationID != organizationID {
		return nil, ErrServiceDayNotFound
	}
	return day, nil
}

func toServiceDayResponse(day *model.ServiceDay) *dto.ServiceDayResponse {
	return &dto.ServiceDayResponse{
		ID:      day.ServiceDayID,
		Weekday: day.Weekday,
		Name:    day.Name,
	}
}
