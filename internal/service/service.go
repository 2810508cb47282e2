package service

import (
	"go.uber.org/zap"

	"escala/backend/config"
	"escala/backend/internal/repository"
	"escala/backend/pkg/jwt"
	"escala/backend/pkg/redis"
)

// Service aggregates all service interfaces.
type Service struct {
	Auth         AuthService
	User         UserService
	Department   DepartmentService
	Member       MemberService
	ServiceDay   ServiceDayService
	Availability AvailabilityService
	Eligibility  EligibilityService
	Roster       RosterService
	Export       ExportService
	Calendar     CalendarService
}

// NewService wires the service implementations.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Department:   NewDepartmentService(repo, logger),
		Member:       NewMemberService(repo, logger),
		ServiceDay:   NewServiceDayService(repo, logger),
		Availability: NewAvailabilityService(repo, logger),
		Eligibility:  NewEligibilityService(repo, logger),
		Roster:       NewRosterService(repo, logger),
		Export:       NewExportService(repo, logger),
		Calendar:     NewCalendarService(repo, logger),
	}
}
