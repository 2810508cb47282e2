package handler

import "escala/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Department   *DepartmentHandler
	Member       *MemberHandler
	ServiceDay   *ServiceDayHandler
	Availability *AvailabilityHandler
	Roster       *RosterHandler
	Calendar     *CalendarHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Department:   NewDepartmentHandler(svc.Department),
		Member:       NewMemberHandler(svc.Member),
		ServiceDay:   NewServiceDayHandler(svc.ServiceDay),
		Availability: NewAvailabilityHandler(svc.Availability),
		Roster:       NewRosterHandler(svc.Roster, svc.Eligibility, svc.Export),
		Calendar:     NewCalendarHandler(svc.Calendar),
	}
}
