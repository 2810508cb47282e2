package repository

import "gorm.io/gorm"

// Repository aggregates all repository interfaces.
type Repository struct {
	Organization OrganizationRepository
	User         UserRepository
	ServiceDay   ServiceDayRepository
	Department   DepartmentRepository
	Function     FunctionRepository
	Member       MemberRepository
	Availability AvailabilityRepository
	Roster       RosterRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Organization: NewOrganizationRepo(db),
		User:         NewUserRepo(db),
		ServiceDay:   NewServiceDayRepo(db),
		Department:   NewDepartmentRepo(db),
		Function:     NewFunctionRepo(db),
		Member:       NewMemberRepo(db),
		Availability: NewAvailabilityRepo(db),
		Roster:       NewRosterRepo(db),
	}
}
