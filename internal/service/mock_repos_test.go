package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"escala/backend/internal/model"
	"escala/backend/internal/repository"
)

// ── Mock OrganizationRepository ──

type mockOrgRepo struct {
	orgs map[string]*model.Organization
}

func newMockOrgRepo() *mockOrgRepo {
	return &mockOrgRepo{orgs: make(map[string]*model.Organization)}
}

func (m *mockOrgRepo) Create(_ context.Context, org *model.Organization) error {
	if org.OrganizationID == "" {
		org.OrganizationID = "org-" + org.Name
	}
	m.orgs[org.OrganizationID] = org
	return nil
}

func (m *mockOrgRepo) GetByID(_ context.Context, id string) (*model.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrgRepo) Update(_ context.Context, org *model.Organization) error {
	m.orgs[org.OrganizationID] = org
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByOrganization(_ context.Context, organizationID string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.OrganizationID == organizationID {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Mock ServiceDayRepository ──

type mockServiceDayRepo struct {
	days map[string]*model.ServiceDay
}

func newMockServiceDayRepo() *mockServiceDayRepo {
	return &mockServiceDayRepo{days: make(map[string]*model.ServiceDay)}
}

func (m *mockServiceDayRepo) Create(_ context.Context, day *model.ServiceDay) error {
	if day.ServiceDayID == "" {
		day.ServiceDayID = "sd-" + day.Name
	}
	m.days[day.ServiceDayID] = day
	return nil
}

func (m *mockServiceDayRepo) GetByID(_ context.Context, id string) (*model.ServiceDay, error) {
	if d, ok := m.days[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockServiceDayRepo) ListByOrganization(_ context.Context, organizationID string) ([]model.ServiceDay, error) {
	var result []model.ServiceDay
	for _, d := range m.days {
		if d.OrganizationID == organizationID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockServiceDayRepo) ListByWeekday(_ context.Context, organizationID string, weekday int) ([]model.ServiceDay, error) {
	var result []model.ServiceDay
	for _, d := range m.days {
		if d.OrganizationID == organizationID && d.Weekday == weekday {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockServiceDayRepo) Update(_ context.Context, day *model.ServiceDay) error {
	m.days[day.ServiceDayID] = day
	return nil
}

func (m *mockServiceDayRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.days, id)
	return nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts   map[string]*model.Department
	members *mockMemberRepo
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Name
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, organizationID, name string) (*model.Department, error) {
	for _, d := range m.depts {
		if d.OrganizationID == organizationID && d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) ListByOrganization(_ context.Context, organizationID string, includeInactive bool) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		if d.OrganizationID != organizationID {
			continue
		}
		if !includeInactive && !d.IsActive {
			continue
		}
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDeptRepo) ListByUser(_ context.Context, userID string) ([]model.Department, error) {
	var result []model.Department
	if m.members == nil {
		return result, nil
	}
	for _, mem := range m.members.members {
		if mem.UserID != userID {
			continue
		}
		if d, ok := m.depts[mem.DepartmentID]; ok && d.IsActive {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.depts, id)
	return nil
}

func (m *mockDeptRepo) CountMembers(_ context.Context, departmentID string) (int64, error) {
	if m.members == nil {
		return 0, nil
	}
	var n int64
	for _, mem := range m.members.members {
		if mem.DepartmentID == departmentID {
			n++
		}
	}
	return n, nil
}

// ── Mock FunctionRepository ──

type mockFunctionRepo struct {
	fns map[string]*model.DepartmentFunction
}

func newMockFunctionRepo() *mockFunctionRepo {
	return &mockFunctionRepo{fns: make(map[string]*model.DepartmentFunction)}
}

func (m *mockFunctionRepo) Create(_ context.Context, fn *model.DepartmentFunction) error {
	if fn.FunctionID == "" {
		fn.FunctionID = "fn-" + fn.Name
	}
	m.fns[fn.FunctionID] = fn
	return nil
}

func (m *mockFunctionRepo) GetByID(_ context.Context, id string) (*model.DepartmentFunction, error) {
	if f, ok := m.fns[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFunctionRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.DepartmentFunction, error) {
	var result []model.DepartmentFunction
	for _, f := range m.fns {
		if f.DepartmentID == departmentID {
			result = append(result, *f)
		}
	}
	return result, nil
}

func (m *mockFunctionRepo) Update(_ context.Context, fn *model.DepartmentFunction) error {
	m.fns[fn.FunctionID] = fn
	return nil
}

func (m *mockFunctionRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.fns, id)
	return nil
}

// ── Mock MemberRepository ──

type mockMemberRepo struct {
	members map[string]*model.DepartmentMember
	users   *mockUserRepo
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.DepartmentMember)}
}

func (m *mockMemberRepo) attachUser(member *model.DepartmentMember) *model.DepartmentMember {
	if member.User == nil && m.users != nil {
		if u, ok := m.users.users[member.UserID]; ok {
			member.User = u
		}
	}
	return member
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.DepartmentMember) error {
	if member.MemberID == "" {
		member.MemberID = fmt.Sprintf("mem-%s-%s", member.DepartmentID, member.UserID)
	}
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.DepartmentMember, error) {
	if mem, ok := m.members[id]; ok {
		return m.attachUser(mem), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByDepartmentAndUser(_ context.Context, departmentID, userID string) (*model.DepartmentMember, error) {
	for _, mem := range m.members {
		if mem.DepartmentID == departmentID && mem.UserID == userID {
			return m.attachUser(mem), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.DepartmentMember, error) {
	var result []model.DepartmentMember
	for _, mem := range m.members {
		if mem.DepartmentID == departmentID {
			result = append(result, *m.attachUser(mem))
		}
	}
	return result, nil
}

func (m *mockMemberRepo) ListByDepartmentAndFunction(_ context.Context, departmentID, functionID string) ([]model.DepartmentMember, error) {
	var result []model.DepartmentMember
	for _, mem := range m.members {
		if mem.DepartmentID != departmentID {
			continue
		}
		for _, mf := range mem.Functions {
			if mf.FunctionID == functionID {
				result = append(result, *m.attachUser(mem))
				break
			}
		}
	}
	return result, nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.DepartmentMember) error {
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.members, id)
	return nil
}

func (m *mockMemberRepo) HoldsFunction(_ context.Context, memberID, functionID string) (bool, error) {
	mem, ok := m.members[memberID]
	if !ok {
		return false, nil
	}
	for _, mf := range mem.Functions {
		if mf.FunctionID == functionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMemberRepo) ReplaceFunctions(_ context.Context, memberID string, functionIDs []string, createdBy string) error {
	mem, ok := m.members[memberID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	mem.Functions = nil
	for _, id := range functionIDs {
		mem.Functions = append(mem.Functions, model.MemberFunction{
			MemberID:   memberID,
			FunctionID: id,
			CreatedBy:  &createdBy,
		})
	}
	return nil
}

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	routines   map[string]*model.AvailabilityRoutine
	exceptions map[string]*model.AvailabilityException
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{
		routines:   make(map[string]*model.AvailabilityRoutine),
		exceptions: make(map[string]*model.AvailabilityException),
	}
}

func routineKey(userID, serviceDayID string) string {
	return userID + "|" + serviceDayID
}

// exceptionKey treats the whole-day scope as its own key, so a whole-day
// override never replaces a service-scoped one.
func exceptionKey(userID string, date time.Time, serviceDayID *string) string {
	scope := "whole-day"
	if serviceDayID != nil {
		scope = *serviceDayID
	}
	return userID + "|" + date.Format("2006-01-02") + "|" + scope
}

func (m *mockAvailabilityRepo) GetRoutine(_ context.Context, userID, serviceDayID string) (*model.AvailabilityRoutine, error) {
	if r, ok := m.routines[routineKey(userID, serviceDayID)]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAvailabilityRepo) ListRoutinesByUser(_ context.Context, userID string) ([]model.AvailabilityRoutine, error) {
	var result []model.AvailabilityRoutine
	for _, r := range m.routines {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAvailabilityRepo) ListRoutinesByUsers(_ context.Context, userIDs []string, serviceDayID string) ([]model.AvailabilityRoutine, error) {
	inSet := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		inSet[id] = true
	}
	var result []model.AvailabilityRoutine
	for _, r := range m.routines {
		if inSet[r.UserID] && r.ServiceDayID == serviceDayID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAvailabilityRepo) UpsertRoutine(_ context.Context, routine *model.AvailabilityRoutine) error {
	key := routineKey(routine.UserID, routine.ServiceDayID)
	if existing, ok := m.routines[key]; ok {
		existing.IsAvailable = routine.IsAvailable
		return nil
	}
	if routine.RoutineID == "" {
		routine.RoutineID = "rt-" + key
	}
	m.routines[key] = routine
	return nil
}

func (m *mockAvailabilityRepo) ListExceptionsByUserAndRange(_ context.Context, userID string, from, until time.Time) ([]model.AvailabilityException, error) {
	var result []model.AvailabilityException
	for _, e := range m.exceptions {
		if e.UserID != userID {
			continue
		}
		if e.SpecificDate.Before(from) || e.SpecificDate.After(until) {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockAvailabilityRepo) ListExceptionsByUsersAndDate(_ context.Context, userIDs []string, date time.Time) ([]model.AvailabilityException, error) {
	inSet := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		inSet[id] = true
	}
	day := date.Format("2006-01-02")
	var result []model.AvailabilityException
	for _, e := range m.exceptions {
		if inSet[e.UserID] && e.SpecificDate.Format("2006-01-02") == day {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockAvailabilityRepo) UpsertException(_ context.Context, exc *model.AvailabilityException) error {
	key := exceptionKey(exc.UserID, exc.SpecificDate, exc.ServiceDayID)
	if existing, ok := m.exceptions[key]; ok {
		existing.IsAvailable = exc.IsAvailable
		return nil
	}
	if exc.ExceptionID == "" {
		exc.ExceptionID = "exc-" + key
	}
	m.exceptions[key] = exc
	return nil
}

func (m *mockAvailabilityRepo) DeleteException(_ context.Context, userID string, date time.Time, serviceDayID *string) error {
	delete(m.exceptions, exceptionKey(userID, date, serviceDayID))
	return nil
}

// ── Mock RosterRepository ──

type mockRosterRepo struct {
	entries map[string]*model.RosterEntry
	seq     int
	members *mockMemberRepo
	depts   *mockDeptRepo
	fns     *mockFunctionRepo
	days    *mockServiceDayRepo
}

func newMockRosterRepo() *mockRosterRepo {
	return &mockRosterRepo{entries: make(map[string]*model.RosterEntry)}
}

func slotKey(entry *model.RosterEntry) string {
	return fmt.Sprintf("%s|%s|%s|%s",
		entry.DepartmentID, entry.FunctionID, entry.ScheduleDate.Format("2006-01-02"), entry.ServiceDayID)
}

func (m *mockRosterRepo) attach(entry *model.RosterEntry) *model.RosterEntry {
	if entry.Member == nil && m.members != nil {
		if mem, ok := m.members.members[entry.MemberID]; ok {
			entry.Member = m.members.attachUser(mem)
		}
	}
	if entry.Function == nil && m.fns != nil {
		entry.Function = m.fns.fns[entry.FunctionID]
	}
	if entry.ServiceDay == nil && m.days != nil {
		entry.ServiceDay = m.days.days[entry.ServiceDayID]
	}
	return entry
}

func (m *mockRosterRepo) Create(_ context.Context, entry *model.RosterEntry) error {
	key := slotKey(entry)
	for _, e := range m.entries {
		if slotKey(e) == key {
			return repository.ErrDuplicateSlot
		}
	}
	m.seq++
	if entry.RosterEntryID == "" {
		entry.RosterEntryID = fmt.Sprintf("re-%d", m.seq)
	}
	m.entries[entry.RosterEntryID] = entry
	return nil
}

func (m *mockRosterRepo) GetByID(_ context.Context, id string) (*model.RosterEntry, error) {
	if e, ok := m.entries[id]; ok {
		return m.attach(e), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRosterRepo) ListByDepartmentAndRange(_ context.Context, departmentID string, from, until time.Time) ([]model.RosterEntry, error) {
	var result []model.RosterEntry
	for _, e := range m.entries {
		if e.DepartmentID != departmentID {
			continue
		}
		if e.ScheduleDate.Before(from) || e.ScheduleDate.After(until) {
			continue
		}
		result = append(result, *m.attach(e))
	}
	return result, nil
}

func (m *mockRosterRepo) ListByMemberUserAndRange(_ context.Context, userID string, from, until time.Time) ([]model.RosterEntry, error) {
	var result []model.RosterEntry
	for _, e := range m.entries {
		if e.ScheduleDate.Before(from) || e.ScheduleDate.After(until) {
			continue
		}
		if m.members == nil {
			continue
		}
		mem, ok := m.members.members[e.MemberID]
		if !ok || mem.UserID != userID {
			continue
		}
		result = append(result, *m.attach(e))
	}
	return result, nil
}

func (m *mockRosterRepo) ListAssignedUserIDs(_ context.Context, organizationID string, date time.Time, serviceDayID string) ([]string, error) {
	day := date.Format("2006-01-02")
	seen := make(map[string]bool)
	var result []string
	for _, e := range m.entries {
		if e.ServiceDayID != serviceDayID || e.ScheduleDate.Format("2006-01-02") != day {
			continue
		}
		if m.depts != nil {
			if d, ok := m.depts.depts[e.DepartmentID]; !ok || d.OrganizationID != organizationID {
				continue
			}
		}
		if m.members == nil {
			continue
		}
		if mem, ok := m.members.members[e.MemberID]; ok && !seen[mem.UserID] {
			seen[mem.UserID] = true
			result = append(result, mem.UserID)
		}
	}
	return result, nil
}

func (m *mockRosterRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.entries, id)
	return nil
}

func (m *mockRosterRepo) DeleteByMember(_ context.Context, memberID string, _ string) error {
	for id, e := range m.entries {
		if e.MemberID == memberID {
			delete(m.entries, id)
		}
	}
	return nil
}

// ── aggregate wiring ──

// mockRepos bundles every mock with the Repository aggregate the services
// consume. Cross-repo lookups (membership joins, org scoping) are wired
// through the struct pointers.
type mockRepos struct {
	org          *mockOrgRepo
	user         *mockUserRepo
	serviceDay   *mockServiceDayRepo
	dept         *mockDeptRepo
	fn           *mockFunctionRepo
	member       *mockMemberRepo
	availability *mockAvailabilityRepo
	roster       *mockRosterRepo
	repo         *repository.Repository
}

func newMockRepos() *mockRepos {
	m := &mockRepos{
		org:          newMockOrgRepo(),
		user:         newMockUserRepo(),
		serviceDay:   newMockServiceDayRepo(),
		dept:         newMockDeptRepo(),
		fn:           newMockFunctionRepo(),
		member:       newMockMemberRepo(),
		availability: newMockAvailabilityRepo(),
		roster:       newMockRosterRepo(),
	}
	m.dept.members = m.member
	m.member.users = m.user
	m.roster.members = m.member
	m.roster.depts = m.dept
	m.roster.fns = m.fn
	m.roster.days = m.serviceDay

	m.repo = &repository.Repository{
		Organization: m.org,
		User:         m.user,
		ServiceDay:   m.serviceDay,
		Department:   m.dept,
		Function:     m.fn,
		Member:       m.member,
		Availability: m.availability,
		Roster:       m.roster,
	}
	return m
}
