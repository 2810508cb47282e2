package dto

// ── roster requests ──

// AssignRequest fills one roster slot.
type AssignRequest struct {
	FunctionID   string `json:"function_id"    binding:"required,uuid"`
	MemberID     string `json:"member_id"      binding:"required,uuid"`
	ServiceDayID string `json:"service_day_id" binding:"required,uuid"`
	Date         string `json:"date"           binding:"required,datetime=2006-01-02"`
}

// RosterListRequest selects the month for a department roster listing.
type RosterListRequest struct {
	Month string `form:"month" binding:"required,datetime=2006-01"`
}

// EligibleMembersRequest queries the candidate pool for one slot.
// Omitting ServiceDayID requires the candidate to be free for every
// service occurring on the date.
type EligibleMembersRequest struct {
	FunctionID   string  `form:"function_id"    binding:"required,uuid"`
	Date         string  `form:"date"           binding:"required,datetime=2006-01-02"`
	ServiceDayID *string `form:"service_day_id" binding:"omitempty,uuid"`
}

// ── roster responses ──

// RosterEntryResponse is one roster assignment.
type RosterEntryResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	FunctionID   string `json:"function_id"`
	FunctionName string `json:"function_name,omitempty"`
	MemberID     string `json:"member_id"`
	MemberName   string `json:"member_name,omitempty"`
	ServiceDayID string `json:"service_day_id"`
	ServiceName  string `json:"service_name,omitempty"`
	Date         string `json:"date"`
}

// EligibleMemberResponse is one candidate row, in the normalized shape the
// pick-list consumes.
type EligibleMemberResponse struct {
	UserID       string `json:"user_id"`
	MemberID     string `json:"member_id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	FunctionID   string `json:"function_id"`
	FunctionName string `json:"function_name"`
	IsAvailable  bool   `json:"is_available"`
}
