package dto

// ── membership requests ──

// AddMemberRequest adds a user to a department.
type AddMemberRequest struct {
	UserID      string   `json:"user_id"      binding:"required,uuid"`
	DeptRole    string   `json:"dept_role"    binding:"omitempty,oneof=leader member"`
	FunctionIDs []string `json:"function_ids" binding:"omitempty,dive,uuid"`
}

// UpdateMemberRequest changes a member's department role or function set.
type UpdateMemberRequest struct {
	DeptRole    *string  `json:"dept_role"    binding:"omitempty,oneof=leader member"`
	FunctionIDs []string `json:"function_ids" binding:"omitempty,dive,uuid"`
}

// ── membership responses ──

// MemberResponse is the department-member shape.
type MemberResponse struct {
	MemberID  string             `json:"member_id"`
	UserID    string             `json:"user_id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	AvatarURL string             `json:"avatar_url,omitempty"`
	DeptRole  string             `json:"dept_role"`
	Functions []FunctionResponse `json:"functions"`
}
