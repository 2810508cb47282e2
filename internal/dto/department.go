package dto

// ── department requests ──

// CreateDepartmentRequest creates a department.
type CreateDepartmentRequest struct {
	Name                    string  `json:"name"                      binding:"required,min=2,max=100"`
	ParentID                *string `json:"parent_id"                 binding:"omitempty,uuid"`
	PriorityOrder           int     `json:"priority_order"            binding:"omitempty,min=0"`
	AvailabilityDeadlineDay *int    `json:"availability_deadline_day" binding:"omitempty,min=1,max=31"`
}

// UpdateDepartmentRequest updates a department.
type UpdateDepartmentRequest struct {
	Name                    *string `json:"name"                      binding:"omitempty,min=2,max=100"`
	PriorityOrder           *int    `json:"priority_order"            binding:"omitempty,min=0"`
	AvailabilityDeadlineDay *int    `json:"availability_deadline_day" binding:"omitempty,min=1,max=31"`
	IsActive                *bool   `json:"is_active"`
}

// DepartmentListRequest filters the department list.
type DepartmentListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ── department responses ──

// DepartmentResponse is the department detail shape.
type DepartmentResponse struct {
	ID                      string  `json:"id"`
	OrganizationID          string  `json:"organization_id"`
	ParentID                *string `json:"parent_id,omitempty"`
	Name                    string  `json:"name"`
	PriorityOrder           int     `json:"priority_order"`
	AvailabilityDeadlineDay int     `json:"availability_deadline_day"`
	IsActive                bool    `json:"is_active"`
	MemberCount             int64   `json:"member_count"`
	CreatedAt               string  `json:"created_at"`
	UpdatedAt               string  `json:"updated_at"`
}

// ── function DTOs ──

// CreateFunctionRequest creates a role within a department.
type CreateFunctionRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// UpdateFunctionRequest renames a function.
type UpdateFunctionRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// FunctionResponse is the function shape.
type FunctionResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
}
