package model

import "time"

// Department member roles.
const (
	DeptRoleLeader = "leader"
	DeptRoleMember = "member"
)

// DepartmentMember links a user to a department. Maps to department_members.
// Unique on (department_id, user_id) among live rows.
type DepartmentMember struct {
	MemberID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	DepartmentID string `gorm:"type:uuid;not null"                             json:"department_id"`
	UserID       string `gorm:"type:uuid;not null"                             json:"user_id"`
	DeptRole     string `gorm:"type:varchar(20);not null;default:'member'"     json:"dept_role"` // leader | member
	VersionedModel

	User      *User            `gorm:"foreignKey:UserID;references:UserID"                 json:"user,omitempty"`
	Functions []MemberFunction `gorm:"foreignKey:MemberID;references:MemberID"             json:"functions,omitempty"`
}

func (DepartmentMember) TableName() string { return "department_members" }

// MemberFunction joins a department member to a function they can serve in.
// Maps to member_functions; unique on (member_id, function_id).
type MemberFunction struct {
	MemberFunctionID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_function_id"`
	MemberID         string    `gorm:"type:uuid;not null"                             json:"member_id"`
	FunctionID       string    `gorm:"type:uuid;not null"                             json:"function_id"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy        *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`

	Function *DepartmentFunction `gorm:"foreignKey:FunctionID;references:FunctionID" json:"function,omitempty"`
}

func (MemberFunction) TableName() string { return "member_functions" }
