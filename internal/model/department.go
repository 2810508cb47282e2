package model

// Department maps to departments.
// PriorityOrder: lower value wins scheduling conflicts across departments.
// AvailabilityDeadlineDay: day of month after which the next open month shifts
// forward (see availability service).
type Department struct {
	DepartmentID            string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	OrganizationID          string  `gorm:"type:uuid;not null"                             json:"organization_id"`
	ParentID                *string `gorm:"type:uuid"                                      json:"parent_id,omitempty"`
	Name                    string  `gorm:"type:varchar(100);not null"                     json:"name"`
	PriorityOrder           int     `gorm:"not null;default:0"                             json:"priority_order"`
	AvailabilityDeadlineDay int     `gorm:"type:smallint;not null;default:20"              json:"availability_deadline_day"`
	IsActive                bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	Parent    *Department          `gorm:"foreignKey:ParentID;references:DepartmentID" json:"parent,omitempty"`
	Functions []DepartmentFunction `gorm:"foreignKey:DepartmentID"                     json:"functions,omitempty"`
}

func (Department) TableName() string { return "departments" }

// DepartmentFunction is a role within a department (e.g. "Guitarist").
// Maps to department_functions.
type DepartmentFunction struct {
	FunctionID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"function_id"`
	DepartmentID string `gorm:"type:uuid;not null"                             json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	VersionedModel
}

func (DepartmentFunction) TableName() string { return "department_functions" }
