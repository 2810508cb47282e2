package model

import (
	"time"

	"gorm.io/gorm"
)

// RosterEntry assigns one department member to one function for a concrete
// date and service day ("escala"). Maps to roster_entries.
// A partial unique index on (department_id, function_id, schedule_date,
// service_day_id) keeps each slot filled at most once; Assign relies on it.
type RosterEntry struct {
	RosterEntryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"roster_entry_id"`
	DepartmentID  string    `gorm:"type:uuid;not null"                             json:"department_id"`
	FunctionID    string    `gorm:"type:uuid;not null"                             json:"function_id"`
	MemberID      string    `gorm:"type:uuid;not null"                             json:"member_id"`
	ServiceDayID  string    `gorm:"type:uuid;not null"                             json:"service_day_id"`
	ScheduleDate  time.Time `gorm:"type:date;not null"                             json:"schedule_date"`
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`

	Member     *DepartmentMember   `gorm:"foreignKey:MemberID;references:MemberID"         json:"member,omitempty"`
	Function   *DepartmentFunction `gorm:"foreignKey:FunctionID;references:FunctionID"     json:"function,omitempty"`
	ServiceDay *ServiceDay         `gorm:"foreignKey:ServiceDayID;references:ServiceDayID" json:"service_day,omitempty"`
}

func (RosterEntry) TableName() string { return "roster_entries" }
