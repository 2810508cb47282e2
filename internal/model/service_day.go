package model

// ServiceDay is a recurring weekly event template ("service occurrence type"),
// e.g. "Sunday Evening Service". Maps to service_days.
type ServiceDay struct {
	ServiceDayID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"service_day_id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organization_id"`
	Weekday        int    `gorm:"type:smallint;not null"                         json:"weekday"` // 0=Sunday .. 6=Saturday
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	VersionedModel
}

func (ServiceDay) TableName() string { return "service_days" }
