package model

import "time"

// AvailabilityRoutine is a user's default weekly availability for one service
// day. Maps to availability_routines; unique on (user_id, service_day_id).
// Absence of a row means the user is available.
type AvailabilityRoutine struct {
	RoutineID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"routine_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	ServiceDayID string    `gorm:"type:uuid;not null"                             json:"service_day_id"`
	IsAvailable  bool      `gorm:"not null"                                       json:"is_available"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (AvailabilityRoutine) TableName() string { return "availability_routines" }

// AvailabilityException is a date-specific override of the routine.
// Maps to availability_exceptions. A nil ServiceDayID covers the whole day;
// the nil case is its own uniqueness key, never collapsed with scoped rows.
type AvailabilityException struct {
	ExceptionID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exception_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	SpecificDate time.Time `gorm:"type:date;not null"                             json:"specific_date"`
	ServiceDayID *string   `gorm:"type:uuid"                                      json:"service_day_id,omitempty"`
	IsAvailable  bool      `gorm:"not null"                                       json:"is_available"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (AvailabilityException) TableName() string { return "availability_exceptions" }
