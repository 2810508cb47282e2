package dto

// ── availability requests ──

// SetRoutineRequest upserts the default weekly availability for one service day.
type SetRoutineRequest struct {
	ServiceDayID string `json:"service_day_id" binding:"required,uuid"`
	IsAvailable  *bool  `json:"is_available"   binding:"required"`
}

// SetExceptionRequest upserts a date-specific override.
// A nil ServiceDayID covers every service on the date.
type SetExceptionRequest struct {
	Date         string  `json:"date"           binding:"required,datetime=2006-01-02"`
	ServiceDayID *string `json:"service_day_id" binding:"omitempty,uuid"`
	IsAvailable  *bool   `json:"is_available"   binding:"required"`
}

// DeleteExceptionRequest removes a date-specific override.
type DeleteExceptionRequest struct {
	Date         string  `form:"date"           binding:"required,datetime=2006-01-02"`
	ServiceDayID *string `form:"service_day_id" binding:"omitempty,uuid"`
}

// OverviewRequest selects the month for the availability overview.
type OverviewRequest struct {
	Month string `form:"month" binding:"required,datetime=2006-01"`
}

// ── availability responses ──

// RoutineResponse is one routine row.
type RoutineResponse struct {
	ServiceDayID string `json:"service_day_id"`
	ServiceName  string `json:"service_name,omitempty"`
	Weekday      int    `json:"weekday"`
	IsAvailable  bool   `json:"is_available"`
}

// ExceptionResponse is one exception row.
type ExceptionResponse struct {
	Date         string  `json:"date"`
	ServiceDayID *string `json:"service_day_id,omitempty"`
	IsAvailable  bool    `json:"is_available"`
}

// DayAvailability is the resolved availability of one service on one date.
type DayAvailability struct {
	Date          string `json:"date"`
	ServiceDayID  string `json:"service_day_id"`
	ServiceName   string `json:"service_name"`
	IsAvailable   bool   `json:"is_available"`
	FromException bool   `json:"from_exception"`
}

// MonthOverviewResponse is the per-date resolved availability of a month.
type MonthOverviewResponse struct {
	Month         string            `json:"month"`
	EditableMonth string            `json:"editable_month"`
	Editable      bool              `json:"editable"`
	Days          []DayAvailability `json:"days"`
}
