package dto

// CreateServiceDayRequest creates a recurring weekly service day.
type CreateServiceDayRequest struct {
	Weekday int    `json:"weekday" binding:"min=0,max=6"`
	Name    string `json:"name"    binding:"required,min=2,max=100"`
}

// UpdateServiceDayRequest updates a service day.
// Weekday is intentionally immutable once rosters reference the day.
type UpdateServiceDayRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// ServiceDayResponse is the service-day shape.
type ServiceDayResponse struct {
	ID      string `json:"id"`
	Weekday int    `json:"weekday"`
	Name    string `json:"name"`
}
