package response

import (
	"time"

	"fleet-booking/pkg/apperr"
)

// VehicleAvailability is the summary status of a vehicle over a window.
// Maintenance takes priority over bookings in the reported value.
type VehicleAvailability string

const (
	VehicleAvailable            VehicleAvailability = "available"
	VehicleBooked               VehicleAvailability = "booked"
	VehicleMaintenanceScheduled VehicleAvailability = "maintenance_scheduled"
)

// AlternativeVehicle is a ranked substitute vehicle suggestion.
type AlternativeVehicle struct {
	ID           string              `json:"id"`
	Registration string              `json:"registration"`
	Make         string              `json:"make"`
	Model        string              `json:"model"`
	Capacity     int                 `json:"capacity"`
	Availability VehicleAvailability `json:"availability"`
}

// TimeSlot is a free window on the requested vehicle.
type TimeSlot struct {
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationHours int       `json:"duration_hours"`
	Label         string    `json:"label"`
	IsFutureDate  bool      `json:"is_future_date"`
}

// AlternativeDriver is a substitute driver with spare weekly capacity.
type AlternativeDriver struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	RemainingWeeklyHours float64 `json:"remaining_weekly_hours"`
}

// OriginalRequest echoes the request the suggestions were built for.
type OriginalRequest struct {
	VehicleID  string    `json:"vehicle_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Passengers int       `json:"passengers,omitempty"`
	DriverID   *string   `json:"driver_id,omitempty"`
}

// SuggestionBundle is the payload returned alongside a conflict error:
// what blocked the request and what the caller can do instead. Empty
// collections mean "no alternatives", not an error.
type SuggestionBundle struct {
	OriginalRequest      OriginalRequest         `json:"original_request"`
	AlternativeVehicles  []AlternativeVehicle    `json:"alternative_vehicles"`
	AlternativeTimeSlots []TimeSlot              `json:"alternative_time_slots"`
	AlternativeDrivers   []AlternativeDriver     `json:"alternative_drivers,omitempty"`
	ConflictDetails      []apperr.ConflictRecord `json:"conflict_details"`
}
