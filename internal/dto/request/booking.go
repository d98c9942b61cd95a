package request

import "time"

type CreateBookingRequest struct {
	VehicleID   string    `json:"vehicle_id" validate:"required,uuid4"`
	DriverID    *string   `json:"driver_id,omitempty" validate:"omitempty,uuid4"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Purpose     string    `json:"purpose" validate:"required,min=3,max=255"`
	Destination string    `json:"destination" validate:"required,min=3,max=255"`
	Passengers  int       `json:"passengers" validate:"required,min=1"`
	Priority    string    `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Notes       *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateBookingRequest carries only the fields being changed; a changed
// vehicle, driver or window re-runs all creation checks.
type UpdateBookingRequest struct {
	VehicleID   *string    `json:"vehicle_id,omitempty" validate:"omitempty,uuid4"`
	DriverID    *string    `json:"driver_id,omitempty" validate:"omitempty,uuid4"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Purpose     *string    `json:"purpose,omitempty" validate:"omitempty,min=3,max=255"`
	Destination *string    `json:"destination,omitempty" validate:"omitempty,min=3,max=255"`
	Passengers  *int       `json:"passengers,omitempty" validate:"omitempty,min=1"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=10,max=500"`
}
