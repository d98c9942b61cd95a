package response

import (
	"time"

	"fleet-booking/internal/data/entity"
)

type VehicleResponse struct {
	ID           string               `json:"id"`
	Registration string               `json:"registration"`
	Make         string               `json:"make"`
	Model        string               `json:"model"`
	Capacity     int                  `json:"capacity"`
	Status       entity.VehicleStatus `json:"status"`
	FuelType     string               `json:"fuel_type"`
	CreatedAt    time.Time            `json:"created_at"`
}

// VehicleAvailabilityResponse pairs a vehicle with its availability over a
// queried window.
type VehicleAvailabilityResponse struct {
	Vehicle      VehicleResponse     `json:"vehicle"`
	Availability VehicleAvailability `json:"availability"`
}

func VehicleToResponse(v *entity.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:           v.ID.String(),
		Registration: v.Registration,
		Make:         v.Make,
		Model:        v.Model,
		Capacity:     v.Capacity,
		Status:       v.Status,
		FuelType:     v.FuelType,
		CreatedAt:    v.CreatedAt,
	}
}
