package entity

type VehicleStatus string

const (
	VehicleStatusActive       VehicleStatus = "active"
	VehicleStatusMaintenance  VehicleStatus = "maintenance"
	VehicleStatusDisposed     VehicleStatus = "disposed"
	VehicleStatusOutOfService VehicleStatus = "out_of_service"
)

// Vehicle is a fleet vehicle. Only active vehicles are bookable.
type Vehicle struct {
	Base
	Registration string        `db:"registration"`
	Make         string        `db:"make"`
	Model        string        `db:"model"`
	Capacity     int           `db:"capacity"`
	Status       VehicleStatus `db:"status"`
	FuelType     string        `db:"fuel_type"`
}

func (v *Vehicle) Bookable() bool {
	return v.Status == VehicleStatusActive
}
