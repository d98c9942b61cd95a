package entity

import (
	"time"

	"github.com/google/uuid"
)

type MaintenanceStatus string

const (
	MaintenanceStatusScheduled  MaintenanceStatus = "scheduled"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

// Blocks reports whether a maintenance entry in this status takes the
// vehicle off the road.
func (s MaintenanceStatus) Blocks() bool {
	return s == MaintenanceStatusScheduled || s == MaintenanceStatusInProgress
}

// MaintenanceSchedule is a planned or running service window for a vehicle.
type MaintenanceSchedule struct {
	Base
	VehicleID      uuid.UUID         `db:"vehicle_id"`
	Type           string            `db:"type"`
	Status         MaintenanceStatus `db:"status"`
	ScheduledStart time.Time         `db:"scheduled_start"`
	ScheduledEnd   time.Time         `db:"scheduled_end"`
	Notes          *string           `db:"notes"`
}
