package entity

import (
	"time"

	"github.com/google/uuid"
)

type DriverScheduleType string

const (
	DriverScheduleLeave       DriverScheduleType = "leave"
	DriverScheduleTraining    DriverScheduleType = "training"
	DriverScheduleAssignment  DriverScheduleType = "assignment"
	DriverScheduleUnavailable DriverScheduleType = "unavailable"
)

type DriverScheduleStatus string

const (
	DriverScheduleStatusActive    DriverScheduleStatus = "active"
	DriverScheduleStatusCancelled DriverScheduleStatus = "cancelled"
)

// DriverSchedule is a non-booking unavailability window for a driver
// (leave, training, a standing assignment). Only active entries block
// bookings.
type DriverSchedule struct {
	Base
	DriverID    uuid.UUID            `db:"driver_id"`
	Type        DriverScheduleType   `db:"type"`
	Status      DriverScheduleStatus `db:"status"`
	StartTime   time.Time            `db:"start_time"`
	EndTime     time.Time            `db:"end_time"`
	Description *string              `db:"description"`
}
