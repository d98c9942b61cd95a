package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Blocks reports whether a booking in this status occupies its vehicle and
// driver for conflict purposes.
func (s BookingStatus) Blocks() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

// Terminal reports whether no further transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCompleted || s == BookingStatusCancelled
}

type BookingPriority string

const (
	PriorityHigh   BookingPriority = "high"
	PriorityMedium BookingPriority = "medium"
	PriorityLow    BookingPriority = "low"
)

// Booking is a time-bounded reservation of a vehicle, optionally with an
// assigned driver. Bookings are never hard-deleted; terminal statuses keep
// them as historical records.
type Booking struct {
	Base
	VehicleID       uuid.UUID       `db:"vehicle_id"`
	RequesterID     uuid.UUID       `db:"requester_id"`
	DriverID        *uuid.UUID      `db:"driver_id"`
	StartTime       time.Time       `db:"start_time"`
	EndTime         time.Time       `db:"end_time"`
	Purpose         string          `db:"purpose"`
	Destination     string          `db:"destination"`
	Passengers      int             `db:"passengers"`
	Status          BookingStatus   `db:"status"`
	Priority        BookingPriority `db:"priority"`
	ApproverID      *uuid.UUID      `db:"approver_id"`
	ApprovedAt      *time.Time      `db:"approved_at"`
	RejectionReason *string         `db:"rejection_reason"`
	Notes           *string         `db:"notes"`
}

// DurationHours is the booked window length in hours.
func (b *Booking) DurationHours() float64 {
	return b.EndTime.Sub(b.StartTime).Hours()
}
