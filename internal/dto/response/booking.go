package response

import (
	"time"

	"fleet-booking/internal/data/entity"
)

type BookingResponse struct {
	ID              string                 `json:"id"`
	VehicleID       string                 `json:"vehicle_id"`
	RequesterID     string                 `json:"requester_id"`
	DriverID        *string                `json:"driver_id,omitempty"`
	StartTime       time.Time              `json:"start_time"`
	EndTime         time.Time              `json:"end_time"`
	Purpose         string                 `json:"purpose"`
	Destination     string                 `json:"destination"`
	Passengers      int                    `json:"passengers"`
	Status          entity.BookingStatus   `json:"status"`
	Priority        entity.BookingPriority `json:"priority"`
	ApproverID      *string                `json:"approver_id,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	RejectionReason *string                `json:"rejection_reason,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID.String(),
		VehicleID:       b.VehicleID.String(),
		RequesterID:     b.RequesterID.String(),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Purpose:         b.Purpose,
		Destination:     b.Destination,
		Passengers:      b.Passengers,
		Status:          b.Status,
		Priority:        b.Priority,
		ApprovedAt:      b.ApprovedAt,
		RejectionReason: b.RejectionReason,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.DriverID != nil {
		id := b.DriverID.String()
		resp.DriverID = &id
	}
	if b.ApproverID != nil {
		id := b.ApproverID.String()
		resp.ApproverID = &id
	}

	return resp
}
