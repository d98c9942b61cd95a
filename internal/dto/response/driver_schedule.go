package response

import (
	"time"

	"fleet-booking/internal/data/entity"
)

type DriverScheduleEntry struct {
	ID          string                      `json:"id"`
	Type        entity.DriverScheduleType   `json:"type"`
	Status      entity.DriverScheduleStatus `json:"status"`
	StartTime   time.Time                   `json:"start_time"`
	EndTime     time.Time                   `json:"end_time"`
	Description *string                     `json:"description,omitempty"`
}

// DriverScheduleResponse is a driver's schedule entries plus their weekly
// booking load.
type DriverScheduleResponse struct {
	DriverID             string                `json:"driver_id"`
	DriverName           string                `json:"driver_name"`
	Entries              []DriverScheduleEntry `json:"entries"`
	CommittedWeeklyHours float64               `json:"committed_weekly_hours"`
	RemainingWeeklyHours float64               `json:"remaining_weekly_hours"`
}

func DriverScheduleEntryToResponse(s *entity.DriverSchedule) DriverScheduleEntry {
	return DriverScheduleEntry{
		ID:          s.ID.String(),
		Type:        s.Type,
		Status:      s.Status,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Description: s.Description,
	}
}
