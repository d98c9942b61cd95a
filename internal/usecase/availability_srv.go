package usecase

import (
	"context"
	"fmt"
	"time"

	"fleet-booking/internal/data/entity"
	"fleet-booking/internal/data/repository"
	"fleet-booking/internal/dto/response"
	"fleet-booking/pkg/apperr"
	"fleet-booking/pkg/timeutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const conflictTimeFormat = "2006-01-02 15:04"

// AvailabilityService answers whether a vehicle or driver is free in a
// window. All operations are read-only.
type AvailabilityService interface {
	// VehicleConflicts returns pending/approved bookings of the vehicle
	// overlapping [start, end], excluding excludeBookingID when given.
	VehicleConflicts(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) ([]*entity.Booking, error)

	// MaintenanceConflicts returns scheduled/in-progress maintenance of the
	// vehicle overlapping [start, end].
	MaintenanceConflicts(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.MaintenanceSchedule, error)

	// IsDriverAvailable reports whether the driver has neither an active
	// schedule entry nor a blocking booking overlapping [start, end].
	IsDriverAvailable(ctx context.Context, driverID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) (bool, error)

	// DriverConflicts merges schedule and booking conflicts of the driver
	// into tagged records.
	DriverConflicts(ctx context.Context, driverID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) ([]apperr.ConflictRecord, error)

	// VehicleAvailabilityStatus summarizes the vehicle over the window.
	// Maintenance takes priority over bookings in the reported status.
	VehicleAvailabilityStatus(ctx context.Context, vehicle *entity.Vehicle, start, end time.Time) (response.VehicleAvailability, error)

	// CheckConflicts enumerates every blocking record for the vehicle in
	// the window: maintenance entries first, then bookings.
	CheckConflicts(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) ([]apperr.ConflictRecord, error)

	// WeeklyHours sums the driver's approved and completed booking hours in
	// the Monday-Sunday week containing reference.
	WeeklyHours(ctx context.Context, driverID uuid.UUID, reference time.Time) (float64, error)

	// DriverSchedule lists the driver's schedule entries together with
	// the committed hours of the week containing reference.
	DriverSchedule(ctx context.Context, driverID uuid.UUID, reference time.Time) (*response.DriverScheduleResponse, error)
}

type availabilityService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		log:  log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) VehicleConflicts(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) ([]*entity.Booking, error) {
	bookings, err := s.repo.Booking.FindOverlappingByVehicle(ctx, vehicleID, start, end, excludeBookingID)
	if err != nil {
		return nil, fmt.Errorf("vehicle conflicts for %s: %w", vehicleID.String(), err)
	}

	// The repository range query and in-memory fakes both funnel through
	// the same predicate here, so the inclusive-endpoint convention holds
	// no matter where the rows came from.
	var conflicts []*entity.Booking
	for _, b := range bookings {
		if b.Status.Blocks() && timeutil.Overlaps(b.StartTime, b.EndTime, start, end) {
			conflicts = append(conflicts, b)
		}
	}

	return conflicts, nil
}

func (s *availabilityService) MaintenanceConflicts(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.MaintenanceSchedule, error) {
	schedules, err := s.repo.Maintenance.FindOverlapping(ctx, vehicleID, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("maintenance conflicts for %s: %w", vehicleID.String(), err)
	}

	var conflicts []*entity.MaintenanceSchedule
	for _, m := range schedules {
		if m.Status.Blocks() && timeutil.Overlaps(m.ScheduledStart, m.ScheduledEnd, start, end) {
			conflicts = append(conflicts, m)
		}
	}

	return conflicts, nil
}

func (s *availabilityService) IsDriverAvailable(ctx context.Context, driverID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) (bool, error) {
	schedules, err := s.driverScheduleConflicts(ctx, driverID, start, end)
	if err != nil {
		return false, err
	}
	if len(schedules) > 0 {
		return false, nil
	}

	bookings, err := s.driverBookingConflicts(ctx, driverID, start, end, excludeBookingID)
	if err != nil {
		return false, err
	}

	return len(bookings) == 0, nil
}

func (s *availabilityService) DriverConflicts(ctx context.Context, driverID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) ([]apperr.ConflictRecord, error) {
	schedules, err := s.driverScheduleConflicts(ctx, driverID, start, end)
	if err != nil {
		return nil, err
	}

	bookings, err := s.driverBookingConflicts(ctx, driverID, start, end, excludeBookingID)
	if err != nil {
		return nil, err
	}

	var records []apperr.ConflictRecord
	for _, sc := range schedules {
		records = append(records, apperr.ConflictRecord{
			Kind:  apperr.ConflictDriverSchedule,
			Start: sc.StartTime,
			End:   sc.EndTime,
			Reason: fmt.Sprintf("Driver unavailable (%s) from %s to %s",
				sc.Type,
				sc.StartTime.Format(conflictTimeFormat),
				sc.EndTime.Format(conflictTimeFormat)),
		})
	}
	for _, b := range bookings {
		records = append(records, apperr.ConflictRecord{
			Kind:  apperr.ConflictBooking,
			Start: b.StartTime,
			End:   b.EndTime,
			Reason: fmt.Sprintf("Driver already assigned to a booking from %s to %s",
				b.StartTime.Format(conflictTimeFormat),
				b.EndTime.Format(conflictTimeFormat)),
		})
	}

	return records, nil
}

func (s *availabilityService) VehicleAvailabilityStatus(ctx context.Context, vehicle *entity.Vehicle, start, end time.Time) (response.VehicleAvailability, error) {
	maintenance, err := s.MaintenanceConflicts(ctx, vehicle.ID, start, end, nil)
	if err != nil {
		return "", err
	}
	if len(maintenance) > 0 {
		return response.VehicleMaintenanceScheduled, nil
	}

	bookings, err := s.VehicleConflicts(ctx, vehicle.ID, start, end, nil)
	if err != nil {
		return "", err
	}
	if len(bookings) > 0 {
		return response.VehicleBooked, nil
	}

	return response.VehicleAvailable, nil
}

func (s *availabilityService) CheckConflicts(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) ([]apperr.ConflictRecord, error) {
	maintenance, err := s.MaintenanceConflicts(ctx, vehicleID, start, end, nil)
	if err != nil {
		return nil, err
	}

	bookings, err := s.VehicleConflicts(ctx, vehicleID, start, end, excludeBookingID)
	if err != nil {
		return nil, err
	}

	var records []apperr.ConflictRecord
	for _, m := range maintenance {
		records = append(records, apperr.ConflictRecord{
			Kind:  apperr.ConflictMaintenance,
			Start: m.ScheduledStart,
			End:   m.ScheduledEnd,
			Reason: fmt.Sprintf("Vehicle maintenance (%s) from %s to %s",
				m.Type,
				m.ScheduledStart.Format(conflictTimeFormat),
				m.ScheduledEnd.Format(conflictTimeFormat)),
		})
	}
	for _, b := range bookings {
		records = append(records, apperr.ConflictRecord{
			Kind:  apperr.ConflictBooking,
			Start: b.StartTime,
			End:   b.EndTime,
			Reason: fmt.Sprintf("Vehicle already booked from %s to %s",
				b.StartTime.Format(conflictTimeFormat),
				b.EndTime.Format(conflictTimeFormat)),
		})
	}

	return records, nil
}

func (s *availabilityService) WeeklyHours(ctx context.Context, driverID uuid.UUID, reference time.Time) (float64, error) {
	weekStart, weekEnd := timeutil.WeekBounds(reference)

	bookings, err := s.repo.Booking.FindCommittedByDriver(ctx, driverID, weekStart, weekEnd)
	if err != nil {
		return 0, fmt.Errorf("weekly hours for driver %s: %w", driverID.String(), err)
	}

	var hours float64
	for _, b := range bookings {
		if b.Status != entity.BookingStatusApproved && b.Status != entity.BookingStatusCompleted {
			continue
		}
		if b.StartTime.Before(weekStart) || !b.StartTime.Before(weekEnd) {
			continue
		}
		hours += b.DurationHours()
	}

	return hours, nil
}

func (s *availabilityService) DriverSchedule(ctx context.Context, driverID uuid.UUID, reference time.Time) (*response.DriverScheduleResponse, error) {
	driver, err := s.repo.User.FindByID(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("find driver %s: %w", driverID.String(), err)
	}
	if driver == nil || !driver.IsDriver {
		return nil, apperr.NotFound("driver not found")
	}

	schedules, err := s.repo.DriverSchedule.FindByDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("list schedules for %s: %w", driverID.String(), err)
	}

	hours, err := s.WeeklyHours(ctx, driverID, reference)
	if err != nil {
		return nil, err
	}

	entries := make([]response.DriverScheduleEntry, 0, len(schedules))
	for _, sc := range schedules {
		entries = append(entries, response.DriverScheduleEntryToResponse(sc))
	}

	return &response.DriverScheduleResponse{
		DriverID:             driverID.String(),
		DriverName:           driver.Name,
		Entries:              entries,
		CommittedWeeklyHours: hours,
		RemainingWeeklyHours: entity.WeeklyDriverHourCap - hours,
	}, nil
}

func (s *availabilityService) driverScheduleConflicts(ctx context.Context, driverID uuid.UUID, start, end time.Time) ([]*entity.DriverSchedule, error) {
	schedules, err := s.repo.DriverSchedule.FindOverlapping(ctx, driverID, start, end)
	if err != nil {
		return nil, fmt.Errorf("driver schedule conflicts for %s: %w", driverID.String(), err)
	}

	var conflicts []*entity.DriverSchedule
	for _, sc := range schedules {
		if sc.Status == entity.DriverScheduleStatusActive && timeutil.Overlaps(sc.StartTime, sc.EndTime, start, end) {
			conflicts = append(conflicts, sc)
		}
	}

	return conflicts, nil
}

func (s *availabilityService) driverBookingConflicts(ctx context.Context, driverID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) ([]*entity.Booking, error) {
	bookings, err := s.repo.Booking.FindOverlappingByDriver(ctx, driverID, start, end, excludeBookingID)
	if err != nil {
		return nil, fmt.Errorf("driver booking conflicts for %s: %w", driverID.String(), err)
	}

	var conflicts []*entity.Booking
	for _, b := range bookings {
		if b.Status.Blocks() && timeutil.Overlaps(b.StartTime, b.EndTime, start, end) {
			conflicts = append(conflicts, b)
		}
	}

	return conflicts, nil
}
