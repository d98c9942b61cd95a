package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fleet-booking/internal/data/entity"
	"fleet-booking/internal/data/repository"
	"fleet-booking/internal/dto/request"
	"fleet-booking/internal/dto/response"
	"fleet-booking/pkg/apperr"
	"fleet-booking/pkg/timeutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// minLeadTime is how far in the future a booking must start.
	minLeadTime = 2 * time.Hour

	minBookingDuration = time.Hour
	maxBookingDuration = 30 * 24 * time.Hour

	minRejectionReasonLen = 10
)

// allowedTransitions is the booking state machine. Absent keys are terminal.
var allowedTransitions = map[entity.BookingStatus][]entity.BookingStatus{
	entity.BookingStatusPending: {
		entity.BookingStatusApproved,
		entity.BookingStatusRejected,
		entity.BookingStatusCancelled,
	},
	entity.BookingStatusApproved: {
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
	},
}

func canTransition(from, to entity.BookingStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// BookingService owns the booking lifecycle: creation with full conflict
// and workload checks, the pending review flow, and the terminal
// transitions.
type BookingService interface {
	Create(ctx context.Context, requesterID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	Update(ctx context.Context, id, actorID uuid.UUID, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	Approve(ctx context.Context, id, approverID uuid.UUID) (*response.BookingResponse, error)
	Reject(ctx context.Context, id, approverID uuid.UUID, reason string) (*response.BookingResponse, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID) (*response.BookingResponse, error)
	Complete(ctx context.Context, id, actorID uuid.UUID) (*response.BookingResponse, error)

	GetByID(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo         *repository.Repository
	availability AvailabilityService
	suggestions  SuggestionService
	notifier     Notifier
	log          *zap.Logger
	now          func() time.Time
}

func NewBookingService(
	repo *repository.Repository,
	availability AvailabilityService,
	suggestions SuggestionService,
	notifier Notifier,
	log *zap.Logger,
	now func() time.Time,
) BookingService {
	return &bookingService{
		repo:         repo,
		availability: availability,
		suggestions:  suggestions,
		notifier:     notifier,
		log:          log.With(zap.String("service", "booking")),
		now:          now,
	}
}

func (s *bookingService) Create(ctx context.Context, requesterID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return nil, apperr.Validation("invalid vehicle id")
	}

	var driverID *uuid.UUID
	if req.DriverID != nil {
		id, err := uuid.Parse(*req.DriverID)
		if err != nil {
			return nil, apperr.Validation("invalid driver id")
		}
		driverID = &id
	}

	if err := s.validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	vehicle, err := s.checkVehicle(ctx, vehicleID, req.StartTime, req.EndTime, req.Passengers, driverID, nil)
	if err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := s.checkDriver(ctx, *driverID, vehicleID, req.StartTime, req.EndTime, req.Passengers, nil); err != nil {
			return nil, err
		}
	}

	priority := entity.PriorityMedium
	if req.Priority != "" {
		priority = entity.BookingPriority(req.Priority)
	}

	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VehicleID:   vehicle.ID,
		RequesterID: requesterID,
		DriverID:    driverID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Purpose:     req.Purpose,
		Destination: req.Destination,
		Passengers:  req.Passengers,
		Status:      entity.BookingStatusPending,
		Priority:    priority,
		Notes:       req.Notes,
	}

	ok, err := s.repo.Booking.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if !ok {
		// Lost an insert race: a blocking record appeared between the
		// pre-checks and the guarded insert.
		return nil, s.conflictError(ctx, "requested window is no longer available",
			vehicleID, req.StartTime, req.EndTime, req.Passengers, driverID)
	}

	s.log.Info("Booking created",
		zap.String("bookingId", booking.ID.String()),
		zap.String("vehicleId", vehicle.ID.String()),
		zap.Time("startTime", booking.StartTime),
		zap.Time("endTime", booking.EndTime),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Update(ctx context.Context, id, actorID uuid.UUID, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.RequesterID != actorID {
		return nil, apperr.Validation("only the requester can modify a booking")
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, apperr.State("only pending bookings can be modified, booking is %s", booking.Status)
	}

	if req.VehicleID != nil {
		vid, err := uuid.Parse(*req.VehicleID)
		if err != nil {
			return nil, apperr.Validation("invalid vehicle id")
		}
		booking.VehicleID = vid
	}
	if req.DriverID != nil {
		did, err := uuid.Parse(*req.DriverID)
		if err != nil {
			return nil, apperr.Validation("invalid driver id")
		}
		booking.DriverID = &did
	}
	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
	}
	if req.Purpose != nil {
		booking.Purpose = *req.Purpose
	}
	if req.Destination != nil {
		booking.Destination = *req.Destination
	}
	if req.Passengers != nil {
		booking.Passengers = *req.Passengers
	}
	if req.Priority != nil {
		booking.Priority = entity.BookingPriority(*req.Priority)
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	// A modified pending booking goes through every creation check again,
	// excluding the booking itself from the overlap queries.
	if err := s.validateWindow(booking.StartTime, booking.EndTime); err != nil {
		return nil, err
	}
	if _, err := s.checkVehicle(ctx, booking.VehicleID, booking.StartTime, booking.EndTime, booking.Passengers, booking.DriverID, &booking.ID); err != nil {
		return nil, err
	}
	if booking.DriverID != nil {
		if err := s.checkDriver(ctx, *booking.DriverID, booking.VehicleID, booking.StartTime, booking.EndTime, booking.Passengers, &booking.ID); err != nil {
			return nil, err
		}
	}

	booking.UpdatedAt = s.now()
	ok, err := s.repo.Booking.UpdatePending(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("update booking %s: %w", id.String(), err)
	}
	if !ok {
		fresh, err := s.loadBooking(ctx, id)
		if err != nil {
			return nil, err
		}
		if fresh.Status != entity.BookingStatusPending {
			return nil, apperr.State("booking is no longer pending, it is %s", fresh.Status)
		}
		return nil, s.conflictError(ctx, "requested window is no longer available",
			booking.VehicleID, booking.StartTime, booking.EndTime, booking.Passengers, booking.DriverID)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Approve(ctx context.Context, id, approverID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(booking.Status, entity.BookingStatusApproved) {
		return nil, apperr.State("cannot approve a booking in status %s", booking.Status)
	}

	// Re-verify before committing: blocking records or driver workload may
	// have changed while the booking sat in the queue.
	records, err := s.availability.CheckConflicts(ctx, booking.VehicleID, booking.StartTime, booking.EndTime, &booking.ID)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return nil, s.conflictError(ctx, "booking window is no longer free",
			booking.VehicleID, booking.StartTime, booking.EndTime, booking.Passengers, booking.DriverID)
	}
	if booking.DriverID != nil {
		if err := s.checkDriver(ctx, *booking.DriverID, booking.VehicleID, booking.StartTime, booking.EndTime, booking.Passengers, &booking.ID); err != nil {
			return nil, err
		}
	}

	at := s.now()
	ok, err := s.repo.Booking.ApprovePending(ctx, id, approverID, at)
	if err != nil {
		return nil, fmt.Errorf("approve booking %s: %w", id.String(), err)
	}
	if !ok {
		fresh, err := s.loadBooking(ctx, id)
		if err != nil {
			return nil, err
		}
		if fresh.Status != entity.BookingStatusPending {
			return nil, apperr.State("booking is no longer pending, it is %s", fresh.Status)
		}
		// Still pending, so the approve guard found an approved sibling.
		return nil, s.conflictError(ctx, "an overlapping booking was approved first",
			booking.VehicleID, booking.StartTime, booking.EndTime, booking.Passengers, booking.DriverID)
	}

	old := booking.Status
	booking.Status = entity.BookingStatusApproved
	booking.ApproverID = &approverID
	booking.ApprovedAt = &at
	booking.UpdatedAt = at
	s.notifier.BookingStatusChanged(ctx, booking, old, approverID)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Reject(ctx context.Context, id, approverID uuid.UUID, reason string) (*response.BookingResponse, error) {
	if len(strings.TrimSpace(reason)) < minRejectionReasonLen {
		return nil, apperr.Validation("rejection reason must be at least %d characters", minRejectionReasonLen)
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(booking.Status, entity.BookingStatusRejected) {
		return nil, apperr.State("cannot reject a booking in status %s", booking.Status)
	}

	at := s.now()
	ok, err := s.repo.Booking.RejectPending(ctx, id, approverID, reason, at)
	if err != nil {
		return nil, fmt.Errorf("reject booking %s: %w", id.String(), err)
	}
	if !ok {
		return nil, apperr.State("booking is no longer pending")
	}

	old := booking.Status
	booking.Status = entity.BookingStatusRejected
	booking.ApproverID = &approverID
	booking.RejectionReason = &reason
	booking.UpdatedAt = at
	s.notifier.BookingStatusChanged(ctx, booking, old, approverID)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Cancel(ctx context.Context, id, actorID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.RequesterID != actorID {
		return nil, apperr.Validation("only the requester can cancel a booking")
	}
	if !canTransition(booking.Status, entity.BookingStatusCancelled) {
		return nil, apperr.State("cannot cancel a booking in status %s", booking.Status)
	}

	at := s.now()
	ok, err := s.repo.Booking.CancelActive(ctx, id, at)
	if err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", id.String(), err)
	}
	if !ok {
		return nil, apperr.State("booking is already in a final state")
	}

	old := booking.Status
	booking.Status = entity.BookingStatusCancelled
	booking.UpdatedAt = at
	s.notifier.BookingStatusChanged(ctx, booking, old, actorID)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Complete(ctx context.Context, id, actorID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(booking.Status, entity.BookingStatusCompleted) {
		return nil, apperr.State("cannot complete a booking in status %s", booking.Status)
	}

	at := s.now()
	ok, err := s.repo.Booking.CompleteApproved(ctx, id, at)
	if err != nil {
		return nil, fmt.Errorf("complete booking %s: %w", id.String(), err)
	}
	if !ok {
		return nil, apperr.State("booking is no longer approved")
	}

	old := booking.Status
	booking.Status = entity.BookingStatusCompleted
	booking.UpdatedAt = at
	s.notifier.BookingStatusChanged(ctx, booking, old, actorID)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetByID(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListByRequester(ctx context.Context, requesterID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByRequester(ctx, requesterID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", requesterID.String(), err)
	}
	total, err := s.repo.Booking.CountByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("count bookings for %s: %w", requesterID.String(), err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, response.BookingToResponse(b))
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

// validateWindow enforces the temporal rules: lead time, business hours and
// duration bounds. The 22:00 closing edge is valid as an end time only.
func (s *bookingService) validateWindow(start, end time.Time) error {
	if !end.After(start) {
		return apperr.Validation("end time must be after start time")
	}

	now := s.now()
	if start.Before(now.Add(minLeadTime)) {
		return apperr.Validation("bookings must start at least %.0f hours from now", minLeadTime.Hours())
	}

	if !timeutil.WithinDayWindow(start) {
		return apperr.Validation("bookings must start within business hours (%02d:00-%02d:00)",
			timeutil.DayStartHour, timeutil.DayEndHour)
	}
	if !timeutil.WithinDayWindow(end) && !timeutil.AtDayClose(end) {
		return apperr.Validation("bookings must end within business hours (%02d:00-%02d:00)",
			timeutil.DayStartHour, timeutil.DayEndHour)
	}

	duration := end.Sub(start)
	if duration < minBookingDuration {
		return apperr.Validation("bookings must be at least %.0f hour long", minBookingDuration.Hours())
	}
	if duration > maxBookingDuration {
		return apperr.Validation("bookings may not exceed %d days", int(maxBookingDuration.Hours()/24))
	}

	return nil
}

// checkVehicle validates the vehicle leg of a request: existence, capacity,
// bookable status, then overlap with maintenance and other bookings.
// Capacity is checked before any conflict query runs.
func (s *bookingService) checkVehicle(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, passengers int, driverID, exclude *uuid.UUID) (*entity.Vehicle, error) {
	vehicle, err := s.repo.Vehicle.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("find vehicle %s: %w", vehicleID.String(), err)
	}
	if vehicle == nil {
		return nil, apperr.NotFound("vehicle not found")
	}

	if passengers > vehicle.Capacity {
		return nil, apperr.Capacity("vehicle %s seats %d passengers, %d requested",
			vehicle.Registration, vehicle.Capacity, passengers)
	}

	if !vehicle.Bookable() {
		return nil, s.conflictError(ctx, fmt.Sprintf("vehicle is not bookable (status %s)", vehicle.Status),
			vehicleID, start, end, passengers, driverID)
	}

	records, err := s.availability.CheckConflicts(ctx, vehicleID, start, end, exclude)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return nil, s.conflictError(ctx, "vehicle is not available in the requested window",
			vehicleID, start, end, passengers, driverID)
	}

	return vehicle, nil
}

// checkDriver validates the driver leg: driver flag and active status,
// schedule/booking overlap, then the weekly hour cap.
func (s *bookingService) checkDriver(ctx context.Context, driverID, vehicleID uuid.UUID, start, end time.Time, passengers int, exclude *uuid.UUID) error {
	driver, err := s.repo.User.FindByID(ctx, driverID)
	if err != nil {
		return fmt.Errorf("find driver %s: %w", driverID.String(), err)
	}
	if driver == nil {
		return apperr.NotFound("driver not found")
	}
	if !driver.IsDriver || !driver.IsActive {
		return apperr.Validation("user %s is not an active driver", driver.Name)
	}

	free, err := s.availability.IsDriverAvailable(ctx, driverID, start, end, exclude)
	if err != nil {
		return err
	}
	if !free {
		return s.conflictError(ctx, "driver is not available in the requested window",
			vehicleID, start, end, passengers, &driverID)
	}

	weekly, err := s.availability.WeeklyHours(ctx, driverID, start)
	if err != nil {
		return err
	}
	duration := end.Sub(start).Hours()
	if weekly+duration > entity.WeeklyDriverHourCap {
		return apperr.WorkloadExceeded(
			"driver %s would reach %.1f hours this week, the cap is %.0f",
			driver.Name, weekly+duration, entity.WeeklyDriverHourCap)
	}

	return nil
}

// conflictError builds a conflict error with the blocking records and, when
// the suggestion engine succeeds, the alternatives bundle attached.
func (s *bookingService) conflictError(ctx context.Context, message string, vehicleID uuid.UUID, start, end time.Time, passengers int, driverID *uuid.UUID) error {
	bundle, err := s.suggestions.ConflictResolutionSuggestions(ctx, vehicleID, start, end, passengers, driverID)
	if err != nil {
		s.log.Warn("Failed to build conflict suggestions",
			zap.String("vehicleId", vehicleID.String()),
			zap.Error(err),
		)
		return apperr.Conflict(message, nil)
	}
	return apperr.Conflict(message, bundle.ConflictDetails).WithDetails(bundle)
}

func (s *bookingService) loadBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", id.String(), err)
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}
	return booking, nil
}
