package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"fleet-booking/internal/data/entity"
	"fleet-booking/internal/data/repository"
	"fleet-booking/internal/dto/response"
	"fleet-booking/pkg/apperr"
	"fleet-booking/pkg/timeutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// maxSuggestions bounds each alternative list in a suggestion bundle.
	maxSuggestions = 3

	// futureDaysProbed is how many days past the requested date the slot
	// search looks for fully free days.
	futureDaysProbed = 3

	// similarCapacityRatio sets the capacity floor for substitute
	// vehicles relative to the originally requested one.
	similarCapacityRatio = 0.8
)

// SuggestionService builds alternatives when a booking request cannot be
// satisfied: similar vehicles, free slots on the same vehicle, and
// substitute drivers.
type SuggestionService interface {
	SimilarAvailableVehicles(ctx context.Context, original *entity.Vehicle, start, end time.Time, passengers, limit int) ([]response.AlternativeVehicle, error)
	AlternativeTimeSlots(ctx context.Context, vehicleID uuid.UUID, date time.Time, durationHours, limit int) ([]response.TimeSlot, error)
	AlternativeDrivers(ctx context.Context, excludeDriver *uuid.UUID, start, end time.Time, limit int) ([]response.AlternativeDriver, error)

	// ConflictResolutionSuggestions assembles the full bundle returned
	// alongside a conflict error. Driver alternatives are only included
	// when the original request named a driver.
	ConflictResolutionSuggestions(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, passengers int, driverID *uuid.UUID) (*response.SuggestionBundle, error)
}

type suggestionService struct {
	repo         *repository.Repository
	availability AvailabilityService
	log          *zap.Logger
}

func NewSuggestionService(repo *repository.Repository, availability AvailabilityService, log *zap.Logger) SuggestionService {
	return &suggestionService{
		repo:         repo,
		availability: availability,
		log:          log.With(zap.String("service", "suggestion")),
	}
}

// similarity rank: lower is better. Same make and model beats same make,
// which beats everything else.
func vehicleRank(original, candidate *entity.Vehicle) int {
	if strings.EqualFold(original.Make, candidate.Make) {
		if strings.EqualFold(original.Model, candidate.Model) {
			return 0
		}
		return 1
	}
	return 2
}

func (s *suggestionService) SimilarAvailableVehicles(ctx context.Context, original *entity.Vehicle, start, end time.Time, passengers, limit int) ([]response.AlternativeVehicle, error) {
	if limit <= 0 || limit > maxSuggestions {
		limit = maxSuggestions
	}

	minCapacity := int(math.Floor(similarCapacityRatio * float64(original.Capacity)))
	if passengers > minCapacity {
		minCapacity = passengers
	}

	vehicles, err := s.repo.Vehicle.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("similar vehicles: %w", err)
	}

	var candidates []*entity.Vehicle
	statuses := make(map[uuid.UUID]response.VehicleAvailability)
	for _, v := range vehicles {
		if v.ID == original.ID || !v.Bookable() || v.Capacity < minCapacity {
			continue
		}
		status, err := s.availability.VehicleAvailabilityStatus(ctx, v, start, end)
		if err != nil {
			return nil, err
		}
		if status == response.VehicleAvailable {
			candidates = append(candidates, v)
			statuses[v.ID] = status
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := vehicleRank(original, candidates[i]), vehicleRank(original, candidates[j])
		if ri != rj {
			return ri < rj
		}
		if candidates[i].Capacity != candidates[j].Capacity {
			return candidates[i].Capacity > candidates[j].Capacity
		}
		return candidates[i].Registration < candidates[j].Registration
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	alternatives := make([]response.AlternativeVehicle, 0, len(candidates))
	for _, v := range candidates {
		alternatives = append(alternatives, response.AlternativeVehicle{
			ID:           v.ID.String(),
			Registration: v.Registration,
			Make:         v.Make,
			Model:        v.Model,
			Capacity:     v.Capacity,
			Availability: statuses[v.ID],
		})
	}

	return alternatives, nil
}

func (s *suggestionService) AlternativeTimeSlots(ctx context.Context, vehicleID uuid.UUID, date time.Time, durationHours, limit int) ([]response.TimeSlot, error) {
	if limit <= 0 || limit > maxSuggestions {
		limit = maxSuggestions
	}
	if durationHours < 1 {
		durationHours = 1
	}

	dayStart, dayEnd := timeutil.DayWindow(date)

	busy, err := s.busyWindows(ctx, vehicleID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	// Sweep the business-hours window, jumping the cursor over each busy
	// interval and emitting the gaps that fit the requested duration.
	var slots []response.TimeSlot
	cursor := dayStart
	for _, w := range busy {
		if cursor.Before(w.start) {
			slots = appendGap(slots, cursor, w.start, durationHours)
		}
		cursor = timeutil.MaxTime(cursor, w.end)
	}
	if cursor.Before(dayEnd) {
		slots = appendGap(slots, cursor, dayEnd, durationHours)
	}

	for d := 1; d <= futureDaysProbed && len(slots) < limit; d++ {
		ds, de := timeutil.DayWindow(date.AddDate(0, 0, d))
		busy, err := s.busyWindows(ctx, vehicleID, ds, de)
		if err != nil {
			return nil, err
		}
		if len(busy) > 0 {
			continue
		}
		slots = append(slots, response.TimeSlot{
			StartTime:     ds,
			EndTime:       de,
			DurationHours: timeutil.DayEndHour - timeutil.DayStartHour,
			Label:         "All day",
			IsFutureDate:  true,
		})
	}

	if len(slots) > limit {
		slots = slots[:limit]
	}

	return slots, nil
}

func (s *suggestionService) AlternativeDrivers(ctx context.Context, excludeDriver *uuid.UUID, start, end time.Time, limit int) ([]response.AlternativeDriver, error) {
	if limit <= 0 || limit > maxSuggestions {
		limit = maxSuggestions
	}

	drivers, err := s.repo.User.FindActiveDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("alternative drivers: %w", err)
	}

	duration := end.Sub(start).Hours()

	var alternatives []response.AlternativeDriver
	for _, d := range drivers {
		if excludeDriver != nil && d.ID == *excludeDriver {
			continue
		}

		free, err := s.availability.IsDriverAvailable(ctx, d.ID, start, end, nil)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}

		weekly, err := s.availability.WeeklyHours(ctx, d.ID, start)
		if err != nil {
			return nil, err
		}
		if weekly+duration > entity.WeeklyDriverHourCap {
			continue
		}

		alternatives = append(alternatives, response.AlternativeDriver{
			ID:                   d.ID.String(),
			Name:                 d.Name,
			RemainingWeeklyHours: entity.WeeklyDriverHourCap - (weekly + duration),
		})
		if len(alternatives) == limit {
			break
		}
	}

	return alternatives, nil
}

func (s *suggestionService) ConflictResolutionSuggestions(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, passengers int, driverID *uuid.UUID) (*response.SuggestionBundle, error) {
	vehicle, err := s.repo.Vehicle.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("suggestions for vehicle %s: %w", vehicleID.String(), err)
	}
	if vehicle == nil {
		return nil, apperr.NotFound("vehicle not found")
	}

	details := []apperr.ConflictRecord{}
	if !vehicle.Bookable() {
		details = append(details, apperr.ConflictRecord{
			Kind:   apperr.ConflictVehicleStatus,
			Start:  start,
			End:    end,
			Reason: fmt.Sprintf("Vehicle is not bookable (status %s)", vehicle.Status),
		})
	}

	vehicleRecords, err := s.availability.CheckConflicts(ctx, vehicleID, start, end, nil)
	if err != nil {
		return nil, err
	}
	details = append(details, vehicleRecords...)

	if driverID != nil {
		driverRecords, err := s.availability.DriverConflicts(ctx, *driverID, start, end, nil)
		if err != nil {
			return nil, err
		}
		details = append(details, driverRecords...)
	}

	vehicles, err := s.SimilarAvailableVehicles(ctx, vehicle, start, end, passengers, maxSuggestions)
	if err != nil {
		return nil, err
	}

	durationHours := int(math.Ceil(end.Sub(start).Hours()))
	slots, err := s.AlternativeTimeSlots(ctx, vehicleID, start, durationHours, maxSuggestions)
	if err != nil {
		return nil, err
	}

	bundle := &response.SuggestionBundle{
		OriginalRequest: response.OriginalRequest{
			VehicleID:  vehicleID.String(),
			StartTime:  start,
			EndTime:    end,
			Passengers: passengers,
		},
		AlternativeVehicles:  vehicles,
		AlternativeTimeSlots: slots,
		ConflictDetails:      details,
	}

	if driverID != nil {
		id := driverID.String()
		bundle.OriginalRequest.DriverID = &id
		drivers, err := s.AlternativeDrivers(ctx, driverID, start, end, maxSuggestions)
		if err != nil {
			return nil, err
		}
		bundle.AlternativeDrivers = drivers
	}

	return bundle, nil
}

type busyWindow struct {
	start, end time.Time
}

// busyWindows merges blocking maintenance and bookings of one vehicle in
// [start, end], sorted by start time.
func (s *suggestionService) busyWindows(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) ([]busyWindow, error) {
	maintenance, err := s.availability.MaintenanceConflicts(ctx, vehicleID, start, end, nil)
	if err != nil {
		return nil, err
	}
	bookings, err := s.availability.VehicleConflicts(ctx, vehicleID, start, end, nil)
	if err != nil {
		return nil, err
	}

	windows := make([]busyWindow, 0, len(maintenance)+len(bookings))
	for _, m := range maintenance {
		windows = append(windows, busyWindow{start: m.ScheduledStart, end: m.ScheduledEnd})
	}
	for _, b := range bookings {
		windows = append(windows, busyWindow{start: b.StartTime, end: b.EndTime})
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].start.Before(windows[j].start)
	})

	return windows, nil
}

func appendGap(slots []response.TimeSlot, from, to time.Time, durationHours int) []response.TimeSlot {
	hours := int(to.Sub(from).Hours())
	if hours < durationHours {
		return slots
	}
	return append(slots, response.TimeSlot{
		StartTime:     from,
		EndTime:       to,
		DurationHours: hours,
		Label:         fmt.Sprintf("%s - %s", from.Format("15:04"), to.Format("15:04")),
		IsFutureDate:  false,
	})
}
