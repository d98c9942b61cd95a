package usecase

import (
	"context"
	"testing"

	"fleet-booking/internal/data/entity"
	"fleet-booking/internal/dto/response"

	"github.com/google/uuid"
)

func newSuggestionService(f *fixture) SuggestionService {
	repo := f.repo()
	availability := NewAvailabilityService(repo, testLogger())
	return NewSuggestionService(repo, availability, testLogger())
}

func TestSimilarVehiclesRanking(t *testing.T) {
	f := newFixture()
	original := f.addVehicle("GOV-001", "Toyota", "Prado", 7)
	f.addVehicle("GOV-002", "Toyota", "Hilux", 6)
	f.addVehicle("GOV-003", "Toyota", "Prado", 7)
	f.addVehicle("GOV-004", "Nissan", "Patrol", 8)
	svc := newSuggestionService(f)

	got, err := svc.SimilarAvailableVehicles(context.Background(), original, day(4, 10, 0), day(4, 12, 0), 3, 3)
	if err != nil {
		t.Fatalf("SimilarAvailableVehicles: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 alternatives, got %d", len(got))
	}
	// Same make+model first, then same make, then the rest.
	if got[0].Registration != "GOV-003" {
		t.Fatalf("expected the other Prado first, got %s", got[0].Registration)
	}
	if got[1].Registration != "GOV-002" {
		t.Fatalf("expected the Hilux second, got %s", got[1].Registration)
	}
	if got[2].Registration != "GOV-004" {
		t.Fatalf("expected the Patrol last, got %s", got[2].Registration)
	}
	for _, alt := range got {
		if alt.Availability != response.VehicleAvailable {
			t.Fatalf("expected %s reported available, got %s", alt.Registration, alt.Availability)
		}
	}
}

func TestSimilarVehiclesCapacityTieBreak(t *testing.T) {
	f := newFixture()
	original := f.addVehicle("GOV-001", "Toyota", "Prado", 7)
	f.addVehicle("GOV-002", "Ford", "Ranger", 6)
	f.addVehicle("GOV-003", "Nissan", "Patrol", 9)
	svc := newSuggestionService(f)

	got, err := svc.SimilarAvailableVehicles(context.Background(), original, day(4, 10, 0), day(4, 12, 0), 3, 3)
	if err != nil {
		t.Fatalf("SimilarAvailableVehicles: %v", err)
	}
	// Both rank as "different make"; the larger capacity wins.
	if len(got) != 2 || got[0].Registration != "GOV-003" {
		t.Fatalf("expected Patrol first on capacity, got %+v", got)
	}
}

func TestSimilarVehiclesCapacityFloor(t *testing.T) {
	f := newFixture()
	original := f.addVehicle("GOV-001", "Toyota", "Coaster", 20)
	f.addVehicle("GOV-002", "Toyota", "Hilux", 5)
	f.addVehicle("GOV-003", "Toyota", "Coaster", 18)
	svc := newSuggestionService(f)

	// floor(0.8 * 20) = 16, so the 5-seat Hilux is out even though it
	// fits the 3 passengers.
	got, err := svc.SimilarAvailableVehicles(context.Background(), original, day(4, 10, 0), day(4, 12, 0), 3, 3)
	if err != nil {
		t.Fatalf("SimilarAvailableVehicles: %v", err)
	}
	if len(got) != 1 || got[0].Registration != "GOV-003" {
		t.Fatalf("expected only the other Coaster, got %+v", got)
	}
}

func TestSimilarVehiclesSkipBusy(t *testing.T) {
	f := newFixture()
	original := f.addVehicle("GOV-001", "Toyota", "Prado", 7)
	busy := f.addVehicle("GOV-002", "Toyota", "Prado", 7)
	inShop := f.addVehicle("GOV-003", "Toyota", "Prado", 7)
	f.addBooking(busy.ID, nil, entity.BookingStatusApproved, day(4, 9, 0), day(4, 13, 0))
	f.addMaintenance(inShop.ID, entity.MaintenanceStatusScheduled, day(4, 6, 0), day(4, 22, 0))
	svc := newSuggestionService(f)

	got, err := svc.SimilarAvailableVehicles(context.Background(), original, day(4, 10, 0), day(4, 12, 0), 3, 3)
	if err != nil {
		t.Fatalf("SimilarAvailableVehicles: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no free alternatives, got %+v", got)
	}
}

func TestAlternativeTimeSlotsGapSweep(t *testing.T) {
	f := newFixture()
	v := f.addVehicle("GOV-001", "Toyota", "Hilux", 5)
	// Busy 08:00-10:00 and 14:00-16:00 leaves gaps [06-08), [10-14) and
	// [16-22).
	f.addBooking(v.ID, nil, entity.BookingStatusApproved, day(4, 8, 0), day(4, 10, 0))
	f.addBooking(v.ID, nil, entity.BookingStatusApproved, day(4, 14, 0), day(4, 16, 0))
	svc := newSuggestionService(f)

	got, err := svc.AlternativeTimeSlots(context.Background(), v.ID, day(4, 0, 0), 3, 3)
	if err != nil {
		t.Fatalf("AlternativeTimeSlots: %v", err)
	}
	// The 2-hour morning gap is too short for 3 hours; the two later gaps
	// qualify, and the free next day tops the list up to the limit.
	if len(got) != 3 {
		t.Fatalf("expected 3 slots, got %d: %+v", len(got), got)
	}
	if !got[0].StartTime.Equal(day(4, 10, 0)) || !got[0].EndTime.Equal(day(4, 14, 0)) {
		t.Fatalf("expected 10:00-14:00 slot, got %+v", got[0])
	}
	if got[0].DurationHours != 4 {
		t.Fatalf("expected 4 hour slot, got %d", got[0].DurationHours)
	}
	if !got[1].StartTime.Equal(day(4, 16, 0)) || !got[1].EndTime.Equal(day(4, 22, 0)) {
		t.Fatalf("expected 16:00-22:00 slot, got %+v", got[1])
	}
	if got[0].IsFutureDate || got[1].IsFutureDate {
		t.Fatalf("same-day slots must not be flagged future")
	}
	if !got[2].IsFutureDate {
		t.Fatalf("the topped-up slot must be a future day")
	}
}

func TestAlternativeTimeSlotsFreeDayIsOneSlot(t *testing.T) {
	f := newFixture()
	v := f.addVehicle("GOV-001", "Toyota", "Hilux", 5)
	svc := newSuggestionService(f)

	got, err := svc.AlternativeTimeSlots(context.Background(), v.ID, day(4, 0, 0), 2, 3)
	if err != nil {
		t.Fatalf("AlternativeTimeSlots: %v", err)
	}
	if len(got) < 1 {
		t.Fatalf("expected at least the full-day slot")
	}
	if !got[0].StartTime.Equal(day(4, 6, 0)) || !got[0].EndTime.Equal(day(4, 22, 0)) {
		t.Fatalf("expected the whole business day, got %+v", got[0])
	}
	if got[0].DurationHours != 16 {
		t.Fatalf("expected 16 hours, got %d", got[0].DurationHours)
	}
}

func TestAlternativeTimeSlotsProbesFutureDays(t *testing.T) {
	f := newFixture()
	v := f.addVehicle("GOV-001", "Toyota", "Hilux", 5)
	// The whole requested day is blocked; the next day is free.
	f.addBooking(v.ID, nil, entity.BookingStatusApproved, day(4, 6, 0), day(4, 22, 0))
	svc := newSuggestionService(f)

	got, err := svc.AlternativeTimeSlots(context.Background(), v.ID, day(4, 0, 0), 4, 3)
	if err != nil {
		t.Fatalf("AlternativeTimeSlots: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected future-day slots")
	}
	first := got[0]
	if !first.IsFutureDate || first.Label != "All day" {
		t.Fatalf("expected an all-day future slot, got %+v", first)
	}
	if !first.StartTime.Equal(day(5, 6, 0)) || !first.EndTime.Equal(day(5, 22, 0)) {
		t.Fatalf("expected the next business day, got %+v", first)
	}
}

func TestAlternativeTimeSlotsDeterministic(t *testing.T) {
	f := newFixture()
	v := f.addVehicle("GOV-001", "Toyota", "Hilux", 5)
	f.addBooking(v.ID, nil, entity.BookingStatusApproved, day(4, 8, 0), day(4, 10, 0))
	svc := newSuggestionService(f)

	first, err := svc.AlternativeTimeSlots(context.Background(), v.ID, day(4, 0, 0), 2, 3)
	if err != nil {
		t.Fatalf("AlternativeTimeSlots: %v", err)
	}
	second, err := svc.AlternativeTimeSlots(context.Background(), v.ID, day(4, 0, 0), 2, 3)
	if err != nil {
		t.Fatalf("AlternativeTimeSlots: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected identical results")
	}
	for i := range first {
		if !first[i].StartTime.Equal(second[i].StartTime) || !first[i].EndTime.Equal(second[i].EndTime) {
			t.Fatalf("expected identical slot %d, got %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestAlternativeDrivers(t *testing.T) {
	f := newFixture()
	f.addDriver("free")
	onLeave := f.addDriver("on-leave")
	loaded := f.addDriver("loaded")
	v := f.addVehicle("GOV-001", "Toyota", "Hilux", 5)

	f.addSchedule(onLeave.ID, entity.DriverScheduleLeave, day(6, 0, 0), day(6, 23, 0))
	// 58 committed hours leaves no room for a 4-hour run.
	f.addBooking(v.ID, &loaded.ID, entity.BookingStatusApproved, day(2, 6, 0), day(4, 16, 0))

	svc := newSuggestionService(f)
	got, err := svc.AlternativeDrivers(context.Background(), nil, day(6, 10, 0), day(6, 14, 0), 3)
	if err != nil {
		t.Fatalf("AlternativeDrivers: %v", err)
	}
	if len(got) != 1 || got[0].Name != "free" {
		t.Fatalf("expected only the free driver, got %+v", got)
	}
	if got[0].RemainingWeeklyHours != entity.WeeklyDriverHourCap-4 {
		t.Fatalf("expected %v remaining, got %v", entity.WeeklyDriverHourCap-4, got[0].RemainingWeeklyHours)
	}
}

func TestAlternativeDriversExcludesRequested(t *testing.T) {
	f := newFixture()
	requested := f.addDriver("requested")
	f.addDriver("other")
	svc := newSuggestionService(f)

	got, err := svc.AlternativeDrivers(context.Background(), &requested.ID, day(4, 10, 0), day(4, 12, 0), 3)
	if err != nil {
		t.Fatalf("AlternativeDrivers: %v", err)
	}
	if len(got) != 1 || got[0].Name != "other" {
		t.Fatalf("expected the requested driver excluded, got %+v", got)
	}
}

func TestConflictResolutionSuggestionsBundle(t *testing.T) {
	f := newFixture()
	v := f.addVehicle("GOV-001", "Toyota", "Prado", 7)
	f.addVehicle("GOV-002", "Toyota", "Prado", 7)
	d := f.addDriver("pat")
	f.addDriver("sub")
	f.addBooking(v.ID, &d.ID, entity.BookingStatusApproved, day(4, 10, 0), day(4, 12, 0))

	svc := newSuggestionService(f)
	bundle, err := svc.ConflictResolutionSuggestions(context.Background(), v.ID, day(4, 11, 0), day(4, 13, 0), 3, &d.ID)
	if err != nil {
		t.Fatalf("ConflictResolutionSuggestions: %v", err)
	}

	if bundle.OriginalRequest.VehicleID != v.ID.String() {
		t.Fatalf("expected the original request echoed")
	}
	if len(bundle.ConflictDetails) != 2 {
		// One vehicle booking conflict plus the same booking blocking the
		// driver.
		t.Fatalf("expected 2 conflict records, got %+v", bundle.ConflictDetails)
	}
	if len(bundle.AlternativeVehicles) != 1 || bundle.AlternativeVehicles[0].Registration != "GOV-002" {
		t.Fatalf("expected GOV-002 suggested, got %+v", bundle.AlternativeVehicles)
	}
	if len(bundle.AlternativeTimeSlots) == 0 {
		t.Fatalf("expected alternative slots")
	}
	if len(bundle.AlternativeDrivers) != 1 || bundle.AlternativeDrivers[0].Name != "sub" {
		t.Fatalf("expected the substitute driver, got %+v", bundle.AlternativeDrivers)
	}
}

func TestConflictResolutionSuggestionsUnknownVehicle(t *testing.T) {
	f := newFixture()
	svc := newSuggestionService(f)

	_, err := svc.ConflictResolutionSuggestions(context.Background(), uuid.New(), day(4, 10, 0), day(4, 12, 0), 1, nil)
	if err == nil {
		t.Fatalf("expected an error for an unknown vehicle")
	}
}
