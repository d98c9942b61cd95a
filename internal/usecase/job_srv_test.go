package usecase

import (
	"context"
	"testing"
	"time"

	"fleet-booking/internal/data/entity"

	"github.com/google/uuid"
)

func TestCompleteExpiredBookings(t *testing.T) {
	f := newFixture()
	v := f.addVehicle("GOV-001", "Toyota", "Hilux", 5)

	ended := f.addBooking(v.ID, nil, entity.BookingStatusApproved, testNow.Add(-4*time.Hour), testNow.Add(-2*time.Hour))
	running := f.addBooking(v.ID, nil, entity.BookingStatusApproved, testNow.Add(-1*time.Hour), testNow.Add(1*time.Hour))
	pending := f.addBooking(v.ID, nil, entity.BookingStatusPending, testNow.Add(-4*time.Hour), testNow.Add(-2*time.Hour))

	notifier := &recordingNotifier{}
	svc := NewJobService(f.repo(), notifier, testLogger(), func() time.Time { return testNow })
	svc.CompleteExpiredBookings(context.Background())

	if ended.Status != entity.BookingStatusCompleted {
		t.Fatalf("expected the ended booking completed, got %s", ended.Status)
	}
	if running.Status != entity.BookingStatusApproved {
		t.Fatalf("a running booking must stay approved, got %s", running.Status)
	}
	if pending.Status != entity.BookingStatusPending {
		t.Fatalf("pending bookings are not auto-completed, got %s", pending.Status)
	}
	if len(notifier.transitions) != 1 || notifier.transitions[0] != "approved->completed" {
		t.Fatalf("expected one completion notification, got %v", notifier.transitions)
	}
}

func TestCleanExpiredSessions(t *testing.T) {
	f := newFixture()
	f.sessions = append(f.sessions,
		&entity.Session{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: uuid.New(), Token: uuid.New(), ExpiresAt: time.Now().Add(-time.Hour)},
		&entity.Session{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: uuid.New(), Token: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)},
	)

	svc := NewJobService(f.repo(), &recordingNotifier{}, testLogger(), time.Now)
	svc.CleanExpiredSessions(context.Background())

	if len(f.sessions) != 1 {
		t.Fatalf("expected one surviving session, got %d", len(f.sessions))
	}
}
