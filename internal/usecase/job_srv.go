package usecase

import (
	"context"
	"time"

	"fleet-booking/internal/data/entity"
	"fleet-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobService holds the periodic housekeeping tasks run from cron.
type JobService interface {
	// CompleteExpiredBookings moves approved bookings whose window has
	// ended into the completed state.
	CompleteExpiredBookings(ctx context.Context)

	// CleanExpiredSessions removes sessions past their expiry.
	CleanExpiredSessions(ctx context.Context)
}

type jobService struct {
	repo     *repository.Repository
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewJobService(repo *repository.Repository, notifier Notifier, log *zap.Logger, now func() time.Time) JobService {
	return &jobService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "job")),
		now:      now,
	}
}

func (s *jobService) CompleteExpiredBookings(ctx context.Context) {
	completed, err := s.repo.Booking.CompleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("Failed to complete expired bookings", zap.Error(err))
		return
	}
	for _, b := range completed {
		// No human actor for job-driven transitions.
		s.notifier.BookingStatusChanged(ctx, b, entity.BookingStatusApproved, uuid.Nil)
	}
	if len(completed) > 0 {
		s.log.Info("Completed expired bookings", zap.Int("count", len(completed)))
	}
}

func (s *jobService) CleanExpiredSessions(ctx context.Context) {
	n, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		s.log.Error("Failed to clean expired sessions", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("Cleaned expired sessions", zap.Int64("count", n))
	}
}
