package usecase

import (
	"context"

	"fleet-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is told about every booking status transition. The default
// implementation just logs; a mail or queue backend can replace it without
// touching the booking service.
type Notifier interface {
	BookingStatusChanged(ctx context.Context, booking *entity.Booking, oldStatus entity.BookingStatus, actorID uuid.UUID)
}

type logNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log.With(zap.String("service", "notifier"))}
}

func (n *logNotifier) BookingStatusChanged(_ context.Context, booking *entity.Booking, oldStatus entity.BookingStatus, actorID uuid.UUID) {
	n.log.Info("Booking status changed",
		zap.String("bookingId", booking.ID.String()),
		zap.String("requesterId", booking.RequesterID.String()),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(booking.Status)),
		zap.String("actorId", actorID.String()),
	)
}
