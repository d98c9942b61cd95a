package wire

import (
	"fleet-booking/internal/adaptor"
	"fleet-booking/internal/data/repository"
	"fleet-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings - Create a booking request
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings - The caller's own bookings
		r.Get("/", bookingHandler.GetUserBookings)

		// GET /api/bookings/{id} - Booking details
		r.Get("/{id}", bookingHandler.GetBooking)

		// PATCH /api/bookings/{id} - Modify a pending booking
		r.Patch("/{id}", bookingHandler.UpdateBooking)

		// POST /api/bookings/{id}/cancel - Requester cancels
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)

		// Review transitions require the fleet manager role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.FleetManager(repo.User, log))

			// POST /api/bookings/{id}/approve
			r.Post("/{id}/approve", bookingHandler.ApproveBooking)

			// POST /api/bookings/{id}/reject
			r.Post("/{id}/reject", bookingHandler.RejectBooking)

			// POST /api/bookings/{id}/complete
			r.Post("/{id}/complete", bookingHandler.CompleteBooking)
		})
	})
}
