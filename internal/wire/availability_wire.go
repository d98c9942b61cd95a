package wire

import (
	"fleet-booking/internal/adaptor"
	"fleet-booking/internal/data/repository"
	"fleet-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAvailability(
	r chi.Router,
	availabilityHandler *adaptor.AvailabilityHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/availability", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/availability/conflicts - Blocking records for a window
		r.Get("/conflicts", availabilityHandler.CheckConflicts)

		// GET /api/availability/suggestions - Alternatives for a window
		r.Get("/suggestions", availabilityHandler.GetSuggestions)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/drivers/{id}/schedule - Schedule entries and weekly load
		r.Get("/api/drivers/{id}/schedule", availabilityHandler.GetDriverSchedule)
	})
}
