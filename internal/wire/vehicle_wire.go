package wire

import (
	"fleet-booking/internal/adaptor"
	"fleet-booking/internal/data/repository"
	"fleet-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireVehicle(
	r chi.Router,
	vehicleHandler *adaptor.VehicleHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Route("/api/vehicles", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/vehicles - Fleet listing
		r.Get("/", vehicleHandler.GetVehicles)

		// GET /api/vehicles/available - Active vehicles with window status
		r.Get("/available", vehicleHandler.GetAvailableVehicles)

		// GET /api/vehicles/{id} - Vehicle details
		r.Get("/{id}", vehicleHandler.GetVehicle)
	})
}
