package usecase

import (
	"time"

	"fleet-booking/internal/data/repository"
	"fleet-booking/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles every use case behind one constructor so wiring stays in
// one place.
type Service struct {
	Auth         AuthService
	Availability AvailabilityService
	Booking      BookingService
	Suggestion   SuggestionService
	Vehicle      VehicleService
	Job          JobService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	availability := NewAvailabilityService(repo, log)
	suggestion := NewSuggestionService(repo, availability, log)
	notifier := NewLogNotifier(log)

	return &Service{
		Auth:         NewAuthService(repo, config, log, time.Now),
		Availability: availability,
		Booking:      NewBookingService(repo, availability, suggestion, notifier, log, time.Now),
		Suggestion:   suggestion,
		Vehicle:      NewVehicleService(repo, availability, log),
		Job:          NewJobService(repo, notifier, log, time.Now),
	}
}
