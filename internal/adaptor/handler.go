package adaptor

import (
	"net/http"

	"fleet-booking/internal/usecase"
	"fleet-booking/pkg/apperr"
	"fleet-booking/pkg/utils"

	"go.uber.org/zap"
)

// Handler groups every HTTP handler for wiring.
type Handler struct {
	Auth         *AuthHandler
	Booking      *BookingHandler
	Vehicle      *VehicleHandler
	Availability *AvailabilityHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Vehicle:      NewVehicleHandler(service.Vehicle, log),
		Availability: NewAvailabilityHandler(service.Availability, service.Suggestion, log),
	}
}

// respondError translates service errors into HTTP responses. Conflict
// errors carry the suggestion bundle as data and the blocking records as
// errors; workload violations map to 422.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	e, ok := apperr.As(err)
	if !ok {
		log.Error("Unexpected service error",
			zap.String("operation", operation),
			zap.Error(err),
		)
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch e.Kind {
	case apperr.KindNotFound:
		utils.ResponseNotFound(w, e.Message)
	case apperr.KindValidation, apperr.KindCapacity, apperr.KindState:
		utils.ResponseBadRequest(w, e.Message, nil)
	case apperr.KindWorkloadExceeded:
		utils.ResponseUnprocessable(w, e.Message, nil)
	case apperr.KindConflict:
		utils.ResponseConflict(w, e.Message, e.Details, e.Conflicts)
	default:
		log.Error("Unhandled error kind",
			zap.String("operation", operation),
			zap.String("kind", string(e.Kind)),
			zap.Error(err),
		)
		utils.ResponseInternalError(w, "Internal server error")
	}
}
