package adaptor

import (
	"net/http"
	"time"

	"fleet-booking/internal/usecase"
	"fleet-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	availability usecase.AvailabilityService
	suggestions  usecase.SuggestionService
	log          *zap.Logger
}

func NewAvailabilityHandler(availability usecase.AvailabilityService, suggestions usecase.SuggestionService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		suggestions:  suggestions,
		log:          log.With(zap.String("handler", "availability")),
	}
}

// CheckConflicts handles GET /api/availability/conflicts (protected).
// Query params: vehicle_id, start, end (RFC3339), exclude_booking_id.
func (h *AvailabilityHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	vehicleID, err := uuid.Parse(query.Get("vehicle_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid or missing vehicle_id", nil)
		return
	}

	start, err := utils.ParseTime(query.Get("start"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid or missing start time", nil)
		return
	}
	end, err := utils.ParseTime(query.Get("end"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid or missing end time", nil)
		return
	}
	if !end.After(start) {
		utils.ResponseBadRequest(w, "End time must be after start time", nil)
		return
	}

	var exclude *uuid.UUID
	if raw := query.Get("exclude_booking_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid exclude_booking_id", nil)
			return
		}
		exclude = &id
	}

	records, err := h.availability.CheckConflicts(r.Context(), vehicleID, start, end, exclude)
	if err != nil {
		respondError(w, h.log, err, "check conflicts")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]any{
		"has_conflicts": len(records) > 0,
		"conflicts":     records,
	})
}

// GetDriverSchedule handles GET /api/drivers/{id}/schedule (protected).
// The optional week query param (RFC3339) selects the week to report
// committed hours for; it defaults to the current one.
func (h *AvailabilityHandler) GetDriverSchedule(w http.ResponseWriter, r *http.Request) {
	driverID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid driver id", nil)
		return
	}

	reference := time.Now()
	if raw := r.URL.Query().Get("week"); raw != "" {
		reference, err = utils.ParseTime(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid week time", nil)
			return
		}
	}

	schedule, err := h.availability.DriverSchedule(r.Context(), driverID, reference)
	if err != nil {
		respondError(w, h.log, err, "get driver schedule")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// GetSuggestions handles GET /api/availability/suggestions (protected).
// Query params: vehicle_id, start, end (RFC3339), passengers, driver_id.
func (h *AvailabilityHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	vehicleID, err := uuid.Parse(query.Get("vehicle_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid or missing vehicle_id", nil)
		return
	}

	start, err := utils.ParseTime(query.Get("start"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid or missing start time", nil)
		return
	}
	end, err := utils.ParseTime(query.Get("end"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid or missing end time", nil)
		return
	}
	if !end.After(start) {
		utils.ResponseBadRequest(w, "End time must be after start time", nil)
		return
	}

	passengers := utils.ParseInt(query.Get("passengers"), 1)

	var driverID *uuid.UUID
	if raw := query.Get("driver_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid driver_id", nil)
			return
		}
		driverID = &id
	}

	bundle, err := h.suggestions.ConflictResolutionSuggestions(r.Context(), vehicleID, start, end, passengers, driverID)
	if err != nil {
		respondError(w, h.log, err, "get suggestions")
		return
	}

	utils.ResponseSuccess(w, "success", bundle)
}
