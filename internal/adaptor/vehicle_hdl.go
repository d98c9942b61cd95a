package adaptor

import (
	"net/http"

	"fleet-booking/internal/dto/request"
	"fleet-booking/internal/usecase"
	"fleet-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VehicleHandler struct {
	service usecase.VehicleService
	log     *zap.Logger
}

func NewVehicleHandler(service usecase.VehicleService, log *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		log:     log.With(zap.String("handler", "vehicle")),
	}
}

// GetVehicles handles GET /api/vehicles (protected)
func (h *VehicleHandler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	vehicles, err := h.service.List(r.Context(), page)
	if err != nil {
		respondError(w, h.log, err, "list vehicles")
		return
	}

	utils.ResponseSuccess(w, "success", vehicles)
}

// GetVehicle handles GET /api/vehicles/{id} (protected)
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid vehicle id", nil)
		return
	}

	vehicle, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.log, err, "get vehicle")
		return
	}

	utils.ResponseSuccess(w, "success", vehicle)
}

// GetAvailableVehicles handles GET /api/vehicles/available?start=...&end=...
// (protected). Times are RFC3339.
func (h *VehicleHandler) GetAvailableVehicles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

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

	vehicles, err := h.service.ListAvailable(r.Context(), start, end)
	if err != nil {
		respondError(w, h.log, err, "list available vehicles")
		return
	}

	utils.ResponseSuccess(w, "success", vehicles)
}
