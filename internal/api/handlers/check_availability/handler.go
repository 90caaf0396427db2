package check_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
)

const (
	msgInvalidVehicleID = "некорректный ID автомобиля"
	msgMissingPeriod    = "параметры start и end обязательны"
	msgInvalidDate      = "некорректный формат даты, ожидается RFC 3339 или YYYY-MM-DD"
	msgInvalidPeriod    = "начало периода должно быть раньше конца"
	msgVehicleNotFound  = "автомобиль не найден"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/vehicles/{vehicleId}/availability
// Query params: start (required), end (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем vehicleId из URL
	vehicleIDStr := vars["vehicleId"]
	vehicleID, err := strconv.ParseInt(vehicleIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /vehicles/{id}/availability - Invalid vehicle ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVehicleID)
		return
	}

	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		h.logger.Warn("GET /vehicles/{id}/availability - Missing period: vehicle_id=%d", vehicleID)
		handlers.RespondBadRequest(w, msgMissingPeriod)
		return
	}

	start, err := handlers.ParseTime(startStr)
	if err != nil {
		h.logger.Warn("GET /vehicles/{id}/availability - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	end, err := handlers.ParseTime(endStr)
	if err != nil {
		h.logger.Warn("GET /vehicles/{id}/availability - Invalid end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetAvailability(r.Context(), vehicleID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /vehicles/{id}/availability - Invalid period: vehicle_id=%d, error=%v", vehicleID, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, availability.ErrVehicleNotFound):
			h.logger.Warn("GET /vehicles/{id}/availability - Vehicle not found: vehicle_id=%d", vehicleID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		default:
			h.logger.Error("GET /vehicles/{id}/availability - Failed to check availability: vehicle_id=%d, error=%v",
				vehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /vehicles/{id}/availability - Availability checked: vehicle_id=%d, available=%t, conflicts=%d",
		vehicleID, result.Available, len(result.Conflicts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
