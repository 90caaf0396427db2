package get_vehicle_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	vehicleID int64,
	startDateStr string,
	endDateStr string,
	statusStr string,
	includeInactiveStr string,
) (*models.GetVehicleBookingsRequest, error) {
	req := &models.GetVehicleBookingsRequest{
		VehicleID:       vehicleID,
		IncludeInactive: false, // По умолчанию только занимающие автомобиль
	}

	startDate, err := handlers.ParseOptionalTime(startDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate value: %w", err)
	}
	req.StartDate = startDate

	endDate, err := handlers.ParseOptionalTime(endDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate value: %w", err)
	}
	req.EndDate = endDate

	// Парсим status если указан
	if statusStr != "" {
		req.Status = &statusStr
	}

	// Парсим includeInactive если указан
	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
