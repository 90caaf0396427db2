package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleID must be positive", ErrInvalidInput)
	}

	if req.BookingDate.IsZero() || req.ReturnDate.IsZero() {
		return fmt.Errorf("%w: bookingDate and returnDate are required", ErrInvalidInput)
	}

	if !req.ReturnDate.After(req.BookingDate) {
		return fmt.Errorf("%w: returnDate must be after bookingDate", ErrInvalidInput)
	}

	if req.StartMileage != nil && *req.StartMileage < 0 {
		return fmt.Errorf("%w: startMileage must not be negative", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что аренда не начинается в прошлом
func validateDate(bookingDate time.Time, now time.Time) error {
	if isDateInPast(bookingDate, now) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, bookingDate.Format(domain.DateFormat))
	}
	return nil
}

// validateVehicle проверяет, что автомобиль можно бронировать.
// Rented и Maintenance не мешают бронированию будущих дат, Banned и Unavailable - мешают.
func validateVehicle(vehicle *domain.Vehicle) error {
	switch vehicle.Status {
	case domain.VehicleBanned, domain.VehicleUnavailable:
		return fmt.Errorf("%w: vehicle is %s", ErrVehicleNotAvailable, vehicle.Status)
	}
	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	date = date.In(now.Location())
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
