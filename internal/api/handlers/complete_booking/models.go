package complete_booking

import (
	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
)

// CompleteBookingRequest HTTP request model
type CompleteBookingRequest struct {
	ActualReturnDate string `json:"actualReturnDate"` // RFC 3339 или "2025-01-05"
	EndMileage       *int64 `json:"endMileage,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CompleteBookingRequest) ToServiceRequest() (*models.CompleteBookingRequest, error) {
	actualReturn, err := handlers.ParseTime(r.ActualReturnDate)
	if err != nil {
		return nil, err
	}

	return &models.CompleteBookingRequest{
		ActualReturnDate: actualReturn,
		EndMileage:       r.EndMileage,
	}, nil
}
