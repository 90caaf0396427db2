package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// AvailabilityResponse ответ на проверку доступности автомобиля
type AvailabilityResponse struct {
	VehicleID int64              `json:"vehicleId"`
	Start     time.Time          `json:"start"`
	End       time.Time          `json:"end"`
	Available bool               `json:"available"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

// ConflictResponse бронирование, занимающее автомобиль в запрошенный период
type ConflictResponse struct {
	BookingID   int64     `json:"bookingId"`
	BookingDate time.Time `json:"bookingDate"`
	ReturnDate  time.Time `json:"returnDate"`
	Status      string    `json:"status"`
}

// FromDomain собирает ответ из интервала и найденных пересечений
func FromDomain(vehicleID int64, interval domain.Interval, conflicts []*domain.Booking) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		VehicleID: vehicleID,
		Start:     interval.Start,
		End:       interval.End,
		Available: len(conflicts) == 0,
		Conflicts: make([]ConflictResponse, 0, len(conflicts)),
	}

	for _, b := range conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictResponse{
			BookingID:   b.ID,
			BookingDate: b.BookingDate,
			ReturnDate:  b.ReturnDate,
			Status:      string(b.Status),
		})
	}

	return resp
}
