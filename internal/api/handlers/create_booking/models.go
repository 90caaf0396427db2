package create_booking

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-RentalService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	VehicleID    int64  `json:"vehicleId"`
	BookingDate  string `json:"bookingDate"` // RFC 3339 или "2025-01-01"
	ReturnDate   string `json:"returnDate"`  // RFC 3339 или "2025-01-04"
	StartMileage *int64 `json:"startMileage,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"userId"`
	VehicleID    int64   `json:"vehicleId"`
	BookingDate  string  `json:"bookingDate"`
	ReturnDate   string  `json:"returnDate"`
	StartMileage *int64  `json:"startMileage,omitempty"`
	TotalAmount  float64 `json:"totalAmount"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := handlers.ParseTime(r.BookingDate)
	if err != nil {
		return nil, err
	}

	returnDate, err := handlers.ParseTime(r.ReturnDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:       userID,
		VehicleID:    r.VehicleID,
		BookingDate:  bookingDate,
		ReturnDate:   returnDate,
		StartMileage: r.StartMileage,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:           resp.ID,
		UserID:       resp.UserID,
		VehicleID:    resp.VehicleID,
		BookingDate:  resp.BookingDate.Format(time.RFC3339),
		ReturnDate:   resp.ReturnDate.Format(time.RFC3339),
		StartMileage: resp.StartMileage,
		TotalAmount:  resp.TotalAmount,
		Status:       resp.Status,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
