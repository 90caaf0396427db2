package update_booking

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	updateBooking "github.com/m04kA/SMC-RentalService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model.
// Статус этим запросом не меняется, для этого есть отдельные переходы.
type UpdateBookingRequest struct {
	BookingDate  *string `json:"bookingDate,omitempty"`
	ReturnDate   *string `json:"returnDate,omitempty"`
	StartMileage *int64  `json:"startMileage,omitempty"`
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

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID int64, actingUserID *int64) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		BookingID:    bookingID,
		ActingUserID: actingUserID,
		StartMileage: r.StartMileage,
	}

	if r.BookingDate != nil {
		bookingDate, err := handlers.ParseTime(*r.BookingDate)
		if err != nil {
			return nil, err
		}
		req.BookingDate = &bookingDate
	}

	if r.ReturnDate != nil {
		returnDate, err := handlers.ParseTime(*r.ReturnDate)
		if err != nil {
			return nil, err
		}
		req.ReturnDate = &returnDate
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingResponse {
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
