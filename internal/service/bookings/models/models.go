package models

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Request модели

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CompleteBookingRequest запрос на завершение аренды
type CompleteBookingRequest struct {
	ActualReturnDate time.Time `json:"actualReturnDate"`
	EndMileage       *int64    `json:"endMileage,omitempty"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`

	// Кто запрашивает: владелец истории или администратор
	RequesterID int64 `json:"-"`
	IsAdmin     bool  `json:"-"`
}

// GetVehicleBookingsRequest запрос на получение бронирований автомобиля
type GetVehicleBookingsRequest struct {
	VehicleID       int64      `json:"vehicleId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало окна (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец окна (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить Completed и Cancelled
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetVehicleBookingsRequest) ToDomainFilter() (domain.VehicleBookingsFilter, error) {
	filter := domain.VehicleBookingsFilter{
		VehicleID: r.VehicleID,
		From:      r.StartDate,
		To:        r.EndDate,
	}

	switch {
	case r.Status != nil:
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.BookingStatus{status}
	case !r.IncludeInactive:
		filter.Statuses = domain.BlockingStatuses
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	VehicleID int64 `json:"vehicleId"`

	BookingDate      time.Time  `json:"bookingDate"`
	ReturnDate       time.Time  `json:"returnDate"`
	ActualReturnDate *time.Time `json:"actualReturnDate,omitempty"`

	StartMileage *int64 `json:"startMileage,omitempty"`
	EndMileage   *int64 `json:"endMileage,omitempty"`

	TotalAmount float64 `json:"totalAmount"`
	LateFee     float64 `json:"lateFee"`
	Status      string  `json:"status"`
	IsOverdue   bool    `json:"isOverdue"` // просрочка вычисляется, отдельного статуса нет

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, now time.Time) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		VehicleID:        b.VehicleID,
		BookingDate:      b.BookingDate,
		ReturnDate:       b.ReturnDate,
		ActualReturnDate: b.ActualReturnDate,
		StartMileage:     b.StartMileage,
		EndMileage:       b.EndMileage,
		TotalAmount:      b.TotalAmount,
		LateFee:          b.LateFee,
		Status:           string(b.Status),
		IsOverdue:        b.IsOverdue(now),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, now time.Time) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, now); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
