package domain

import "time"

// Booking represents a vehicle rental reservation
type Booking struct {
	ID        int64
	UserID    int64
	VehicleID int64

	BookingDate      time.Time  // планируемое начало аренды (включительно)
	ReturnDate       time.Time  // планируемый возврат (не включительно)
	ActualReturnDate *time.Time // заполняется только при завершении

	StartMileage *int64
	EndMileage   *int64

	TotalAmount float64
	LateFee     float64
	Status      BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Period returns the planned rental interval [BookingDate, ReturnDate)
func (b *Booking) Period() Interval {
	return Interval{Start: b.BookingDate, End: b.ReturnDate}
}

// IsBlocking returns true if the booking occupies its vehicle for overlap purposes
func (b *Booking) IsBlocking() bool {
	return b.Status.IsBlocking()
}

// IsOverdue reports lateness as a derived label: an Active booking past its return date,
// or a Completed booking that was returned after it.
func (b *Booking) IsOverdue(now time.Time) bool {
	switch b.Status {
	case StatusActive:
		return now.After(b.ReturnDate)
	case StatusCompleted:
		return b.ActualReturnDate != nil && b.ActualReturnDate.After(b.ReturnDate)
	default:
		return false
	}
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return CheckTransition(b.Status, StatusCancelled) == nil
}

// CanBeUpdated returns true if dates or mileage may still be edited
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// BookingDetailsUpdate описывает правку бронирования вне машины состояний.
// Поля статуса здесь нет: статус меняется только через переходы.
type BookingDetailsUpdate struct {
	BookingDate  time.Time
	ReturnDate   time.Time
	TotalAmount  float64
	StartMileage *int64
}

// BookingCompletion данные, записываемые при завершении аренды
type BookingCompletion struct {
	ActualReturnDate time.Time
	EndMileage       *int64
	LateFee          float64
	TotalAmount      float64
}

// VehicleBookingsFilter фильтр бронирований автомобиля
type VehicleBookingsFilter struct {
	VehicleID        int64           // Обязательный параметр
	Statuses         []BookingStatus // Пустой список - все статусы
	From             *time.Time      // Бронирования, заканчивающиеся после From
	To               *time.Time      // Бронирования, начинающиеся до To
	ExcludeBookingID *int64          // Исключить бронирование (при переносе дат)
}
