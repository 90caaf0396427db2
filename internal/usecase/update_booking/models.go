package update_booking

import "time"

// Request правка бронирования. Поля статуса нет: статус меняется только переходами.
// Незаданные поля остаются прежними.
type Request struct {
	BookingID    int64
	ActingUserID *int64 // nil - правит администратор

	BookingDate  *time.Time
	ReturnDate   *time.Time
	StartMileage *int64
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID           int64
	UserID       int64
	VehicleID    int64
	BookingDate  time.Time
	ReturnDate   time.Time
	StartMileage *int64
	TotalAmount  float64
	Status       string

	CreatedAt time.Time
	UpdatedAt time.Time
}
