package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	UserID       int64     // ID пользователя
	VehicleID    int64     // ID автомобиля
	BookingDate  time.Time // Начало аренды (включительно)
	ReturnDate   time.Time // Плановый возврат (не включительно)
	StartMileage *int64    // Пробег при выдаче (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID           int64     // ID созданного бронирования
	UserID       int64     // ID пользователя
	VehicleID    int64     // ID автомобиля
	BookingDate  time.Time // Начало аренды
	ReturnDate   time.Time // Плановый возврат
	StartMileage *int64    // Пробег при выдаче
	TotalAmount  float64   // Стоимость: ставка * сутки, минимум одни сутки
	Status       string    // Статус бронирования

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
