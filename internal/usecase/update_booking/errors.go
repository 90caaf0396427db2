package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено или принадлежит другому пользователю
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrVehicleNotFound возвращается, когда автомобиль бронирования не найден
	ErrVehicleNotFound = errors.New("update_booking: vehicle not found")

	// ErrBookingNotEditable возвращается, когда бронирование уже Active или в терминальном статусе
	ErrBookingNotEditable = errors.New("update_booking: booking can no longer be edited")

	// ErrVehicleNotAvailable возвращается, когда новый период пересекается с другим бронированием
	ErrVehicleNotAvailable = errors.New("update_booking: vehicle is not available for the selected dates")

	// ErrInvalidDate возвращается при переносе начала аренды в прошлое
	ErrInvalidDate = errors.New("update_booking: invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
