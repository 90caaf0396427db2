package create_booking

import "errors"

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден
	ErrVehicleNotFound = errors.New("create_booking: vehicle not found")

	// ErrVehicleNotAvailable возвращается, когда период пересекается с другим бронированием
	// или автомобиль выведен из проката
	ErrVehicleNotAvailable = errors.New("create_booking: vehicle is not available for the selected dates")

	// ErrInvalidDate возвращается при дате начала аренды в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
