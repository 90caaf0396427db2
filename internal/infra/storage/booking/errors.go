package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrOverlappingBooking возвращается, когда сработало exclusion-ограничение на пересечение периодов
	ErrOverlappingBooking = errors.New("booking.repository: overlapping booking for vehicle")

	// ErrStatusConflict возвращается, когда статус бронирования изменился между чтением и записью
	ErrStatusConflict = errors.New("booking.repository: booking status changed concurrently")

	// ErrConstraintViolation возвращается при нарушении CHECK-ограничений таблицы
	ErrConstraintViolation = errors.New("booking.repository: constraint violation")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
