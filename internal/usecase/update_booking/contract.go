package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований.
// UpdateDetails не умеет писать статус.
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64, ownerID *int64) (*domain.Booking, error)
	UpdateDetails(ctx context.Context, id int64, upd domain.BookingDetailsUpdate) (*domain.Booking, error)
}

// VehicleRepository интерфейс репозитория автомобилей
type VehicleRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Vehicle, error)
}

// AvailabilityChecker проверка пересечений с бронированиями, занимающими автомобиль
type AvailabilityChecker interface {
	Check(ctx context.Context, vehicleID int64, interval domain.Interval, excludeBookingID *int64) ([]*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
