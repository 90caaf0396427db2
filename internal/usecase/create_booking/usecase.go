package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	vehicleRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/vehicle"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	vehicleRepo  VehicleRepository
	availability AvailabilityChecker
	txManager    TransactionManager
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	vehicleRepo VehicleRepository,
	availability AvailabilityChecker,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		vehicleRepo:  vehicleRepo,
		availability: availability,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка доступности и вставка идут в одной сериализуемой транзакции,
// строка автомобиля блокируется (FOR UPDATE), поэтому параллельные создатели
// бронирований одного автомобиля выполняются по очереди. Exclusion-ограничение
// bookings_no_overlap в БД страхует от пересечений на уровне хранилища.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, vehicle=%d, period=%s - %s",
		req.UserID, req.VehicleID, req.BookingDate.Format(time.RFC3339), req.ReturnDate.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата начала не может быть в прошлом
	if err := validateDate(req.BookingDate, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	interval := domain.Interval{Start: req.BookingDate, End: req.ReturnDate}

	var result *domain.Booking

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем автомобиль и читаем актуальную ставку
		vehicle, err := uc.vehicleRepo.GetByIDForUpdate(txCtx, req.VehicleID)
		if err != nil {
			if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
				uc.logger.Warn("CreateBooking: vehicle id=%d not found", req.VehicleID)
				return ErrVehicleNotFound
			}
			uc.logger.Error("CreateBooking: failed to get vehicle id=%d: %v", req.VehicleID, err)
			return fmt.Errorf("%w: failed to get vehicle: %w", ErrInternal, err)
		}

		if err := validateVehicle(vehicle); err != nil {
			uc.logger.Warn("CreateBooking: vehicle id=%d cannot be booked: %v", req.VehicleID, err)
			return err
		}

		// 3.2. Проверяем пересечения с бронированиями, занимающими автомобиль
		conflicts, err := uc.availability.Check(txCtx, req.VehicleID, interval, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: availability check failed for vehicle id=%d: %v", req.VehicleID, err)
			return fmt.Errorf("%w: failed to check availability: %w", ErrInternal, err)
		}

		if len(conflicts) > 0 {
			uc.logger.Warn("CreateBooking: vehicle id=%d is busy, %d overlapping bookings, first id=%d",
				req.VehicleID, len(conflicts), conflicts[0].ID)
			return ErrVehicleNotAvailable
		}

		// 3.3. Считаем стоимость по текущей ставке
		total := domain.RentalTotal(vehicle.RentalRate, req.BookingDate, req.ReturnDate)
		uc.logger.Info("CreateBooking: vehicle id=%d is free, rate=%.2f, billable days=%d, total=%.2f",
			req.VehicleID, vehicle.RentalRate, domain.BillableDays(req.BookingDate, req.ReturnDate), total)

		// 3.4. Сохраняем бронирование в статусе Pending
		booking := &domain.Booking{
			UserID:       req.UserID,
			VehicleID:    req.VehicleID,
			BookingDate:  req.BookingDate,
			ReturnDate:   req.ReturnDate,
			StartMileage: req.StartMileage,
			TotalAmount:  total,
			Status:       domain.StatusPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrOverlappingBooking) {
				uc.logger.Warn("CreateBooking: storage rejected overlapping booking for vehicle id=%d", req.VehicleID)
				if uc.metrics != nil {
					uc.metrics.RecordAvailabilityConflict("create_constraint")
				}
				return ErrVehicleNotAvailable
			}
			if errors.Is(err, bookingRepo.ErrConstraintViolation) {
				uc.logger.Warn("CreateBooking: storage rejected booking: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrVehicleNotFound) ||
			errors.Is(err, ErrVehicleNotAvailable) ||
			errors.Is(err, ErrInvalidInput) ||
			errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction error: %v", err)
		return nil, fmt.Errorf("%w: transaction error: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, total=%.2f", result.ID, result.TotalAmount)

	return &Response{
		ID:           result.ID,
		UserID:       result.UserID,
		VehicleID:    result.VehicleID,
		BookingDate:  result.BookingDate,
		ReturnDate:   result.ReturnDate,
		StartMileage: result.StartMileage,
		TotalAmount:  result.TotalAmount,
		Status:       string(result.Status),
		CreatedAt:    result.CreatedAt,
		UpdatedAt:    result.UpdatedAt,
	}, nil
}
