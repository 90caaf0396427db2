package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	vehicleRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/vehicle"
)

// UseCase use case для правки дат и стартового пробега бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	vehicleRepo  VehicleRepository
	availability AvailabilityChecker
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	vehicleRepo VehicleRepository,
	availability AvailabilityChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		vehicleRepo:  vehicleRepo,
		availability: availability,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute правит бронирование в статусе Pending или Confirmed.
// При переносе дат доступность проверяется заново (без учета самого бронирования),
// а сумма пересчитывается по текущей ставке автомобиля.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking id=%d", req.BookingID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID, req.ActingUserID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("UpdateBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if !current.CanBeUpdated() {
			uc.logger.Warn("UpdateBooking: booking id=%d is %s", req.BookingID, current.Status)
			return fmt.Errorf("%w: booking is %s", ErrBookingNotEditable, current.Status)
		}

		upd := domain.BookingDetailsUpdate{
			BookingDate:  current.BookingDate,
			ReturnDate:   current.ReturnDate,
			TotalAmount:  current.TotalAmount,
			StartMileage: current.StartMileage,
		}
		if req.BookingDate != nil {
			upd.BookingDate = *req.BookingDate
		}
		if req.ReturnDate != nil {
			upd.ReturnDate = *req.ReturnDate
		}
		if req.StartMileage != nil {
			upd.StartMileage = req.StartMileage
		}

		datesChanged := !upd.BookingDate.Equal(current.BookingDate) || !upd.ReturnDate.Equal(current.ReturnDate)
		if datesChanged {
			total, err := uc.reprice(txCtx, current, upd.BookingDate, upd.ReturnDate, now)
			if err != nil {
				return err
			}
			upd.TotalAmount = total
		}

		updated, err := uc.bookingRepo.UpdateDetails(txCtx, current.ID, upd)
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrStatusConflict):
				uc.logger.Warn("UpdateBooking: booking id=%d changed status concurrently", req.BookingID)
				return ErrBookingNotEditable
			case errors.Is(err, bookingRepo.ErrOverlappingBooking):
				uc.logger.Warn("UpdateBooking: storage rejected overlapping period for booking id=%d", req.BookingID)
				return ErrVehicleNotAvailable
			case errors.Is(err, bookingRepo.ErrConstraintViolation):
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			uc.logger.Error("UpdateBooking: failed to update booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) ||
			errors.Is(err, ErrVehicleNotFound) ||
			errors.Is(err, ErrBookingNotEditable) ||
			errors.Is(err, ErrVehicleNotAvailable) ||
			errors.Is(err, ErrInvalidDate) ||
			errors.Is(err, ErrInvalidInput) ||
			errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("UpdateBooking: transaction error: %v", err)
		return nil, fmt.Errorf("%w: transaction error: %v", ErrInternal, err)
	}

	uc.logger.Info("UpdateBooking: successfully updated booking id=%d, total=%.2f", result.ID, result.TotalAmount)

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

// reprice проверяет новый период и считает его стоимость
func (uc *UseCase) reprice(ctx context.Context, current *domain.Booking, start, end, now time.Time) (float64, error) {
	interval, err := domain.NewInterval(start, end)
	if err != nil {
		uc.logger.Warn("UpdateBooking: invalid period for booking id=%d: %v", current.ID, err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !start.Equal(current.BookingDate) && isDateInPast(start, now) {
		uc.logger.Warn("UpdateBooking: booking id=%d moved into the past", current.ID)
		return 0, fmt.Errorf("%w: %s is in the past", ErrInvalidDate, start.Format(domain.DateFormat))
	}

	vehicle, err := uc.vehicleRepo.GetByIDForUpdate(ctx, current.VehicleID)
	if err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			return 0, ErrVehicleNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get vehicle id=%d: %v", current.VehicleID, err)
		return 0, fmt.Errorf("%w: failed to get vehicle: %w", ErrInternal, err)
	}

	excluded := current.ID
	conflicts, err := uc.availability.Check(ctx, current.VehicleID, interval, &excluded)
	if err != nil {
		uc.logger.Error("UpdateBooking: availability check failed for booking id=%d: %v", current.ID, err)
		return 0, fmt.Errorf("%w: failed to check availability: %w", ErrInternal, err)
	}
	if len(conflicts) > 0 {
		uc.logger.Warn("UpdateBooking: new period of booking id=%d overlaps booking id=%d", current.ID, conflicts[0].ID)
		return 0, ErrVehicleNotAvailable
	}

	return domain.RentalTotal(vehicle.RentalRate, start, end), nil
}
