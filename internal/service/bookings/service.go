package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	vehicleRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/vehicle"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
)

// Service управляет жизненным циклом бронирований.
// Все записи статуса проходят через applyTransition.
type Service struct {
	bookingRepo  BookingRepository
	vehicleRepo  VehicleRepository
	txManager    TransactionManager
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	vehicleRepo VehicleRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		vehicleRepo:  vehicleRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// completion параметры завершения аренды
type completion struct {
	actualReturn time.Time
	endMileage   *int64
}

// GetByID получает бронирование по ID.
// ownerID == nil означает чтение администратором. Чужое бронирование
// для клиента неотличимо от несуществующего.
func (s *Service) GetByID(ctx context.Context, bookingID int64, ownerID *int64) (*models.BookingResponse, error) {
	if ownerID != nil {
		s.logger.Info("GetByID: fetching booking id=%d for user=%d", bookingID, *ownerID)
	} else {
		s.logger.Info("GetByID: fetching booking id=%d for admin", bookingID)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if ownerID != nil && booking.UserID != *ownerID {
		s.logger.Warn("GetByID: booking id=%d does not belong to user=%d", bookingID, *ownerID)
		return nil, ErrBookingNotFound
	}

	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if !req.IsAdmin && req.RequesterID != req.UserID {
		s.logger.Warn("GetUserBookings: user=%d is not allowed to read bookings of user=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings, s.timeProvider.Now()), nil
}

// GetVehicleBookings получает бронирования автомобиля с фильтрацией
// По умолчанию возвращает только бронирования, занимающие автомобиль
//
// Примеры использования:
// - Занятость автомобиля: GetVehicleBookings(ctx, &GetVehicleBookingsRequest{VehicleID: 3})
// - Занятость на период: указать StartDate и EndDate
// - Вся история: IncludeInactive = true
// - Только активные аренды: Status = "Active"
func (s *Service) GetVehicleBookings(ctx context.Context, req *models.GetVehicleBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetVehicleBookings: fetching bookings for vehicle=%d", req.VehicleID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(time.RFC3339), req.EndDate.Format(time.RFC3339))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info("%s", logMsg)

	if req.StartDate != nil && req.EndDate != nil && !req.StartDate.Before(*req.EndDate) {
		s.logger.Warn("GetVehicleBookings: invalid period for vehicle=%d", req.VehicleID)
		return nil, fmt.Errorf("%w: startDate must be before endDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetVehicleBookings: invalid filter for vehicle=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByVehicleWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetVehicleBookings: repository error for vehicle=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: GetVehicleBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetVehicleBookings: successfully fetched %d bookings for vehicle=%d", len(bookings), req.VehicleID)
	return models.FromDomainBookingList(bookings, s.timeProvider.Now()), nil
}

// TransitionStatus переводит бронирование в целевой статус по таблице переходов.
// Completed завершает аренду текущим временем, Cancelled отменяет без проверки владельца.
func (s *Service) TransitionStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("TransitionStatus: moving booking id=%d to status=%s", bookingID, req.Status)

	target, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("TransitionStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch target {
	case domain.StatusCompleted:
		return s.Complete(ctx, bookingID, &models.CompleteBookingRequest{ActualReturnDate: s.timeProvider.Now()})
	case domain.StatusCancelled:
		return s.Cancel(ctx, bookingID, nil)
	}

	booking, err := s.applyTransition(ctx, bookingID, nil, target, nil)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// Cancel отменяет бронирование в статусе Pending или Confirmed.
// Если actingUserID задан, отмена проходит только для бронирования этого пользователя;
// чужое бронирование выглядит как несуществующее. Без actingUserID отменяет администратор.
func (s *Service) Cancel(ctx context.Context, bookingID int64, actingUserID *int64) (*models.BookingResponse, error) {
	if actingUserID != nil {
		s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, *actingUserID)
	} else {
		s.logger.Info("Cancel: cancelling booking id=%d by admin", bookingID)
	}

	booking, err := s.applyTransition(ctx, bookingID, actingUserID, domain.StatusCancelled, nil)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// Complete завершает аренду: считает штраф за просрочку по ставке автомобиля,
// добавляет его к сумме, записывает пробег и освобождает автомобиль
func (s *Service) Complete(ctx context.Context, bookingID int64, req *models.CompleteBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Complete: completing booking id=%d, actualReturn=%s",
		bookingID, req.ActualReturnDate.Format(time.RFC3339))

	if req.ActualReturnDate.IsZero() {
		s.logger.Warn("Complete: missing actual return date for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: actualReturnDate is required", ErrInvalidInput)
	}
	if req.EndMileage != nil && *req.EndMileage < 0 {
		s.logger.Warn("Complete: negative end mileage for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: endMileage must not be negative", ErrInvalidInput)
	}

	booking, err := s.applyTransition(ctx, bookingID, nil, domain.StatusCompleted, &completion{
		actualReturn: req.ActualReturnDate,
		endMileage:   req.EndMileage,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Complete: booking id=%d completed, lateFee=%.2f, total=%.2f",
		booking.ID, booking.LateFee, booking.TotalAmount)
	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// applyTransition единственное место, где пишется статус бронирования.
// В одной транзакции: строка бронирования блокируется, переход проверяется по таблице,
// статус пишется через compare-and-swap, затем применяется побочный эффект на автомобиль.
// При любой ошибке транзакция откатывается и состояние остается прежним.
func (s *Service) applyTransition(
	ctx context.Context,
	bookingID int64,
	ownerID *int64,
	target domain.BookingStatus,
	done *completion,
) (*domain.Booking, error) {
	var (
		from    domain.BookingStatus
		updated *domain.Booking
	)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.bookingRepo.GetByIDForUpdate(ctx, bookingID, ownerID)
		if err != nil {
			return s.mapRepositoryError("applyTransition", bookingID, err)
		}
		from = current.Status

		if err := domain.CheckTransition(current.Status, target); err != nil {
			s.logger.Warn("applyTransition: booking id=%d rejected: %v", bookingID, err)
			return err
		}

		if target == domain.StatusCompleted {
			updated, err = s.complete(ctx, current, done)
		} else {
			updated, err = s.bookingRepo.UpdateStatus(ctx, current.ID, current.Status, target)
		}
		if err != nil {
			return s.mapRepositoryError("applyTransition", bookingID, err)
		}

		return s.applyVehicleSideEffect(ctx, updated)
	})
	if err != nil {
		if isServiceError(err) {
			return nil, err
		}
		s.logger.Error("applyTransition: transaction error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: applyTransition - transaction error: %v", ErrInternal, err)
	}

	if s.metrics != nil {
		s.metrics.RecordBookingTransition(string(from), string(target))
	}
	s.logger.Info("applyTransition: booking id=%d moved %s -> %s", bookingID, from, target)

	return updated, nil
}

// complete считает итоги аренды и пишет их вместе со статусом Completed
func (s *Service) complete(ctx context.Context, current *domain.Booking, done *completion) (*domain.Booking, error) {
	if done == nil {
		return nil, fmt.Errorf("%w: completion data is required", ErrInvalidInput)
	}

	if done.actualReturn.Before(current.BookingDate) {
		s.logger.Warn("complete: booking id=%d returned before it started", current.ID)
		return nil, fmt.Errorf("%w: actualReturnDate is before bookingDate", ErrInvalidInput)
	}

	// Блокируем автомобиль: ставка и пробег читаются и пишутся в одной транзакции
	vehicle, err := s.vehicleRepo.GetByIDForUpdate(ctx, current.VehicleID)
	if err != nil {
		return nil, err
	}

	if done.endMileage != nil {
		if current.StartMileage != nil && *done.endMileage < *current.StartMileage {
			s.logger.Warn("complete: booking id=%d end mileage %d is below start mileage %d",
				current.ID, *done.endMileage, *current.StartMileage)
			return nil, fmt.Errorf("%w: end mileage %d is below start mileage %d",
				ErrInvalidInput, *done.endMileage, *current.StartMileage)
		}
		if *done.endMileage < vehicle.Mileage {
			s.logger.Warn("complete: booking id=%d end mileage %d is below vehicle mileage %d",
				current.ID, *done.endMileage, vehicle.Mileage)
			return nil, fmt.Errorf("%w: end mileage %d is below vehicle mileage %d",
				ErrInvalidInput, *done.endMileage, vehicle.Mileage)
		}
	}

	lateFee := domain.LateFee(vehicle.RentalRate, current.ReturnDate, done.actualReturn)

	completed, err := s.bookingRepo.Complete(ctx, current.ID, domain.BookingCompletion{
		ActualReturnDate: done.actualReturn,
		EndMileage:       done.endMileage,
		LateFee:          lateFee,
		TotalAmount:      domain.RoundMoney(current.TotalAmount + lateFee),
	})
	if err != nil {
		return nil, err
	}

	if done.endMileage != nil {
		if _, err := s.vehicleRepo.UpdateMileage(ctx, vehicle.ID, *done.endMileage); err != nil {
			return nil, err
		}
	}

	return completed, nil
}

// applyVehicleSideEffect синхронизирует статус автомобиля с новым статусом бронирования
func (s *Service) applyVehicleSideEffect(ctx context.Context, booking *domain.Booking) error {
	switch booking.Status {
	case domain.StatusActive:
		if err := s.vehicleRepo.UpdateStatus(ctx, booking.VehicleID, domain.VehicleRented); err != nil {
			return s.mapRepositoryError("applyVehicleSideEffect", booking.ID, err)
		}
		s.logger.Info("applyVehicleSideEffect: vehicle id=%d is Rented", booking.VehicleID)

	case domain.StatusCompleted, domain.StatusCancelled:
		released, err := s.vehicleRepo.ReleaseIfIdle(ctx, booking.VehicleID, booking.ID)
		if err != nil {
			return s.mapRepositoryError("applyVehicleSideEffect", booking.ID, err)
		}
		if released {
			s.logger.Info("applyVehicleSideEffect: vehicle id=%d is Available", booking.VehicleID)
		}
	}

	return nil
}

// mapRepositoryError переводит ошибки хранилища в ошибки сервиса
func (s *Service) mapRepositoryError(op string, bookingID int64, err error) error {
	switch {
	case isServiceError(err):
		return err
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusConflict):
		s.logger.Warn("%s: booking id=%d status changed concurrently", op, bookingID)
		return fmt.Errorf("%w: booking status changed concurrently", domain.ErrIllegalTransition)
	case errors.Is(err, vehicleRepo.ErrVehicleNotFound):
		s.logger.Warn("%s: vehicle of booking id=%d not found", op, bookingID)
		return ErrVehicleNotFound
	case errors.Is(err, bookingRepo.ErrConstraintViolation):
		s.logger.Warn("%s: booking id=%d violates a table constraint: %v", op, bookingID, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
}

func isServiceError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrVehicleNotFound) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInternal) ||
		errors.Is(err, domain.ErrIllegalTransition)
}
