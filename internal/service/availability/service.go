package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	vehicleRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/vehicle"
	"github.com/m04kA/SMC-RentalService/internal/service/availability/models"
)

// Service проверяет, свободен ли автомобиль на полуинтервале [start, end)
type Service struct {
	bookingRepo BookingRepository
	vehicleRepo VehicleRepository
	metrics     MetricsRecorder
	logger      Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	bookingRepo BookingRepository,
	vehicleRepo VehicleRepository,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// IsAvailable returns false if any Pending, Confirmed or Active booking of the vehicle
// overlaps [start, end). Read-only.
func (s *Service) IsAvailable(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error) {
	resp, err := s.GetAvailability(ctx, vehicleID, start, end)
	if err != nil {
		return false, err
	}
	return resp.Available, nil
}

// GetAvailability то же, что IsAvailable, но возвращает и список пересечений
func (s *Service) GetAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (*models.AvailabilityResponse, error) {
	s.logger.Info("GetAvailability: vehicle=%d, period=%s - %s",
		vehicleID, start.Format(time.RFC3339), end.Format(time.RFC3339))

	interval, err := domain.NewInterval(start, end)
	if err != nil {
		s.logger.Warn("GetAvailability: invalid interval for vehicle=%d: %v", vehicleID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			s.logger.Warn("GetAvailability: vehicle id=%d not found", vehicleID)
			return nil, ErrVehicleNotFound
		}
		s.logger.Error("GetAvailability: failed to get vehicle id=%d: %v", vehicleID, err)
		return nil, fmt.Errorf("%w: GetAvailability - vehicle repository error: %v", ErrInternal, err)
	}

	conflicts, err := s.Check(ctx, vehicleID, interval, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetAvailability: vehicle=%d available=%t, conflicts=%d", vehicleID, len(conflicts) == 0, len(conflicts))
	return models.FromDomain(vehicleID, interval, conflicts), nil
}

// Check returns the blocking bookings of the vehicle that overlap the interval.
// excludeBookingID drops one booking from the check when its own dates are being moved.
// Candidate rows are read without row locks; callers serialize on the vehicle row.
func (s *Service) Check(ctx context.Context, vehicleID int64, interval domain.Interval, excludeBookingID *int64) ([]*domain.Booking, error) {
	// Окно запроса совпадает с интервалом: в выборку попадают только
	// бронирования, которые могут пересечься
	filter := domain.VehicleBookingsFilter{
		VehicleID:        vehicleID,
		Statuses:         domain.BlockingStatuses,
		From:             &interval.Start,
		To:               &interval.End,
		ExcludeBookingID: excludeBookingID,
	}

	bookings, err := s.bookingRepo.GetByVehicleWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("Check: repository error for vehicle=%d: %v", vehicleID, err)
		return nil, fmt.Errorf("%w: Check - repository error: %w", ErrInternal, err)
	}

	conflicts := domain.FindOverlapping(interval, bookings)
	if excludeBookingID != nil {
		conflicts = dropBooking(conflicts, *excludeBookingID)
	}

	if len(conflicts) > 0 && s.metrics != nil {
		s.metrics.RecordAvailabilityConflict("check")
	}

	return conflicts, nil
}

func dropBooking(bookings []*domain.Booking, id int64) []*domain.Booking {
	out := bookings[:0]
	for _, b := range bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}
