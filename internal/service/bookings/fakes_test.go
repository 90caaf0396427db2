package bookings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	vehicleRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/vehicle"
)

// memState хранилище в памяти; txManager держит mu на время транзакции
// и восстанавливает снимок при ошибке
type memState struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
	vehicles map[int64]*domain.Vehicle

	failVehicleStatus error
}

func newMemState() *memState {
	return &memState{
		bookings: make(map[int64]*domain.Booking),
		vehicles: make(map[int64]*domain.Vehicle),
	}
}

func (m *memState) snapshot() (map[int64]domain.Booking, map[int64]domain.Vehicle) {
	b := make(map[int64]domain.Booking, len(m.bookings))
	for id, v := range m.bookings {
		b[id] = *v
	}
	v := make(map[int64]domain.Vehicle, len(m.vehicles))
	for id, x := range m.vehicles {
		v[id] = *x
	}
	return b, v
}

func (m *memState) restore(b map[int64]domain.Booking, v map[int64]domain.Vehicle) {
	for id, x := range b {
		copied := x
		m.bookings[id] = &copied
	}
	for id, x := range v {
		copied := x
		m.vehicles[id] = &copied
	}
}

type memTxManager struct {
	state *memState
}

func (t *memTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()

	b, v := t.state.snapshot()
	if err := fn(ctx); err != nil {
		t.state.restore(b, v)
		return err
	}
	return nil
}

type memBookings struct {
	state *memState
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

func (r *memBookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	b, ok := r.state.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

// GetByIDForUpdate вызывается внутри memTxManager.Do, mu уже захвачен
func (r *memBookings) GetByIDForUpdate(_ context.Context, id int64, ownerID *int64) (*domain.Booking, error) {
	b, ok := r.state.bookings[id]
	if !ok || (ownerID != nil && b.UserID != *ownerID) {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

func (r *memBookings) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range r.state.bookings {
		if b.UserID == userID && (status == nil || b.Status == *status) {
			out = append(out, copyBooking(b))
		}
	}
	return out, nil
}

func (r *memBookings) GetByVehicleWithFilter(_ context.Context, filter domain.VehicleBookingsFilter) ([]*domain.Booking, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range r.state.bookings {
		if b.VehicleID != filter.VehicleID {
			continue
		}
		if len(filter.Statuses) > 0 {
			found := false
			for _, s := range filter.Statuses {
				found = found || s == b.Status
			}
			if !found {
				continue
			}
		}
		out = append(out, copyBooking(b))
	}
	return out, nil
}

func (r *memBookings) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	b, ok := r.state.bookings[id]
	if !ok || b.Status != from {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = to
	return copyBooking(b), nil
}

func (r *memBookings) Complete(_ context.Context, id int64, c domain.BookingCompletion) (*domain.Booking, error) {
	b, ok := r.state.bookings[id]
	if !ok || b.Status != domain.StatusActive {
		return nil, bookingRepo.ErrStatusConflict
	}
	actual := c.ActualReturnDate
	b.Status = domain.StatusCompleted
	b.ActualReturnDate = &actual
	b.EndMileage = c.EndMileage
	b.LateFee = c.LateFee
	b.TotalAmount = c.TotalAmount
	return copyBooking(b), nil
}

type memVehicles struct {
	state *memState
}

func (r *memVehicles) GetByIDForUpdate(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, ok := r.state.vehicles[id]
	if !ok {
		return nil, vehicleRepo.ErrVehicleNotFound
	}
	c := *v
	return &c, nil
}

func (r *memVehicles) UpdateStatus(_ context.Context, id int64, status domain.VehicleStatus) error {
	if r.state.failVehicleStatus != nil {
		return r.state.failVehicleStatus
	}
	v, ok := r.state.vehicles[id]
	if !ok {
		return vehicleRepo.ErrVehicleNotFound
	}
	v.Status = status
	return nil
}

func (r *memVehicles) ReleaseIfIdle(_ context.Context, vehicleID, excludingBookingID int64) (bool, error) {
	v, ok := r.state.vehicles[vehicleID]
	if !ok || v.Status != domain.VehicleRented {
		return false, nil
	}
	for _, b := range r.state.bookings {
		if b.VehicleID == vehicleID && b.ID != excludingBookingID && b.Status == domain.StatusActive {
			return false, nil
		}
	}
	v.Status = domain.VehicleAvailable
	return true, nil
}

func (r *memVehicles) UpdateMileage(_ context.Context, id int64, mileage int64) (bool, error) {
	v, ok := r.state.vehicles[id]
	if !ok {
		return false, vehicleRepo.ErrVehicleNotFound
	}
	if mileage <= v.Mileage {
		return false, nil
	}
	v.Mileage = mileage
	return true, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type transitionCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *transitionCounter) RecordBookingTransition(from, to string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[from+"->"+to]++
}

var errStorageDown = errors.New("storage down")
