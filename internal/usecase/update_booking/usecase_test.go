package update_booking

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/ptr"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) GetByIDForUpdate(ctx context.Context, id int64, ownerID *int64) (*domain.Booking, error) {
	args := m.Called(ctx, id, ownerID)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookings) UpdateDetails(ctx context.Context, id int64, upd domain.BookingDetailsUpdate) (*domain.Booking, error) {
	args := m.Called(ctx, id, upd)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockVehicles struct {
	mock.Mock
}

func (m *mockVehicles) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) Check(ctx context.Context, vehicleID int64, interval domain.Interval, excludeBookingID *int64) ([]*domain.Booking, error) {
	args := m.Called(ctx, vehicleID, interval, excludeBookingID)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	bookings *mockBookings
	vehicles *mockVehicles
	checker  *mockChecker
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &mockBookings{},
		vehicles: &mockVehicles{},
		checker:  &mockChecker{},
	}
	f.uc = NewUseCase(f.bookings, f.vehicles, f.checker, inlineTx{}, logger.NewWithWriter(io.Discard, logger.LevelDebug))
	f.uc.timeProvider = fixedClock{now: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)}
	return f
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:          1,
		UserID:      7,
		VehicleID:   3,
		BookingDate: day(1),
		ReturnDate:  day(4),
		TotalAmount: 150,
		Status:      domain.StatusPending,
	}
}

func TestExecute_MoveDatesRepricesAndExcludesItself(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := ptr.Ptr(int64(7))

	f.bookings.On("GetByIDForUpdate", ctx, int64(1), owner).Return(pendingBooking(), nil)
	f.vehicles.On("GetByIDForUpdate", ctx, int64(3)).Return(&domain.Vehicle{ID: 3, RentalRate: 50}, nil)
	f.checker.On("Check", ctx, int64(3), domain.Interval{Start: day(2), End: day(7)}, ptr.Ptr(int64(1))).
		Return([]*domain.Booking{}, nil)

	expected := domain.BookingDetailsUpdate{BookingDate: day(2), ReturnDate: day(7), TotalAmount: 250}
	updated := pendingBooking()
	updated.BookingDate, updated.ReturnDate, updated.TotalAmount = day(2), day(7), 250
	f.bookings.On("UpdateDetails", ctx, int64(1), expected).Return(updated, nil)

	resp, err := f.uc.Execute(ctx, &Request{BookingID: 1, ActingUserID: owner, BookingDate: ptr.Ptr(day(2)), ReturnDate: ptr.Ptr(day(7))})
	require.NoError(t, err)
	assert.Equal(t, 250.0, resp.TotalAmount)
	assert.Equal(t, "Pending", resp.Status)

	f.bookings.AssertExpectations(t)
	f.checker.AssertExpectations(t)
}

func TestExecute_MileageOnlyKeepsTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByIDForUpdate", ctx, int64(1), (*int64)(nil)).Return(pendingBooking(), nil)

	expected := domain.BookingDetailsUpdate{BookingDate: day(1), ReturnDate: day(4), TotalAmount: 150, StartMileage: ptr.Ptr(int64(500))}
	f.bookings.On("UpdateDetails", ctx, int64(1), expected).Return(pendingBooking(), nil)

	_, err := f.uc.Execute(ctx, &Request{BookingID: 1, StartMileage: ptr.Ptr(int64(500))})
	require.NoError(t, err)

	f.checker.AssertNotCalled(t, "Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.vehicles.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
}

func TestExecute_OverlapWithAnotherBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByIDForUpdate", ctx, int64(1), (*int64)(nil)).Return(pendingBooking(), nil)
	f.vehicles.On("GetByIDForUpdate", ctx, int64(3)).Return(&domain.Vehicle{ID: 3, RentalRate: 50}, nil)
	f.checker.On("Check", ctx, int64(3), mock.Anything, mock.Anything).
		Return([]*domain.Booking{{ID: 2, Status: domain.StatusConfirmed}}, nil)

	_, err := f.uc.Execute(ctx, &Request{BookingID: 1, ReturnDate: ptr.Ptr(day(9))})
	assert.ErrorIs(t, err, ErrVehicleNotAvailable)
	f.bookings.AssertNotCalled(t, "UpdateDetails", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_ActiveBookingIsNotEditable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	active := pendingBooking()
	active.Status = domain.StatusActive
	f.bookings.On("GetByIDForUpdate", ctx, int64(1), (*int64)(nil)).Return(active, nil)

	_, err := f.uc.Execute(ctx, &Request{BookingID: 1, ReturnDate: ptr.Ptr(day(9))})
	assert.ErrorIs(t, err, ErrBookingNotEditable)
}

func TestExecute_StatusChangedUnderneath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByIDForUpdate", ctx, int64(1), (*int64)(nil)).Return(pendingBooking(), nil)
	f.bookings.On("UpdateDetails", ctx, int64(1), mock.Anything).Return(nil, bookingRepo.ErrStatusConflict)

	_, err := f.uc.Execute(ctx, &Request{BookingID: 1, StartMileage: ptr.Ptr(int64(10))})
	assert.ErrorIs(t, err, ErrBookingNotEditable)
}

func TestExecute_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("NothingToUpdate", func(t *testing.T) {
		_, err := newFixture().uc.Execute(ctx, &Request{BookingID: 1})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("ForeignBooking", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int64(1), ptr.Ptr(int64(99))).Return(nil, bookingRepo.ErrBookingNotFound)

		_, err := f.uc.Execute(ctx, &Request{BookingID: 1, ActingUserID: ptr.Ptr(int64(99)), StartMileage: ptr.Ptr(int64(1))})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("ReturnBeforeStart", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int64(1), (*int64)(nil)).Return(pendingBooking(), nil)

		_, err := f.uc.Execute(ctx, &Request{BookingID: 1, ReturnDate: ptr.Ptr(day(1))})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("MovedIntoThePast", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByIDForUpdate", ctx, int64(1), (*int64)(nil)).Return(pendingBooking(), nil)

		_, err := f.uc.Execute(ctx, &Request{BookingID: 1, BookingDate: ptr.Ptr(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}
