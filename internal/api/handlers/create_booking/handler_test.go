package create_booking

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-RentalService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*createBooking.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(body string, userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(middleware.WithUser(req.Context(), userID, ""))
	}
	return req
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewWithWriter(io.Discard, logger.LevelDebug))

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)

	uc.On("Execute", mock.Anything, &createBooking.Request{
		UserID:      7,
		VehicleID:   1,
		BookingDate: start,
		ReturnDate:  end,
	}).Return(&createBooking.Response{
		ID:          10,
		UserID:      7,
		VehicleID:   1,
		BookingDate: start,
		ReturnDate:  end,
		TotalAmount: 150,
		Status:      "Pending",
	}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(`{"vehicleId":1,"bookingDate":"2025-01-01","returnDate":"2025-01-04"}`, 7))

	require.Equal(t, http.StatusCreated, rec.Code)

	var body BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(10), body.ID)
	assert.Equal(t, 150.0, body.TotalAmount)
	assert.Equal(t, "Pending", body.Status)
	assert.Equal(t, "2025-01-01T00:00:00Z", body.BookingDate)

	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		body   string
		ucErr  error
		want   int
	}{
		{"anonymous", 0, `{"vehicleId":1,"bookingDate":"2025-01-01","returnDate":"2025-01-04"}`, nil, http.StatusUnauthorized},
		{"broken json", 7, `{"vehicleId":`, nil, http.StatusBadRequest},
		{"unknown field", 7, `{"vehicleId":1,"status":"Active"}`, nil, http.StatusBadRequest},
		{"bad date", 7, `{"vehicleId":1,"bookingDate":"01.01.2025","returnDate":"2025-01-04"}`, nil, http.StatusBadRequest},
		{"overlap", 7, `{"vehicleId":1,"bookingDate":"2025-01-01","returnDate":"2025-01-04"}`, createBooking.ErrVehicleNotAvailable, http.StatusConflict},
		{"no vehicle", 7, `{"vehicleId":1,"bookingDate":"2025-01-01","returnDate":"2025-01-04"}`, createBooking.ErrVehicleNotFound, http.StatusNotFound},
		{"past", 7, `{"vehicleId":1,"bookingDate":"2025-01-01","returnDate":"2025-01-04"}`, createBooking.ErrInvalidDate, http.StatusBadRequest},
		{"invalid", 7, `{"vehicleId":1,"bookingDate":"2025-01-04","returnDate":"2025-01-01"}`, createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal", 7, `{"vehicleId":1,"bookingDate":"2025-01-01","returnDate":"2025-01-04"}`, createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			h := NewHandler(uc, logger.NewWithWriter(io.Discard, logger.LevelDebug))

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.body, tt.userID))

			assert.Equal(t, tt.want, rec.Code)
			if tt.ucErr == nil {
				uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
			}
		})
	}
}
