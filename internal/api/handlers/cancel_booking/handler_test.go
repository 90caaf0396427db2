package cancel_booking

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings"
	"github.com/m04kA/SMC-RentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Cancel(ctx context.Context, bookingID int64, actingUserID *int64) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID, actingUserID)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(bookingID string, userID int64, role string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/cancel", nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	return req.WithContext(middleware.WithUser(req.Context(), userID, role))
}

func TestHandle_CustomerCancelsOwnBooking(t *testing.T) {
	svc := &mockService{}
	owner := int64(7)
	svc.On("Cancel", mock.Anything, int64(5), &owner).
		Return(&models.BookingResponse{ID: 5, Status: "Cancelled"}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewWithWriter(io.Discard, logger.LevelDebug)).Handle(rec, newRequest("5", 7, "customer"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Cancelled"`)
	svc.AssertExpectations(t)
}

func TestHandle_AdminCancelsWithoutOwnerCheck(t *testing.T) {
	svc := &mockService{}
	svc.On("Cancel", mock.Anything, int64(5), (*int64)(nil)).
		Return(&models.BookingResponse{ID: 5, Status: "Cancelled"}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewWithWriter(io.Discard, logger.LevelDebug)).Handle(rec, newRequest("5", 1, middleware.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"already cancelled", fmt.Errorf("%w: Cancelled -> Cancelled", domain.ErrIllegalTransition), http.StatusConflict},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Cancel", mock.Anything, int64(5), mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(svc, logger.NewWithWriter(io.Discard, logger.LevelDebug)).Handle(rec, newRequest("5", 7, ""))

			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("bad id", func(t *testing.T) {
		svc := &mockService{}
		rec := httptest.NewRecorder()
		NewHandler(svc, logger.NewWithWriter(io.Discard, logger.LevelDebug)).Handle(rec, newRequest("abc", 7, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
	})
}
