package check_availability

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	"github.com/m04kA/SMC-RentalService/internal/service/availability/models"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (*models.AvailabilityResponse, error) {
	args := m.Called(ctx, vehicleID, start, end)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.AvailabilityResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(vehicleID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/"+vehicleID+"/availability?"+query, nil)
	return mux.SetURLVars(req, map[string]string{"vehicleId": vehicleID})
}

func TestHandle_ReportsConflicts(t *testing.T) {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	svc := &mockService{}
	svc.On("GetAvailability", mock.Anything, int64(1), start, end).Return(&models.AvailabilityResponse{
		VehicleID: 1,
		Start:     start,
		End:       end,
		Available: false,
		Conflicts: []models.ConflictResponse{{BookingID: 10, Status: "Pending"}},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewWithWriter(io.Discard, logger.LevelDebug)).
		Handle(rec, newRequest("1", "start=2025-01-02&end=2025-01-05"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body models.AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Available)
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, int64(10), body.Conflicts[0].BookingID)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name      string
		vehicleID string
		query     string
		err       error
		want      int
	}{
		{"bad vehicle id", "car", "start=2025-01-02&end=2025-01-05", nil, http.StatusBadRequest},
		{"missing end", "1", "start=2025-01-02", nil, http.StatusBadRequest},
		{"bad start", "1", "start=02.01.2025&end=2025-01-05", nil, http.StatusBadRequest},
		{"reversed period", "1", "start=2025-01-05&end=2025-01-02", availability.ErrInvalidInput, http.StatusBadRequest},
		{"unknown vehicle", "1", "start=2025-01-02&end=2025-01-05", availability.ErrVehicleNotFound, http.StatusNotFound},
		{"internal", "1", "start=2025-01-02&end=2025-01-05", availability.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(svc, logger.NewWithWriter(io.Discard, logger.LevelDebug)).Handle(rec, newRequest(tt.vehicleID, tt.query))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
