package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/service/availability/models"
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, vehicleID int64, start, end time.Time) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
