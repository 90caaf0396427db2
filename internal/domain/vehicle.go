package domain

import "time"

// VehicleStatus represents the availability projection of a vehicle
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "Available"
	VehicleRented      VehicleStatus = "Rented"
	VehicleMaintenance VehicleStatus = "Maintenance"
	VehicleUnavailable VehicleStatus = "Unavailable"
	VehicleBanned      VehicleStatus = "Banned"
)

// IsValid returns true if the status is a known vehicle status
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleAvailable, VehicleRented, VehicleMaintenance, VehicleUnavailable, VehicleBanned:
		return true
	default:
		return false
	}
}

// Vehicle is the part of the fleet record the booking flow reads and writes
type Vehicle struct {
	ID           int64
	Brand        string
	Model        string
	LicensePlate string
	RentalRate   float64 // цена за сутки
	Mileage      int64
	Status       VehicleStatus
	UpdatedAt    time.Time
}
