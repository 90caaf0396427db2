package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalTransition возвращается при попытке перехода, которого нет в таблице переходов
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrInvalidStatus возвращается при разборе неизвестного статуса
	ErrInvalidStatus = errors.New("invalid booking status")
)

// BookingStatus represents the lifecycle state of a booking.
// Lateness is not a status: see Booking.IsOverdue.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusActive    BookingStatus = "Active"
	StatusCompleted BookingStatus = "Completed"
	StatusCancelled BookingStatus = "Cancelled"
)

// transitions defines the booking state machine
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// requiredSource статус, в котором должно находиться бронирование для перехода в целевой
var requiredSource = map[BookingStatus]BookingStatus{
	StatusConfirmed: StatusPending,
	StatusActive:    StatusConfirmed,
	StatusCompleted: StatusActive,
}

// AllStatuses returns every booking status in lifecycle order
func AllStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled}
}

// IsValid returns true if the status is a recognized booking status
func (s BookingStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal returns true if no further transitions are possible
func (s BookingStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return !ok || len(next) == 0
}

// IsBlocking returns true if a booking in this status occupies the vehicle
func (s BookingStatus) IsBlocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// CanTransitionTo returns true if the state machine allows from -> target
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string into a BookingStatus
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// CheckTransition returns nil if from -> to is legal, otherwise an error wrapping
// ErrIllegalTransition that names the violated precondition.
func CheckTransition(from, to BookingStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown target status %q", ErrIllegalTransition, to)
	}
	if from.CanTransitionTo(to) {
		return nil
	}

	switch {
	case from == to:
		return fmt.Errorf("%w: booking is already %s", ErrIllegalTransition, from)
	case from.IsTerminal():
		return fmt.Errorf("%w: booking is %s and can no longer change status", ErrIllegalTransition, from)
	case to == StatusPending:
		return fmt.Errorf("%w: booking cannot return to %s", ErrIllegalTransition, StatusPending)
	case to == StatusCancelled:
		return fmt.Errorf("%w: %s booking cannot be cancelled", ErrIllegalTransition, from)
	}

	if required, ok := requiredSource[to]; ok {
		return fmt.Errorf("%w: booking must be %s before it becomes %s", ErrIllegalTransition, required, to)
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
