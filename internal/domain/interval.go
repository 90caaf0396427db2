package domain

import (
	"errors"
	"time"
)

// ErrInvalidInterval возвращается, если начало интервала не раньше конца
var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval создает интервал, проверяя Start < End
func NewInterval(start, end time.Time) (Interval, error) {
	i := Interval{Start: start, End: end}
	if err := i.Validate(); err != nil {
		return Interval{}, err
	}
	return i, nil
}

// Validate checks Start < End
func (i Interval) Validate() error {
	if i.Start.IsZero() || i.End.IsZero() || !i.Start.Before(i.End) {
		return ErrInvalidInterval
	}
	return nil
}

// Overlaps reports whether two half-open intervals share any instant.
// Adjacent intervals ([a, b) and [b, c)) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Duration длительность интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// FindOverlapping returns the blocking bookings whose period overlaps the interval
func FindOverlapping(interval Interval, bookings []*Booking) []*Booking {
	conflicts := make([]*Booking, 0)
	for _, b := range bookings {
		if b == nil || !b.IsBlocking() {
			continue
		}
		if interval.Overlaps(b.Period()) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}
