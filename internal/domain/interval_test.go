package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", Interval{day(1), day(4)}, Interval{day(1), day(4)}, true},
		{"partial", Interval{day(1), day(4)}, Interval{day(2), day(5)}, true},
		{"contained", Interval{day(1), day(10)}, Interval{day(3), day(4)}, true},
		{"adjacent", Interval{day(1), day(4)}, Interval{day(4), day(6)}, false},
		{"disjoint", Interval{day(1), day(2)}, Interval{day(5), day(6)}, false},
		{"one hour overlap", Interval{day(1), day(4)}, Interval{day(4).Add(-time.Hour), day(6)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// симметричность
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_AdjacentNeverOverlaps(t *testing.T) {
	for d1 := 1; d1 < 5; d1++ {
		for d2 := d1 + 1; d2 < 8; d2++ {
			for d3 := d2 + 1; d3 < 10; d3++ {
				a := Interval{day(d1), day(d2)}
				b := Interval{day(d2), day(d3)}
				assert.False(t, a.Overlaps(b), "[%d,%d) vs [%d,%d)", d1, d2, d2, d3)
			}
		}
	}
}

func TestNewInterval(t *testing.T) {
	_, err := NewInterval(day(2), day(1))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(day(2), day(2))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(time.Time{}, day(2))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	i, err := NewInterval(day(1), day(3))
	assert.NoError(t, err)
	assert.Equal(t, 48*time.Hour, i.Duration())
}

func TestFindOverlapping(t *testing.T) {
	bookings := []*Booking{
		{ID: 1, BookingDate: day(1), ReturnDate: day(4), Status: StatusPending},
		{ID: 2, BookingDate: day(2), ReturnDate: day(3), Status: StatusCancelled},
		{ID: 3, BookingDate: day(3), ReturnDate: day(5), Status: StatusActive},
		{ID: 4, BookingDate: day(5), ReturnDate: day(7), Status: StatusConfirmed},
		nil,
	}

	conflicts := FindOverlapping(Interval{day(2), day(5)}, bookings)

	ids := make([]int64, 0, len(conflicts))
	for _, b := range conflicts {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestBooking_IsOverdue(t *testing.T) {
	b := &Booking{BookingDate: day(1), ReturnDate: day(4), Status: StatusActive}
	assert.False(t, b.IsOverdue(day(3)))
	assert.True(t, b.IsOverdue(day(5)))

	returned := day(6)
	b.Status = StatusCompleted
	b.ActualReturnDate = &returned
	assert.True(t, b.IsOverdue(day(1)))

	b.Status = StatusCancelled
	assert.False(t, b.IsOverdue(day(10)))
}
