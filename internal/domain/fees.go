package domain

import (
	"math"
	"time"
)

// RentalTotal returns rate * billable days for [start, end).
// Partial days round up; anything up to one day bills as one day.
func RentalTotal(rate float64, start, end time.Time) float64 {
	return RoundMoney(rate * float64(BillableDays(start, end)))
}

// BillableDays число оплачиваемых суток, минимум MinBillableDays
func BillableDays(start, end time.Time) int {
	days := ceilDays(end.Sub(start))
	if days < MinBillableDays {
		return MinBillableDays
	}
	return days
}

// LateFee returns rate * 5% per started day past expectedReturn, 0 if not late
func LateFee(rate float64, expectedReturn, actualReturn time.Time) float64 {
	overdue := OverdueDays(expectedReturn, actualReturn)
	if overdue <= 0 {
		return 0
	}
	return RoundMoney(rate * LateFeeDailyRatio * float64(overdue))
}

// OverdueDays число начатых суток просрочки
func OverdueDays(expectedReturn, actualReturn time.Time) int {
	return ceilDays(actualReturn.Sub(expectedReturn))
}

// RoundMoney округляет сумму до копеек
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func ceilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	days := d / Day
	if d%Day != 0 {
		days++
	}
	return int(days)
}
