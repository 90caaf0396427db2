package domain

import "time"

// Fee constants
const (
	// LateFeeDailyRatio доля суточной ставки за каждые сутки просрочки
	LateFeeDailyRatio = 0.05

	// MinBillableDays минимальное число оплачиваемых суток
	MinBillableDays = 1

	Day = 24 * time.Hour
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы, занимающие автомобиль при проверке пересечений
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}
