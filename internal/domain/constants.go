package domain

import "time"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinSessionDurationMinutes = 5
	MaxSessionDurationMinutes = 720 // 12 hours
	MaxItemsPerReservation    = 48
	MaxOwnerRefLength         = 128

	// DefaultPendingTTL время жизни неоплаченной брони, совпадает с политикой истечения платежа
	DefaultPendingTTL = 10 * time.Minute
)

// ReasonAlreadyReserved причина конфликта, которую видит пользователь
const ReasonAlreadyReserved = "already reserved"

// ActiveStatuses статусы, которые занимают слот
// Используется для фильтрации при вычислении доступности и проверке конфликтов
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// NormalizeDate обнуляет время, оставляя только календарный день в UTC
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
