package get_booked_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// AvailabilityService интерфейс вычисления занятости корта
type AvailabilityService interface {
	ComputeForCourt(ctx context.Context, courtID int64, date time.Time) (*domain.Court, []domain.SlotAvailability, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
