package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// ReservationRepository интерфейс чтения резерваций
type ReservationRepository interface {
	FindReservations(ctx context.Context, courtID int64, date time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)
}

// CourtRepository интерфейс получения конфигурации корта
type CourtRepository interface {
	GetCourtConfig(ctx context.Context, courtID int64) (*domain.Court, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
