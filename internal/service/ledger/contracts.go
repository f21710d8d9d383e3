package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	FindReservations(ctx context.Context, courtID int64, date time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)
	InsertReservations(ctx context.Context, group *domain.ReservationGroup) (*domain.ReservationGroup, error)
	GetGroupByID(ctx context.Context, id uuid.UUID) (*domain.ReservationGroup, error)
	GetGroupByIdempotencyKey(ctx context.Context, key string) (*domain.ReservationGroup, error)
	UpdateStatus(ctx context.Context, groupID uuid.UUID, status domain.ReservationStatus) error
	LockCourtDay(ctx context.Context, courtID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyLocker блокировки по ключу внутри процесса
type KeyLocker interface {
	LockAll(keys []string) (unlock func())
}

// MetricsRecorder счетчик исходов резервирования
type MetricsRecorder interface {
	ObserveReservation(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
