package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// CourtRepository интерфейс получения конфигурации корта
type CourtRepository interface {
	GetCourtConfig(ctx context.Context, courtID int64) (*domain.Court, error)
}

// Ledger интерфейс атомарной записи слотов
type Ledger interface {
	Reserve(ctx context.Context, req domain.ReserveRequest) (*domain.ReserveResult, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
