package expiry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GroupFinder поиск просроченных групп в статусе pending
type GroupFinder interface {
	FindExpiredPendingGroups(ctx context.Context, ttl time.Duration, limit uint64) ([]uuid.UUID, error)
}

// Ledger отмена просроченной группы, если она всё ещё pending
type Ledger interface {
	ExpirePending(ctx context.Context, groupID uuid.UUID) (bool, error)
}

// MetricsRecorder счетчик отмененных групп
type MetricsRecorder interface {
	ObserveExpiredGroups(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
