package get_reservation_group

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

type ReservationLedger interface {
	GetGroup(ctx context.Context, groupID uuid.UUID) (*domain.ReservationGroup, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
