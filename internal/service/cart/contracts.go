package cart

import (
	"context"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// Reserver точка атомарной записи слотов, реализуется ledger.Ledger
type Reserver interface {
	Reserve(ctx context.Context, req domain.ReserveRequest) (*domain.ReserveResult, error)
}
