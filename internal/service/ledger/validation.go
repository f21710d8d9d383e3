package ledger

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// validateRequest проверяет запрос до взятия блокировок
func validateRequest(req domain.ReserveRequest) error {
	if req.OwnerRef == "" {
		return fmt.Errorf("%w: ownerRef is required", ErrInvalidInput)
	}
	if len(req.OwnerRef) > domain.MaxOwnerRefLength {
		return fmt.Errorf("%w: ownerRef longer than %d", ErrInvalidInput, domain.MaxOwnerRefLength)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}
	if len(req.Items) > domain.MaxItemsPerReservation {
		return fmt.Errorf("%w: at most %d slots per reservation", ErrInvalidInput, domain.MaxItemsPerReservation)
	}

	for i, item := range req.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: item %d: %v", ErrInvalidInput, i, err)
		}
	}

	if a, b, found := domain.SelfOverlapping(req.Items); found {
		return fmt.Errorf("%w: court %d %s: %s overlaps %s",
			ErrInvalidInput, a.CourtID, a.Date.Format(domain.DateFormat), a.Range(), b.Range())
	}

	return nil
}
