package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.OwnerRef == "" {
		return fmt.Errorf("%w: ownerRef is required", ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	if len(req.Items) > domain.MaxItemsPerReservation {
		return fmt.Errorf("%w: at most %d items", ErrInvalidInput, domain.MaxItemsPerReservation)
	}

	for i, item := range req.Items {
		if item.CourtID <= 0 {
			return fmt.Errorf("%w: item %d: courtId must be positive", ErrInvalidInput, i)
		}
		if item.Date.IsZero() {
			return fmt.Errorf("%w: item %d: date is required", ErrInvalidInput, i)
		}
		if err := item.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: item %d: startTime: %v", ErrInvalidInput, i, err)
		}
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date time.Time, now time.Time) bool {
	return domain.NormalizeDate(date).Before(domain.NormalizeDate(now))
}
