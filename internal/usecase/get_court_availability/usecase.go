package get_court_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/availability"
)

// UseCase use case получения полной сетки корта со статусами
type UseCase struct {
	availability AvailabilityService
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availability AvailabilityService, logger Logger) *UseCase {
	return &UseCase{
		availability: availability,
		logger:       logger,
	}
}

// Execute выполняет use case
// Неактивный корт возвращается с пустой сеткой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.CourtID <= 0 {
		return nil, fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	court, slots, err := uc.availability.ComputeForCourt(ctx, req.CourtID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrCourtNotFound):
			return nil, ErrCourtNotFound
		case errors.Is(err, domain.ErrLookup), errors.Is(err, domain.ErrInvalidCourtConfig):
			return nil, err
		default:
			uc.logger.Error("GetCourtAvailability: court=%d: %v", req.CourtID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	resp := &Response{
		CourtID:         court.ID,
		VenueID:         court.VenueID,
		Date:            domain.NormalizeDate(req.Date),
		DurationMinutes: court.SessionDurationMinutes,
		Active:          court.Active,
		Slots:           make([]Slot, 0, len(slots)),
	}

	if !court.Active {
		uc.logger.Info("GetCourtAvailability: court=%d is inactive", court.ID)
		return resp, nil
	}

	for _, s := range slots {
		resp.Slots = append(resp.Slots, Slot{
			StartTime: s.Slot.StartTime,
			EndTime:   s.Slot.EndTime,
			Price:     s.Slot.Price,
			Status:    s.Status,
		})
	}

	return resp, nil
}
