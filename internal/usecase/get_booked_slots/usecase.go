package get_booked_slots

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/availability"
)

// UseCase use case получения занятых слотов нескольких кортов на дату
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

// Execute вычисляет занятость кортов параллельно
// Ошибка по любому корту роняет весь запрос: частичный ответ выглядел бы как свободные слоты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetBookedSlots: validation failed: %v", err)
		return nil, err
	}

	courtIDs := uniqueIDs(req.CourtIDs)
	perCourt := make([][]BookedSlot, len(courtIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, courtID := range courtIDs {
		i, courtID := i, courtID
		g.Go(func() error {
			_, slots, err := uc.availability.ComputeForCourt(gctx, courtID, req.Date)
			if err != nil {
				return err
			}

			booked := make([]BookedSlot, 0)
			for _, s := range slots {
				if s.IsBooked() {
					booked = append(booked, BookedSlot{
						CourtID:   courtID,
						StartTime: s.Slot.StartTime,
						EndTime:   s.Slot.EndTime,
					})
				}
			}
			perCourt[i] = booked
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		switch {
		case errors.Is(err, availability.ErrCourtNotFound):
			uc.logger.Warn("GetBookedSlots: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrCourtNotFound, err)
		case errors.Is(err, domain.ErrLookup):
			uc.logger.Error("GetBookedSlots: lookup failed: %v", err)
			return nil, err
		default:
			uc.logger.Error("GetBookedSlots: failed for date=%s: %v", req.Date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	resp := &Response{Slots: make([]BookedSlot, 0)}
	for _, booked := range perCourt {
		resp.Slots = append(resp.Slots, booked...)
	}

	uc.logger.Info("GetBookedSlots: courts=%d date=%s booked=%d", len(courtIDs), req.Date.Format(domain.DateFormat), len(resp.Slots))
	return resp, nil
}

func validateRequest(req *Request) error {
	if len(req.CourtIDs) == 0 {
		return fmt.Errorf("%w: courtIds is required", ErrInvalidInput)
	}
	if len(req.CourtIDs) > MaxCourtsPerRequest {
		return fmt.Errorf("%w: at most %d courts per request", ErrInvalidInput, MaxCourtsPerRequest)
	}
	for _, id := range req.CourtIDs {
		if id <= 0 {
			return fmt.Errorf("%w: courtId must be positive, got %d", ErrInvalidInput, id)
		}
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// uniqueIDs убирает повторы, сохраняя порядок
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
