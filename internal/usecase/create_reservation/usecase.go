package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
)

// UseCase use case резервирования слотов кортов
type UseCase struct {
	courtRepo    CourtRepository
	ledger       Ledger
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(courtRepo CourtRepository, ledger Ledger, logger Logger) *UseCase {
	return &UseCase{
		courtRepo:    courtRepo,
		ledger:       ledger,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute сопоставляет выбранные слоты с сеткой кортов и резервирует их одной группой
// Ошибки ledger (ConflictError, ErrCommit) возвращаются без изменений
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: owner=%q items=%d", req.OwnerRef, len(req.Items))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Слоты берутся из сетки: конец и цена не доверяются клиенту
	slots, err := uc.resolveSlots(ctx, req, now)
	if err != nil {
		return nil, err
	}

	// 3. Атомарная запись
	result, err := uc.ledger.Reserve(ctx, domain.ReserveRequest{OwnerRef: req.OwnerRef, Items: slots})
	if err != nil {
		return nil, err
	}

	return &Response{Group: result.Group, Replayed: result.Replayed}, nil
}

func (uc *UseCase) resolveSlots(ctx context.Context, req *Request, now time.Time) ([]domain.TimeSlot, error) {
	grids := make(map[string][]domain.TimeSlot)
	courts := make(map[int64]*domain.Court)
	slots := make([]domain.TimeSlot, 0, len(req.Items))

	for i, item := range req.Items {
		if isDateInPast(item.Date, now) {
			return nil, fmt.Errorf("%w: item %d: %s", ErrInvalidDate, i, item.Date.Format(domain.DateFormat))
		}

		court, ok := courts[item.CourtID]
		if !ok {
			var err error
			court, err = uc.courtRepo.GetCourtConfig(ctx, item.CourtID)
			if err != nil {
				if errors.Is(err, courtRepo.ErrCourtNotFound) {
					uc.logger.Warn("CreateReservation: court=%d not found", item.CourtID)
					return nil, fmt.Errorf("%w: %d", ErrCourtNotFound, item.CourtID)
				}
				uc.logger.Error("CreateReservation: failed to load court=%d: %v", item.CourtID, err)
				return nil, fmt.Errorf("%w: court %d: %v", domain.ErrLookup, item.CourtID, err)
			}
			courts[item.CourtID] = court
		}

		if !court.Active {
			return nil, fmt.Errorf("%w: %d", ErrCourtInactive, court.ID)
		}

		dayKey := domain.CourtDayKey(court.ID, item.Date)
		grid, ok := grids[dayKey]
		if !ok {
			var err error
			grid, err = domain.GenerateSlots(court, item.Date)
			if err != nil {
				uc.logger.Error("CreateReservation: invalid grid for court=%d: %v", court.ID, err)
				return nil, fmt.Errorf("%w: %v", ErrInternal, err)
			}
			grids[dayKey] = grid
		}

		slot, ok := domain.FindSlot(grid, item.StartTime)
		if !ok {
			return nil, fmt.Errorf("%w: court %d %s %s", ErrInvalidTimeSlot, court.ID, item.Date.Format(domain.DateFormat), item.StartTime)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}
