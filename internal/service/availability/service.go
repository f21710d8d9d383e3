package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
)

// Service вычисляет занятость сетки слотов корта
type Service struct {
	reservationRepo ReservationRepository
	courtRepo       CourtRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(reservationRepo ReservationRepository, courtRepo CourtRepository, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		courtRepo:       courtRepo,
		logger:          logger,
	}
}

// ComputeAvailability размечает каждый слот сетки как available или booked
// Слот занят, если пересекается хотя бы с одной активной резервацией
// Для неактивного корта сетка пустая
//
// Ошибка хранилища возвращается как domain.ErrLookup: без данных о резервациях
// ни один слот не считается свободным
func (s *Service) ComputeAvailability(ctx context.Context, court *domain.Court, date time.Time) ([]domain.SlotAvailability, error) {
	slots, err := domain.GenerateSlots(court, date)
	if err != nil {
		s.logger.Warn("ComputeAvailability: invalid config for court=%d: %v", court.ID, err)
		return nil, err
	}

	// Закрытый корт или площадка не предлагает слотов, как и пустое окно работы
	if !court.Active {
		return []domain.SlotAvailability{}, nil
	}

	result := make([]domain.SlotAvailability, 0, len(slots))
	if len(slots) == 0 {
		return result, nil
	}

	day := domain.NormalizeDate(date)
	reservations, err := s.reservationRepo.FindReservations(ctx, court.ID, day, domain.ActiveStatuses)
	if err != nil {
		s.logger.Error("ComputeAvailability: lookup failed for court=%d date=%s: %v", court.ID, day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: court %d date %s: %v", domain.ErrLookup, court.ID, day.Format(domain.DateFormat), err)
	}

	intervals, err := domain.ActiveIntervals(reservations)
	if err != nil {
		s.logger.Error("ComputeAvailability: malformed reservation for court=%d: %v", court.ID, err)
		return nil, fmt.Errorf("%w: court %d: %v", domain.ErrLookup, court.ID, err)
	}

	for _, slot := range slots {
		iv, err := slot.Interval()
		if err != nil {
			return nil, fmt.Errorf("%w: court %d: %v", domain.ErrInvalidCourtConfig, court.ID, err)
		}

		status := domain.SlotAvailable
		if domain.OverlapsAny(iv, intervals) {
			status = domain.SlotBooked
		}
		result = append(result, domain.SlotAvailability{Slot: slot, Status: status})
	}

	return result, nil
}

// ComputeForCourt загружает конфигурацию корта и вычисляет его доступность на дату
func (s *Service) ComputeForCourt(ctx context.Context, courtID int64, date time.Time) (*domain.Court, []domain.SlotAvailability, error) {
	court, err := s.courtRepo.GetCourtConfig(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("ComputeForCourt: court=%d not found", courtID)
			return nil, nil, fmt.Errorf("%w: %d", ErrCourtNotFound, courtID)
		}
		s.logger.Error("ComputeForCourt: failed to load court=%d: %v", courtID, err)
		return nil, nil, fmt.Errorf("%w: court %d config: %v", domain.ErrLookup, courtID, err)
	}

	availability, err := s.ComputeAvailability(ctx, court, date)
	if err != nil {
		return nil, nil, err
	}

	return court, availability, nil
}
