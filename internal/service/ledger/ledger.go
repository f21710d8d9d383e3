package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CourtBooking/pkg/metrics"
)

// Ledger единственная точка записи резерваций кортов
type Ledger struct {
	repo      ReservationRepository
	txManager TransactionManager
	locks     KeyLocker
	metrics   MetricsRecorder
	logger    Logger
}

// NewLedger создает новый экземпляр реестра резерваций
func NewLedger(
	repo ReservationRepository,
	txManager TransactionManager,
	locks KeyLocker,
	metrics MetricsRecorder,
	logger Logger,
) *Ledger {
	return &Ledger{
		repo:      repo,
		txManager: txManager,
		locks:     locks,
		metrics:   metrics,
		logger:    logger,
	}
}

// Reserve атомарно резервирует все слоты запроса или ни одного
//
// Записи по одной паре (корт, дата) сериализуются дважды: блокировкой в процессе
// и advisory-блокировкой в транзакции. Ограничение исключения в БД отсекает то,
// что прошло мимо обеих
//
// Повтор с тем же ownerRef и набором слотов возвращает уже созданную группу
func (l *Ledger) Reserve(ctx context.Context, req domain.ReserveRequest) (*domain.ReserveResult, error) {
	if err := validateRequest(req); err != nil {
		l.logger.Warn("Reserve: invalid request owner=%q: %v", req.OwnerRef, err)
		l.observe(metrics.OutcomeInvalid)
		return nil, err
	}

	key := req.IdempotencyKey()
	days := req.CourtDays()

	unlock := l.locks.LockAll(req.DayKeys())
	defer unlock()

	var result *domain.ReserveResult
	err := l.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		result = nil

		existing, err := l.repo.GetGroupByIdempotencyKey(ctx, key)
		if err == nil {
			result = &domain.ReserveResult{Group: existing, Replayed: true}
			return nil
		}
		if !errors.Is(err, reservationRepo.ErrGroupNotFound) {
			return err
		}

		for _, day := range days {
			if err := l.repo.LockCourtDay(ctx, day.CourtID, day.Date); err != nil {
				return err
			}
		}

		active, err := l.findActive(ctx, days)
		if err != nil {
			return err
		}

		conflicts, err := domain.ConflictingSlots(req.Items, active)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.NewConflictError(conflicts...)
		}

		created, err := l.repo.InsertReservations(ctx, newGroup(req, key))
		if err != nil {
			return err
		}

		result = &domain.ReserveResult{Group: created}
		return nil
	})

	if err != nil {
		return l.handleReserveError(ctx, req, key, days, err)
	}

	if result.Replayed {
		l.logger.Info("Reserve: replayed group=%s owner=%q", result.Group.ID, req.OwnerRef)
		l.observe(metrics.OutcomeReplayed)
	} else {
		l.logger.Info("Reserve: created group=%s owner=%q slots=%d", result.Group.ID, req.OwnerRef, len(result.Group.Reservations))
		l.observe(metrics.OutcomeCreated)
	}

	return result, nil
}

// handleReserveError переводит ошибку транзакции в ошибку реестра
// Срабатывание ограничения исключения или уникальности ключа разбирается повторным чтением
func (l *Ledger) handleReserveError(
	ctx context.Context,
	req domain.ReserveRequest,
	key string,
	days []domain.CourtDay,
	err error,
) (*domain.ReserveResult, error) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		l.logger.Warn("Reserve: conflict owner=%q: %v", req.OwnerRef, conflictErr)
		l.observe(metrics.OutcomeConflict)
		return nil, conflictErr
	}

	if errors.Is(err, reservationRepo.ErrOverlap) {
		conflicts := l.resolveConflicts(ctx, req, days)
		l.logger.Warn("Reserve: storage rejected overlapping slots owner=%q: %v", req.OwnerRef, err)
		l.observe(metrics.OutcomeConflict)
		return nil, domain.NewConflictError(conflicts...)
	}

	if errors.Is(err, reservationRepo.ErrDuplicateKey) {
		existing, getErr := l.repo.GetGroupByIdempotencyKey(ctx, key)
		if getErr == nil {
			l.logger.Info("Reserve: concurrent replay group=%s owner=%q", existing.ID, req.OwnerRef)
			l.observe(metrics.OutcomeReplayed)
			return &domain.ReserveResult{Group: existing, Replayed: true}, nil
		}
		err = fmt.Errorf("%v; reload by idempotency key: %v", err, getErr)
	}

	l.logger.Error("Reserve: commit failed owner=%q: %v", req.OwnerRef, err)
	l.observe(metrics.OutcomeFailed)
	return nil, fmt.Errorf("%w: Reserve: %v", domain.ErrCommit, err)
}

// resolveConflicts определяет конфликтующие слоты после отказа ограничения в БД
// Если повторное чтение не удалось или ничего не нашло, конфликтными считаются все слоты
func (l *Ledger) resolveConflicts(ctx context.Context, req domain.ReserveRequest, days []domain.CourtDay) []domain.TimeSlot {
	active, err := l.findActive(ctx, days)
	if err != nil {
		l.logger.Warn("Reserve: failed to reload conflicts owner=%q: %v", req.OwnerRef, err)
		return req.Items
	}

	conflicts, err := domain.ConflictingSlots(req.Items, active)
	if err != nil || len(conflicts) == 0 {
		return req.Items
	}
	return conflicts
}

func (l *Ledger) findActive(ctx context.Context, days []domain.CourtDay) ([]*domain.Reservation, error) {
	active := make([]*domain.Reservation, 0)
	for _, day := range days {
		found, err := l.repo.FindReservations(ctx, day.CourtID, day.Date, domain.ActiveStatuses)
		if err != nil {
			return nil, err
		}
		active = append(active, found...)
	}
	return active, nil
}

// Confirm переводит группу из pending в confirmed
// Повторное подтверждение возвращает группу без изменений, из cancelled подтвердить нельзя
func (l *Ledger) Confirm(ctx context.Context, groupID uuid.UUID) (*domain.ReservationGroup, error) {
	group, err := l.transition(ctx, groupID, domain.StatusConfirmed, false)
	if err != nil {
		return nil, err
	}
	l.logger.Info("Confirm: group=%s confirmed", groupID)
	return group, nil
}

// Cancel переводит все резервации группы в cancelled
// Отмена уже отмененной группы успешна
func (l *Ledger) Cancel(ctx context.Context, groupID uuid.UUID) (*domain.ReservationGroup, error) {
	group, err := l.transition(ctx, groupID, domain.StatusCancelled, false)
	if err != nil {
		return nil, err
	}
	l.logger.Info("Cancel: group=%s cancelled", groupID)
	return group, nil
}

// ExpirePending отменяет группу, только если она всё ещё в статусе pending
// Возвращает false, если группа уже подтверждена или отменена
func (l *Ledger) ExpirePending(ctx context.Context, groupID uuid.UUID) (bool, error) {
	group, err := l.transition(ctx, groupID, domain.StatusCancelled, true)
	if err != nil {
		return false, err
	}
	return group != nil, nil
}

// GetGroup получает группу вместе с резервациями
func (l *Ledger) GetGroup(ctx context.Context, groupID uuid.UUID) (*domain.ReservationGroup, error) {
	group, err := l.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrGroupNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
		}
		l.logger.Error("GetGroup: repository error for group=%s: %v", groupID, err)
		return nil, fmt.Errorf("%w: GetGroup: %v", domain.ErrLookup, err)
	}
	return group, nil
}

// transition меняет статус группы в транзакции
// При onlyPending группа не в статусе pending пропускается и возвращается nil
func (l *Ledger) transition(ctx context.Context, groupID uuid.UUID, next domain.ReservationStatus, onlyPending bool) (*domain.ReservationGroup, error) {
	var group *domain.ReservationGroup

	err := l.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		group = nil

		current, err := l.repo.GetGroupByID(ctx, groupID)
		if err != nil {
			return err
		}

		if onlyPending && current.Status != domain.StatusPending {
			return nil
		}
		if !current.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, next)
		}

		if current.Status != next {
			if err := l.repo.UpdateStatus(ctx, groupID, next); err != nil {
				return err
			}
			current.Status = next
			for _, r := range current.Reservations {
				r.Status = next
			}
		}

		group = current
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrGroupNotFound):
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
		case errors.Is(err, domain.ErrInvalidTransition):
			l.logger.Warn("transition: group=%s: %v", groupID, err)
			return nil, err
		default:
			l.logger.Error("transition: group=%s to %s failed: %v", groupID, next, err)
			return nil, fmt.Errorf("%w: %s group %s: %v", domain.ErrCommit, next, groupID, err)
		}
	}

	return group, nil
}

func (l *Ledger) observe(outcome string) {
	if l.metrics != nil {
		l.metrics.ObserveReservation(outcome)
	}
}

func newGroup(req domain.ReserveRequest, key string) *domain.ReservationGroup {
	reservations := make([]*domain.Reservation, 0, len(req.Items))
	for _, item := range req.Items {
		reservations = append(reservations, &domain.Reservation{
			CourtID:   item.CourtID,
			Date:      domain.NormalizeDate(item.Date),
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			Price:     item.Price,
			OwnerRef:  req.OwnerRef,
			Status:    domain.StatusPending,
		})
	}

	return &domain.ReservationGroup{
		ID:             uuid.New(),
		OwnerRef:       req.OwnerRef,
		IdempotencyKey: key,
		Status:         domain.StatusPending,
		Reservations:   reservations,
	}
}
