package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CourtBooking/pkg/keylock"
	"github.com/m04kA/SMC-CourtBooking/pkg/metrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

var testDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// memoryRepo хранилище резерваций в памяти
// Insert*Func и Find*Func позволяют подменить поведение отдельных методов
type memoryRepo struct {
	mu     sync.Mutex
	groups map[uuid.UUID]*domain.ReservationGroup
	nextID int64
	locked []string

	InsertReservationsFunc func(ctx context.Context, group *domain.ReservationGroup) (*domain.ReservationGroup, error)
	FindReservationsFunc   func(ctx context.Context, courtID int64, date time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)
	UpdateStatusFunc       func(ctx context.Context, groupID uuid.UUID, status domain.ReservationStatus) error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{groups: make(map[uuid.UUID]*domain.ReservationGroup)}
}

func (m *memoryRepo) FindReservations(ctx context.Context, courtID int64, date time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	if m.FindReservationsFunc != nil {
		return m.FindReservationsFunc(ctx, courtID, date, statuses)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Reservation, 0)
	for _, g := range m.groups {
		for _, r := range g.Reservations {
			if r.CourtID != courtID || !r.Date.Equal(date) {
				continue
			}
			for _, s := range statuses {
				if r.Status == s {
					cp := *r
					out = append(out, &cp)
				}
			}
		}
	}
	return out, nil
}

func (m *memoryRepo) InsertReservations(ctx context.Context, group *domain.ReservationGroup) (*domain.ReservationGroup, error) {
	if m.InsertReservationsFunc != nil {
		return m.InsertReservationsFunc(ctx, group)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range m.groups {
		if g.IdempotencyKey == group.IdempotencyKey {
			return nil, reservationRepo.ErrDuplicateKey
		}
	}
	now := time.Now()
	group.CreatedAt, group.UpdatedAt = now, now
	for _, r := range group.Reservations {
		m.nextID++
		r.ID = m.nextID
		r.GroupID = group.ID
	}
	m.groups[group.ID] = group
	return group, nil
}

func (m *memoryRepo) GetGroupByID(_ context.Context, id uuid.UUID) (*domain.ReservationGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[id]
	if !ok {
		return nil, reservationRepo.ErrGroupNotFound
	}
	return cloneGroup(g), nil
}

func (m *memoryRepo) GetGroupByIdempotencyKey(_ context.Context, key string) (*domain.ReservationGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range m.groups {
		if g.IdempotencyKey == key {
			return cloneGroup(g), nil
		}
	}
	return nil, reservationRepo.ErrGroupNotFound
}

func (m *memoryRepo) UpdateStatus(ctx context.Context, groupID uuid.UUID, status domain.ReservationStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, groupID, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[groupID]
	if !ok {
		return reservationRepo.ErrGroupNotFound
	}
	g.Status = status
	for _, r := range g.Reservations {
		r.Status = status
	}
	return nil
}

func (m *memoryRepo) LockCourtDay(_ context.Context, courtID int64, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked = append(m.locked, domain.CourtDayKey(courtID, date))
	return nil
}

func (m *memoryRepo) reservationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, g := range m.groups {
		n += len(g.Reservations)
	}
	return n
}

func cloneGroup(g *domain.ReservationGroup) *domain.ReservationGroup {
	cp := *g
	cp.Reservations = make([]*domain.Reservation, 0, len(g.Reservations))
	for _, r := range g.Reservations {
		rc := *r
		cp.Reservations = append(cp.Reservations, &rc)
	}
	return &cp
}

// directTx выполняет функцию без транзакции
// Состояния нет, поэтому безопасен для параллельных Reserve
type directTx struct{}

func (directTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (r *recordingMetrics) ObserveReservation(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = make(map[string]int)
	}
	r.outcomes[outcome]++
}

func (r *recordingMetrics) count(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[outcome]
}

func newTestLedger(repo *memoryRepo) (*Ledger, *recordingMetrics) {
	rec := &recordingMetrics{}
	return NewLedger(repo, directTx{}, keylock.New(), rec, nopLogger{}), rec
}

func slot(courtID int64, start, end string) domain.TimeSlot {
	return domain.TimeSlot{
		CourtID:   courtID,
		Date:      testDate,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
		Price:     1000,
	}
}

func TestReserve_CreatesPendingGroup(t *testing.T) {
	repo := newMemoryRepo()
	l, rec := newTestLedger(repo)

	res, err := l.Reserve(context.Background(), domain.ReserveRequest{
		OwnerRef: "order-1",
		Items:    []domain.TimeSlot{slot(2, "10:00", "11:00"), slot(1, "10:00", "11:00")},
	})
	require.NoError(t, err)

	assert.False(t, res.Replayed)
	assert.Equal(t, domain.StatusPending, res.Group.Status)
	require.Len(t, res.Group.Reservations, 2)
	for _, r := range res.Group.Reservations {
		assert.Equal(t, "order-1", r.OwnerRef)
		assert.Equal(t, res.Group.ID, r.GroupID)
		assert.Equal(t, domain.StatusPending, r.Status)
	}
	assert.Equal(t, int64(2000), res.Group.TotalPrice())
	assert.Equal(t, []string{"court:1:2025-06-01", "court:2:2025-06-01"}, repo.locked, "court days are locked in sorted order")
	assert.Equal(t, 1, rec.count(metrics.OutcomeCreated))
}

// Два одновременных запроса на пересекающиеся слоты: ровно один успешен
func TestReserve_ConcurrentOverlappingRequests(t *testing.T) {
	repo := newMemoryRepo()
	l, rec := newTestLedger(repo)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts []*domain.ConflictError
	)

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			item := slot(7, "10:00", "11:00")
			if i%2 == 1 {
				item = slot(7, "10:30", "11:30")
			}
			_, err := l.Reserve(context.Background(), domain.ReserveRequest{
				OwnerRef: uuid.NewString(),
				Items:    []domain.TimeSlot{item},
			})

			mu.Lock()
			defer mu.Unlock()
			var ce *domain.ConflictError
			switch {
			case err == nil:
				successes++
			case errors.As(err, &ce):
				conflicts = append(conflicts, ce)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Len(t, conflicts, workers-1)
	assert.Equal(t, 1, repo.reservationCount())
	assert.Equal(t, workers-1, rec.count(metrics.OutcomeConflict))
}

// Два пользователя выбрали один и тот же слот и одновременно оформляют заказ
func TestReserve_SameSlotTwoCheckouts(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, owner := range []string{"order-alice", "order-bob"} {
		wg.Add(1)
		go func(i int, owner string) {
			defer wg.Done()
			_, errs[i] = l.Reserve(context.Background(), domain.ReserveRequest{
				OwnerRef: owner,
				Items:    []domain.TimeSlot{slot(3, "10:00", "11:00")},
			})
		}(i, owner)
	}
	wg.Wait()

	var failed error
	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			failed = err
		}
	}
	require.Equal(t, 1, okCount)
	require.Error(t, failed)

	var ce *domain.ConflictError
	require.ErrorAs(t, failed, &ce)
	assert.Contains(t, failed.Error(), "10:00-11:00 already reserved")
	require.Len(t, ce.Conflicts, 1)
	assert.Equal(t, "10:00-11:00", ce.Conflicts[0].Slot.Range())
}

func TestReserve_IdempotentRetry(t *testing.T) {
	repo := newMemoryRepo()
	l, rec := newTestLedger(repo)

	req := domain.ReserveRequest{
		OwnerRef: "order-1",
		Items:    []domain.TimeSlot{slot(1, "10:00", "11:00"), slot(1, "11:00", "12:00")},
	}

	first, err := l.Reserve(context.Background(), req)
	require.NoError(t, err)

	req.Items[0], req.Items[1] = req.Items[1], req.Items[0]
	second, err := l.Reserve(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Group.ID, second.Group.ID)
	assert.Len(t, repo.groups, 1)
	assert.Equal(t, 2, repo.reservationCount())
	assert.Equal(t, 1, rec.count(metrics.OutcomeReplayed))
}

func TestReserve_AllOrNothing(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)

	_, err := l.Reserve(context.Background(), domain.ReserveRequest{
		OwnerRef: "order-1",
		Items:    []domain.TimeSlot{slot(1, "12:00", "13:00")},
	})
	require.NoError(t, err)

	_, err = l.Reserve(context.Background(), domain.ReserveRequest{
		OwnerRef: "order-2",
		Items: []domain.TimeSlot{
			slot(1, "10:00", "11:00"),
			slot(1, "12:00", "13:00"),
			slot(2, "12:00", "13:00"),
		},
	})

	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Len(t, ce.Conflicts, 1)
	assert.Equal(t, int64(1), ce.Conflicts[0].Slot.CourtID)
	assert.Equal(t, "12:00-13:00", ce.Conflicts[0].Slot.Range())
	assert.Equal(t, domain.ReasonAlreadyReserved, ce.Conflicts[0].Reason)
	assert.Equal(t, 1, repo.reservationCount(), "no slot of the rejected batch is committed")
}

func TestReserve_CancelledSlotCanBeReservedAgain(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)

	first, err := l.Reserve(context.Background(), domain.ReserveRequest{OwnerRef: "order-1", Items: []domain.TimeSlot{slot(1, "10:00", "11:00")}})
	require.NoError(t, err)
	_, err = l.Cancel(context.Background(), first.Group.ID)
	require.NoError(t, err)

	second, err := l.Reserve(context.Background(), domain.ReserveRequest{OwnerRef: "order-2", Items: []domain.TimeSlot{slot(1, "10:00", "11:00")}})
	require.NoError(t, err)
	assert.NotEqual(t, first.Group.ID, second.Group.ID)
}

func TestReserve_InvalidInput(t *testing.T) {
	tooMany := make([]domain.TimeSlot, 0, domain.MaxItemsPerReservation+1)
	for i := 0; i <= domain.MaxItemsPerReservation; i++ {
		tooMany = append(tooMany, slot(int64(i+1), "10:00", "11:00"))
	}

	tests := []struct {
		name string
		req  domain.ReserveRequest
	}{
		{name: "empty owner", req: domain.ReserveRequest{Items: []domain.TimeSlot{slot(1, "10:00", "11:00")}}},
		{name: "no items", req: domain.ReserveRequest{OwnerRef: "order-1"}},
		{name: "inverted slot", req: domain.ReserveRequest{OwnerRef: "order-1", Items: []domain.TimeSlot{slot(1, "11:00", "10:00")}}},
		{name: "overlapping items", req: domain.ReserveRequest{OwnerRef: "order-1", Items: []domain.TimeSlot{slot(1, "10:00", "11:00"), slot(1, "10:30", "11:30")}}},
		{name: "duplicate items", req: domain.ReserveRequest{OwnerRef: "order-1", Items: []domain.TimeSlot{slot(1, "10:00", "11:00"), slot(1, "10:00", "11:00")}}},
		{name: "too many items", req: domain.ReserveRequest{OwnerRef: "order-1", Items: tooMany}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepo()
			l, rec := newTestLedger(repo)

			_, err := l.Reserve(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.locked)
			assert.Equal(t, 1, rec.count(metrics.OutcomeInvalid))
		})
	}
}

func TestReserve_StorageExclusionBecomesConflict(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)

	other := slot(1, "10:00", "11:00")
	calls := 0
	repo.FindReservationsFunc = func(context.Context, int64, time.Time, []domain.ReservationStatus) ([]*domain.Reservation, error) {
		calls++
		if calls == 1 {
			return nil, nil
		}
		// к моменту повторного чтения другой процесс уже занял слот
		return []*domain.Reservation{{CourtID: other.CourtID, Date: other.Date, StartTime: other.StartTime, EndTime: other.EndTime, Status: domain.StatusPending}}, nil
	}
	repo.InsertReservationsFunc = func(context.Context, *domain.ReservationGroup) (*domain.ReservationGroup, error) {
		return nil, reservationRepo.ErrOverlap
	}

	_, err := l.Reserve(context.Background(), domain.ReserveRequest{
		OwnerRef: "order-1",
		Items:    []domain.TimeSlot{slot(1, "10:00", "11:00"), slot(1, "11:00", "12:00")},
	})

	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Len(t, ce.Conflicts, 1)
	assert.Equal(t, "10:00-11:00", ce.Conflicts[0].Slot.Range())
}

func TestReserve_ConcurrentDuplicateKeyReplays(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)

	req := domain.ReserveRequest{OwnerRef: "order-1", Items: []domain.TimeSlot{slot(1, "10:00", "11:00")}}
	existing := newGroup(req, req.IdempotencyKey())
	repo.InsertReservationsFunc = func(context.Context, *domain.ReservationGroup) (*domain.ReservationGroup, error) {
		// другой экземпляр сервиса успел вставить группу с тем же ключом
		repo.mu.Lock()
		repo.groups[existing.ID] = existing
		repo.mu.Unlock()
		return nil, reservationRepo.ErrDuplicateKey
	}

	res, err := l.Reserve(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, existing.ID, res.Group.ID)
}

func TestReserve_CommitFailure(t *testing.T) {
	repo := newMemoryRepo()
	l, rec := newTestLedger(repo)

	repo.InsertReservationsFunc = func(context.Context, *domain.ReservationGroup) (*domain.ReservationGroup, error) {
		return nil, errors.New("connection reset by peer")
	}

	_, err := l.Reserve(context.Background(), domain.ReserveRequest{OwnerRef: "order-1", Items: []domain.TimeSlot{slot(1, "10:00", "11:00")}})
	assert.ErrorIs(t, err, domain.ErrCommit)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, rec.count(metrics.OutcomeFailed))
}

func TestReserve_LookupFailureIsNotAConflict(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)

	repo.FindReservationsFunc = func(context.Context, int64, time.Time, []domain.ReservationStatus) ([]*domain.Reservation, error) {
		return nil, errors.New("timeout")
	}

	_, err := l.Reserve(context.Background(), domain.ReserveRequest{OwnerRef: "order-1", Items: []domain.TimeSlot{slot(1, "10:00", "11:00")}})
	assert.ErrorIs(t, err, domain.ErrCommit)
	assert.Equal(t, 0, repo.reservationCount())
}

func reserveOne(t *testing.T, l *Ledger) *domain.ReservationGroup {
	t.Helper()
	res, err := l.Reserve(context.Background(), domain.ReserveRequest{
		OwnerRef: uuid.NewString(),
		Items:    []domain.TimeSlot{slot(1, "10:00", "11:00"), slot(1, "11:00", "12:00")},
	})
	require.NoError(t, err)
	return res.Group
}

func TestConfirm(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)
	group := reserveOne(t, l)

	confirmed, err := l.Confirm(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)
	for _, r := range confirmed.Reservations {
		assert.Equal(t, domain.StatusConfirmed, r.Status)
	}

	again, err := l.Confirm(context.Background(), group.ID)
	require.NoError(t, err, "confirm is idempotent")
	assert.Equal(t, domain.StatusConfirmed, again.Status)
}

func TestConfirm_FromCancelled(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)
	group := reserveOne(t, l)

	_, err := l.Cancel(context.Background(), group.ID)
	require.NoError(t, err)

	_, err = l.Confirm(context.Background(), group.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)
	group := reserveOne(t, l)

	_, err := l.Confirm(context.Background(), group.ID)
	require.NoError(t, err)

	cancelled, err := l.Cancel(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	updates := 0
	repo.UpdateStatusFunc = func(context.Context, uuid.UUID, domain.ReservationStatus) error {
		updates++
		return nil
	}
	again, err := l.Cancel(context.Background(), group.ID)
	require.NoError(t, err, "cancel is idempotent")
	assert.Equal(t, domain.StatusCancelled, again.Status)
	assert.Equal(t, 0, updates, "no write for an already cancelled group")
}

func TestTransitions_UnknownGroup(t *testing.T) {
	l, _ := newTestLedger(newMemoryRepo())

	_, err := l.Cancel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = l.Confirm(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = l.GetGroup(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestCancel_StorageFailure(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)
	group := reserveOne(t, l)

	repo.UpdateStatusFunc = func(context.Context, uuid.UUID, domain.ReservationStatus) error {
		return errors.New("disk full")
	}

	_, err := l.Cancel(context.Background(), group.ID)
	assert.ErrorIs(t, err, domain.ErrCommit)
}

func TestExpirePending(t *testing.T) {
	repo := newMemoryRepo()
	l, _ := newTestLedger(repo)

	pending := reserveOne(t, l)
	expired, err := l.ExpirePending(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.True(t, expired)

	got, err := l.GetGroup(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)

	// подтвержденная до обхода группа не отменяется
	res, err := l.Reserve(context.Background(), domain.ReserveRequest{OwnerRef: "order-paid", Items: []domain.TimeSlot{slot(2, "10:00", "11:00")}})
	require.NoError(t, err)
	_, err = l.Confirm(context.Background(), res.Group.ID)
	require.NoError(t, err)

	expired, err = l.ExpirePending(context.Background(), res.Group.ID)
	require.NoError(t, err)
	assert.False(t, expired)

	got, err = l.GetGroup(context.Background(), res.Group.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}
