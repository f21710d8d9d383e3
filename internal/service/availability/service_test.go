package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
)

var testDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type mockReservationRepo struct {
	FindReservationsFunc func(ctx context.Context, courtID int64, date time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)
	calls                int
}

func (m *mockReservationRepo) FindReservations(ctx context.Context, courtID int64, date time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	m.calls++
	return m.FindReservationsFunc(ctx, courtID, date, statuses)
}

type mockCourtRepo struct {
	GetCourtConfigFunc func(ctx context.Context, courtID int64) (*domain.Court, error)
}

func (m *mockCourtRepo) GetCourtConfig(ctx context.Context, courtID int64) (*domain.Court, error) {
	return m.GetCourtConfigFunc(ctx, courtID)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func hourlyCourt() *domain.Court {
	return &domain.Court{
		ID:                     1,
		OperatingStart:         "08:00",
		OperatingEnd:           "22:00",
		SessionDurationMinutes: 60,
		PricePerSession:        1000,
		Active:                 true,
	}
}

func bookedRanges(items []domain.SlotAvailability) []string {
	out := make([]string, 0)
	for _, it := range items {
		if it.IsBooked() {
			out = append(out, it.Slot.Range())
		}
	}
	return out
}

func TestComputeAvailability_ShiftedReservation(t *testing.T) {
	repo := &mockReservationRepo{
		FindReservationsFunc: func(_ context.Context, courtID int64, date time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
			assert.Equal(t, int64(1), courtID)
			assert.Equal(t, testDate, date)
			assert.ElementsMatch(t, domain.ActiveStatuses, statuses)
			return []*domain.Reservation{
				{ID: 1, CourtID: 1, Date: testDate, StartTime: "10:30", EndTime: "11:30", Status: domain.StatusConfirmed},
			}, nil
		},
	}
	svc := NewService(repo, nil, nopLogger{})

	got, err := svc.ComputeAvailability(context.Background(), hourlyCourt(), testDate.Add(15*time.Hour))
	require.NoError(t, err)

	require.Len(t, got, 14)
	// Резервация 10:30-11:30 задевает оба соседних часовых слота
	assert.Equal(t, []string{"10:00-11:00", "11:00-12:00"}, bookedRanges(got))
	assert.Equal(t, 1, repo.calls)
}

func TestComputeAvailability_TouchingIsNotBooked(t *testing.T) {
	repo := &mockReservationRepo{
		FindReservationsFunc: func(context.Context, int64, time.Time, []domain.ReservationStatus) ([]*domain.Reservation, error) {
			return []*domain.Reservation{
				{CourtID: 1, Date: testDate, StartTime: "09:00", EndTime: "10:00", Status: domain.StatusPending},
			}, nil
		},
	}

	got, err := NewService(repo, nil, nopLogger{}).ComputeAvailability(context.Background(), hourlyCourt(), testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00-10:00"}, bookedRanges(got))
}

func TestComputeAvailability_ConfirmedAndCancelled(t *testing.T) {
	repo := &mockReservationRepo{
		FindReservationsFunc: func(context.Context, int64, time.Time, []domain.ReservationStatus) ([]*domain.Reservation, error) {
			return []*domain.Reservation{
				{CourtID: 1, Date: testDate, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
				{CourtID: 1, Date: testDate, StartTime: "14:00", EndTime: "15:00", Status: domain.StatusCancelled},
			}, nil
		},
	}

	got, err := NewService(repo, nil, nopLogger{}).ComputeAvailability(context.Background(), hourlyCourt(), testDate)
	require.NoError(t, err)

	statuses := make(map[string]domain.SlotStatus, len(got))
	for _, it := range got {
		statuses[it.Slot.Range()] = it.Status
	}
	assert.Equal(t, domain.SlotBooked, statuses["10:00-11:00"])
	assert.Equal(t, domain.SlotAvailable, statuses["14:00-15:00"])
	assert.Equal(t, []string{"10:00-11:00"}, bookedRanges(got))
}

func TestComputeAvailability_LookupFailureFailsClosed(t *testing.T) {
	repo := &mockReservationRepo{
		FindReservationsFunc: func(context.Context, int64, time.Time, []domain.ReservationStatus) ([]*domain.Reservation, error) {
			return nil, errors.New("connection refused")
		},
	}

	got, err := NewService(repo, nil, nopLogger{}).ComputeAvailability(context.Background(), hourlyCourt(), testDate)
	assert.ErrorIs(t, err, domain.ErrLookup)
	assert.Nil(t, got)
}

func TestComputeAvailability_EmptyWindowSkipsLookup(t *testing.T) {
	repo := &mockReservationRepo{}
	court := hourlyCourt()
	court.OperatingStart, court.OperatingEnd = "22:00", "08:00"

	got, err := NewService(repo, nil, nopLogger{}).ComputeAvailability(context.Background(), court, testDate)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, repo.calls)
}

func TestComputeAvailability_InactiveCourtHasNoSlots(t *testing.T) {
	repo := &mockReservationRepo{}
	court := hourlyCourt()
	court.Active = false

	got, err := NewService(repo, nil, nopLogger{}).ComputeAvailability(context.Background(), court, testDate)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got, "inactive court must not advertise available slots")
	assert.Equal(t, 0, repo.calls)
}

func TestComputeAvailability_InvalidConfig(t *testing.T) {
	court := hourlyCourt()
	court.SessionDurationMinutes = 0

	_, err := NewService(&mockReservationRepo{}, nil, nopLogger{}).ComputeAvailability(context.Background(), court, testDate)
	assert.ErrorIs(t, err, domain.ErrInvalidCourtConfig)
}

func TestComputeForCourt(t *testing.T) {
	reservations := &mockReservationRepo{
		FindReservationsFunc: func(context.Context, int64, time.Time, []domain.ReservationStatus) ([]*domain.Reservation, error) {
			return nil, nil
		},
	}

	t.Run("loads court config", func(t *testing.T) {
		courts := &mockCourtRepo{GetCourtConfigFunc: func(_ context.Context, id int64) (*domain.Court, error) {
			c := hourlyCourt()
			c.ID = id
			return c, nil
		}}
		court, got, err := NewService(reservations, courts, nopLogger{}).ComputeForCourt(context.Background(), 5, testDate)
		require.NoError(t, err)
		assert.Equal(t, int64(5), court.ID)
		assert.Len(t, got, 14)
	})

	t.Run("court not found", func(t *testing.T) {
		courts := &mockCourtRepo{GetCourtConfigFunc: func(context.Context, int64) (*domain.Court, error) {
			return nil, courtRepo.ErrCourtNotFound
		}}
		_, _, err := NewService(reservations, courts, nopLogger{}).ComputeForCourt(context.Background(), 5, testDate)
		assert.ErrorIs(t, err, ErrCourtNotFound)
	})

	t.Run("config lookup failure", func(t *testing.T) {
		courts := &mockCourtRepo{GetCourtConfigFunc: func(context.Context, int64) (*domain.Court, error) {
			return nil, errors.New("timeout")
		}}
		_, _, err := NewService(reservations, courts, nopLogger{}).ComputeForCourt(context.Background(), 5, testDate)
		assert.ErrorIs(t, err, domain.ErrLookup)
	})
}
