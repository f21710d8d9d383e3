package court

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

var courtColumns = []string{"id", "venue_id", "name", "operating_start", "operating_end", "session_duration_minutes", "price_per_session", "active"}

func TestRepository_GetCourtConfig(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(c.operating_start, v.operating_start)")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(courtColumns).
			AddRow(int64(7), int64(2), "Корт 7", "06:00:00", "23:00:00", 90, int64(150000), true))

	court, err := NewRepository(db).GetCourtConfig(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, &domain.Court{
		ID:                     7,
		VenueID:                2,
		Name:                   "Корт 7",
		OperatingStart:         types.TimeString("06:00"),
		OperatingEnd:           types.TimeString("23:00"),
		SessionDurationMinutes: 90,
		PricePerSession:        150000,
		Active:                 true,
	}, court)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetCourtConfig_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM courts c").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(courtColumns))

	_, err = NewRepository(db).GetCourtConfig(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestRepository_GetCourtConfig_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM courts c").WillReturnError(errors.New("connection reset"))

	_, err = NewRepository(db).GetCourtConfig(context.Background(), 1)
	assert.ErrorIs(t, err, ErrScanRow)
	assert.NotErrorIs(t, err, ErrCourtNotFound)
}
