package court

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
)

// Repository репозиторий конфигурации кортов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCourtConfig получает корт вместе с окном работы
// Если у корта окно не задано, оно наследуется от площадки
// Сама конфигурация не проверяется: некорректные значения отсекает domain.GenerateSlots
func (r *Repository) GetCourtConfig(ctx context.Context, courtID int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"c.id",
		"c.venue_id",
		"c.name",
		"COALESCE(c.operating_start, v.operating_start)",
		"COALESCE(c.operating_end, v.operating_end)",
		"c.session_duration_minutes",
		"c.price_per_session",
		"c.is_active AND v.is_active",
	).
		From("courts c").
		Join("venues v ON v.id = c.venue_id").
		Where(squirrel.Eq{"c.id": courtID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCourtConfig - build select query: %v", ErrBuildQuery, err)
	}

	var court domain.Court
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&court.ID,
		&court.VenueID,
		&court.Name,
		&court.OperatingStart,
		&court.OperatingEnd,
		&court.SessionDurationMinutes,
		&court.PricePerSession,
		&court.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCourtConfig - scan court: %v", ErrScanRow, err)
	}

	return &court, nil
}
