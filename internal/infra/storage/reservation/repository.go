package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
)

const (
	tableGroups       = "reservation_groups"
	tableReservations = "reservations"
)

var reservationColumns = []string{
	"id",
	"group_id",
	"court_id",
	"booking_date",
	"start_time",
	"end_time",
	"price",
	"owner_ref",
	"status",
	"created_at",
	"updated_at",
}

var groupColumns = []string{
	"id",
	"owner_ref",
	"idempotency_key",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий резерваций кортов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резерваций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindReservations получает резервации корта на дату с указанными статусами
// Один запрос по ключу (court_id, booking_date)
//
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы проверка пересечений
// и вставка шли в одной границе изоляции
func (r *Repository) FindReservations(ctx context.Context, courtID int64, date time.Time, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Eq{"booking_date": domain.NormalizeDate(date)}).
		OrderBy("start_time ASC")

	if len(statuses) > 0 {
		statusStrings := make([]string, len(statuses))
		for i, s := range statuses {
			statusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindReservations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapExecError(err, ErrExecQuery, "FindReservations - execute query")
	}
	defer rows.Close()

	return scanReservations(rows)
}

// InsertReservations сохраняет группу и все её резервации
// Если транзакции в контексте нет, открывает собственную: группа видна целиком или не видна вовсе
//
// Пересечение с уже занятым слотом отсекается ограничением исключения в БД и возвращается как ErrOverlap
func (r *Repository) InsertReservations(ctx context.Context, group *domain.ReservationGroup) (*domain.ReservationGroup, error) {
	if dbmetrics.IsInTransaction(ctx) {
		return r.insertGroup(ctx, group)
	}

	beginner, ok := r.db.(TxBeginner)
	if !ok {
		return nil, fmt.Errorf("%w: InsertReservations - db does not support transactions", ErrTransaction)
	}

	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: InsertReservations - begin: %v", ErrTransaction, err)
	}

	created, err := r.insertGroup(dbmetrics.WithTx(ctx, tx), group)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, mapExecError(err, ErrTransaction, "InsertReservations - commit")
	}

	return created, nil
}

func (r *Repository) insertGroup(ctx context.Context, group *domain.ReservationGroup) (*domain.ReservationGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if !group.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, group.Status)
	}

	query, args, err := psqlbuilder.Insert(tableGroups).
		Columns("id", "owner_ref", "idempotency_key", "status").
		Values(group.ID, group.OwnerRef, group.IdempotencyKey, group.Status).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: InsertReservations - build group insert: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&group.CreatedAt, &group.UpdatedAt); err != nil {
		return nil, mapExecError(err, ErrExecQuery, "InsertReservations - insert group")
	}

	for _, res := range group.Reservations {
		res.GroupID = group.ID
		res.OwnerRef = group.OwnerRef
		res.Status = group.Status
		res.Date = domain.NormalizeDate(res.Date)

		query, args, err := psqlbuilder.Insert(tableReservations).
			Columns("group_id", "court_id", "booking_date", "start_time", "end_time", "price", "owner_ref", "status").
			Values(res.GroupID, res.CourtID, res.Date, res.StartTime, res.EndTime, res.Price, res.OwnerRef, res.Status).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: InsertReservations - build reservation insert: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, mapExecError(err, ErrExecQuery, "InsertReservations - insert reservation")
		}
	}

	return group, nil
}

// GetGroupByID получает группу вместе с резервациями
func (r *Repository) GetGroupByID(ctx context.Context, id uuid.UUID) (*domain.ReservationGroup, error) {
	return r.getGroup(ctx, squirrel.Eq{"id": id}, "GetGroupByID")
}

// GetGroupByIdempotencyKey получает группу по ключу идемпотентности
func (r *Repository) GetGroupByIdempotencyKey(ctx context.Context, key string) (*domain.ReservationGroup, error) {
	return r.getGroup(ctx, squirrel.Eq{"idempotency_key": key}, "GetGroupByIdempotencyKey")
}

func (r *Repository) getGroup(ctx context.Context, where squirrel.Eq, op string) (*domain.ReservationGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(groupColumns...).
		From(tableGroups).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var group domain.ReservationGroup
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&group.ID,
		&group.OwnerRef,
		&group.IdempotencyKey,
		&group.Status,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, mapExecError(err, ErrScanRow, op+" - scan group")
	}

	query, args, err = psqlbuilder.Select(reservationColumns...).
		From(tableReservations).
		Where(squirrel.Eq{"group_id": group.ID}).
		OrderBy("court_id ASC", "booking_date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build reservations query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapExecError(err, ErrExecQuery, op+" - select reservations")
	}
	defer rows.Close()

	group.Reservations, err = scanReservations(rows)
	if err != nil {
		return nil, err
	}

	return &group, nil
}

// UpdateStatus переводит группу и все её резервации в новый статус
// Проверка допустимости перехода - ответственность вызывающего кода
func (r *Repository) UpdateStatus(ctx context.Context, groupID uuid.UUID, status domain.ReservationStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableGroups).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": groupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build group update: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapExecError(err, ErrExecQuery, "UpdateStatus - update group")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	query, args, err = psqlbuilder.Update(tableReservations).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"group_id": groupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build reservations update: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return mapExecError(err, ErrExecQuery, "UpdateStatus - update reservations")
	}

	return nil
}

// LockCourtDay берёт транзакционную advisory-блокировку на пару (корт, дата)
// Блокировка держится до конца транзакции, поэтому вне транзакции вызов запрещён
func (r *Repository) LockCourtDay(ctx context.Context, courtID int64, date time.Time) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: LockCourtDay - requires an active transaction", ErrTransaction)
	}

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtextextended(?, 0))", domain.CourtDayKey(courtID, date))).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockCourtDay - build query: %v", ErrBuildQuery, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return mapExecError(err, ErrExecQuery, "LockCourtDay - acquire lock")
	}

	return nil
}

// FindExpiredPendingGroups возвращает ID групп в статусе pending старше ttl
// Граница считается по часам БД, как и created_at, поэтому пояс и сдвиг часов приложения не важны
func (r *Repository) FindExpiredPendingGroups(ctx context.Context, ttl time.Duration, limit uint64) ([]uuid.UUID, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From(tableGroups).
		Where(squirrel.Eq{"status": string(domain.StatusPending)}).
		Where("created_at < NOW() - make_interval(secs => ?)", ttl.Seconds()).
		OrderBy("created_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindExpiredPendingGroups - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapExecError(err, ErrExecQuery, "FindExpiredPendingGroups - execute query")
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: FindExpiredPendingGroups - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindExpiredPendingGroups - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// scanReservations сканирует результаты запроса в слайс резерваций
func scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.GroupID,
			&res.CourtID,
			&res.Date,
			&res.StartTime,
			&res.EndTime,
			&res.Price,
			&res.OwnerRef,
			&res.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		res.Date = domain.NormalizeDate(res.Date)
		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
