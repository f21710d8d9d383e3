package reservation

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-CourtBooking/pkg/txmanager"
)

var (
	// ErrGroupNotFound возвращается, когда группа бронирований не найдена
	ErrGroupNotFound = errors.New("reservation.repository: reservation group not found")

	// ErrOverlap возвращается, когда ограничение исключения отклонило пересекающийся слот
	ErrOverlap = errors.New("reservation.repository: overlapping reservation")

	// ErrDuplicateKey возвращается при повторной вставке группы с тем же ключом идемпотентности
	ErrDuplicateKey = errors.New("reservation.repository: duplicate idempotency key")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("reservation.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("reservation.repository: invalid reservation status")
)

// Коды ошибок PostgreSQL
const (
	pqExclusionViolation  = "23P01"
	pqUniqueViolation     = "23505"
	pqSerializationFailed = "40001"
	pqDeadlockDetected    = "40P01"
)

// mapExecError переводит ошибки PostgreSQL в ошибки репозитория
// Конфликты сериализации оборачиваются в txmanager.ErrSerialization, чтобы транзакция была повторена
func mapExecError(err error, fallback error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqExclusionViolation:
			return fmt.Errorf("%w: %s: %s", ErrOverlap, op, pqErr.Constraint)
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s: %s", ErrDuplicateKey, op, pqErr.Constraint)
		case pqSerializationFailed, pqDeadlockDetected:
			return fmt.Errorf("%w: %s: %v", txmanager.ErrSerialization, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", fallback, op, err)
}
