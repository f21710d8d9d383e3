package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCourtConfig некорректная конфигурация корта (длительность, окно работы, цена)
	ErrInvalidCourtConfig = errors.New("domain: invalid court config")

	// ErrLookup ошибка чтения бронирований при проверке доступности
	// Доступность в этом случае неизвестна и не может считаться свободной
	ErrLookup = errors.New("domain: reservation lookup failed")

	// ErrConflict слот уже занят, используется через ConflictError
	ErrConflict = errors.New("domain: reservation conflict")

	// ErrCommit ошибка записи после успешной проверки конфликтов, вызов Reserve можно повторить
	ErrCommit = errors.New("domain: reservation commit failed")

	// ErrInvalidTransition недопустимый переход статуса
	ErrInvalidTransition = errors.New("domain: invalid status transition")
)

// Conflict один конфликтующий слот и причина
type Conflict struct {
	Slot   TimeSlot
	Reason string
}

// ConflictError отказ всей пачки резервирования
type ConflictError struct {
	Conflicts []Conflict
}

// NewConflictError создает ошибку конфликта для слотов с причиной ReasonAlreadyReserved
func NewConflictError(slots ...TimeSlot) *ConflictError {
	conflicts := make([]Conflict, 0, len(slots))
	for _, s := range slots {
		conflicts = append(conflicts, Conflict{Slot: s, Reason: ReasonAlreadyReserved})
	}
	return &ConflictError{Conflicts: conflicts}
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("court %d %s %s %s", c.Slot.CourtID, c.Slot.Date.Format(DateFormat), c.Slot.Range(), c.Reason))
	}
	return fmt.Sprintf("%v: %s", ErrConflict, strings.Join(parts, "; "))
}

// Unwrap позволяет проверять errors.Is(err, ErrConflict)
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
