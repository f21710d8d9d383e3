package ledger

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном запросе на резервирование
	ErrInvalidInput = errors.New("ledger: invalid input")

	// ErrGroupNotFound возвращается, когда группа бронирований не найдена
	ErrGroupNotFound = errors.New("ledger: reservation group not found")
)
