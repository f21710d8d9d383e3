package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("court not found")

	// ErrCourtInactive возвращается, когда корт закрыт для бронирования
	ErrCourtInactive = errors.New("court is not active")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с началом слота сетки
	ErrInvalidTimeSlot = errors.New("time is not a slot start of the court grid")

	// ErrInvalidDate возвращается при бронировании на прошедшую дату
	ErrInvalidDate = errors.New("reservation date is in the past")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
