package domain

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// Court корт площадки с параметрами сетки слотов
// OperatingStart/OperatingEnd уже с учетом наследования от площадки (см. storage/court)
type Court struct {
	ID                     int64
	VenueID                int64
	Name                   string
	OperatingStart         types.TimeString
	OperatingEnd           types.TimeString
	SessionDurationMinutes int
	PricePerSession        int64 // в минимальных единицах валюты
	Active                 bool
}

// Validate проверяет конфигурацию корта
// Окно с началом не раньше конца ошибкой не считается - у такого корта просто нет слотов
func (c *Court) Validate() error {
	if c.SessionDurationMinutes <= 0 {
		return fmt.Errorf("%w: court %d: session duration must be positive, got %d",
			ErrInvalidCourtConfig, c.ID, c.SessionDurationMinutes)
	}
	if c.SessionDurationMinutes < MinSessionDurationMinutes || c.SessionDurationMinutes > MaxSessionDurationMinutes {
		return fmt.Errorf("%w: court %d: session duration %d outside [%d, %d]",
			ErrInvalidCourtConfig, c.ID, c.SessionDurationMinutes, MinSessionDurationMinutes, MaxSessionDurationMinutes)
	}
	if err := c.OperatingStart.Validate(); err != nil {
		return fmt.Errorf("%w: court %d: operating start: %v", ErrInvalidCourtConfig, c.ID, err)
	}
	if err := c.OperatingEnd.Validate(); err != nil {
		return fmt.Errorf("%w: court %d: operating end: %v", ErrInvalidCourtConfig, c.ID, err)
	}
	if c.PricePerSession < 0 {
		return fmt.Errorf("%w: court %d: negative price %d", ErrInvalidCourtConfig, c.ID, c.PricePerSession)
	}
	return nil
}

// HasOperatingWindow возвращает true, если окно работы непустое
func (c *Court) HasOperatingWindow() bool {
	return c.OperatingStart.IsBefore(c.OperatingEnd)
}
