package get_court_availability

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// Request модель запроса сетки корта
type Request struct {
	CourtID int64
	Date    time.Time
}

// Response сетка слотов корта на дату
type Response struct {
	CourtID         int64
	VenueID         int64
	Date            time.Time
	DurationMinutes int
	Active          bool
	Slots           []Slot
}

// Slot слот сетки со статусом
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Price     int64
	Status    domain.SlotStatus
}
