package get_booked_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// MaxCourtsPerRequest ограничение на количество кортов в одном запросе
const MaxCourtsPerRequest = 50

// Request модель запроса занятых слотов
type Request struct {
	CourtIDs []int64
	Date     time.Time
}

// Response занятые слоты всех запрошенных кортов в порядке courtIDs
type Response struct {
	Slots []BookedSlot
}

// BookedSlot занятый слот сетки
type BookedSlot struct {
	CourtID   int64
	StartTime types.TimeString
	EndTime   types.TimeString
}
