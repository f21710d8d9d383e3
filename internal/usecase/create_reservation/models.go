package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// Request модель запроса на резервирование
type Request struct {
	OwnerRef string // ID заказа в сервисе заказов
	Items    []Item
}

// Item выбранный слот, конец и цена берутся из сетки корта
type Item struct {
	CourtID   int64
	Date      time.Time
	StartTime types.TimeString
}

// Response созданная или найденная по ключу идемпотентности группа
type Response struct {
	Group    *domain.ReservationGroup
	Replayed bool
}
