package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	createReservation "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	OwnerRef string        `json:"ownerRef"`
	Items    []ItemRequest `json:"items"`
}

// ItemRequest выбранный слот: конец и цена берутся из сетки корта
type ItemRequest struct {
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`      // "2025-06-01"
	StartTime string `json:"startTime"` // "10:00"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	items := make([]createReservation.Item, 0, len(r.Items))
	for i, item := range r.Items {
		date, err := time.Parse(domain.DateFormat, item.Date)
		if err != nil {
			return nil, fmt.Errorf("item %d: date: %w", i, err)
		}

		startTime, err := types.NewTimeStringFromString(item.StartTime)
		if err != nil {
			return nil, fmt.Errorf("item %d: startTime: %w", i, err)
		}

		items = append(items, createReservation.Item{
			CourtID:   item.CourtID,
			Date:      date,
			StartTime: startTime,
		})
	}

	return &createReservation.Request{
		OwnerRef: r.OwnerRef,
		Items:    items,
	}, nil
}
