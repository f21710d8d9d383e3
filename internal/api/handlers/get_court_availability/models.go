package get_court_availability

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	getCourtAvailability "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_court_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	CourtID         int64          `json:"courtId"`
	VenueID         int64          `json:"venueId"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	Active          bool           `json:"active"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse слот сетки, цена в минимальных единицах валюты
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Price     int64  `json:"price"`
	Status    string `json:"status"` // "available" | "booked"
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(courtID int64, dateStr string) (*getCourtAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getCourtAvailability.Request{
		CourtID: courtID,
		Date:    date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCourtAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			Price:     s.Price,
			Status:    string(s.Status),
		})
	}

	return &AvailabilityResponse{
		CourtID:         resp.CourtID,
		VenueID:         resp.VenueID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Active:          resp.Active,
		Slots:           slots,
	}
}
