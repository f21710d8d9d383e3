package get_booked_slots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	getBookedSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_booked_slots"
)

var errEmptyCourtIDs = errors.New("courtIds is empty")

// BookedSlotResponse занятый слот, itemId совпадает с ID корта
type BookedSlotResponse struct {
	ItemID    int64  `json:"itemId"`
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:30"
}

// ParseCourtIDs разбирает список ID кортов через запятую
func ParseCourtIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid court id %q", p)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errEmptyCourtIDs
	}
	return ids, nil
}

// ToUseCaseRequest конвертирует query параметры в модель use case
func ToUseCaseRequest(courtIDs []int64, dateStr string) (*getBookedSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getBookedSlots.Request{
		CourtIDs: courtIDs,
		Date:     date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в плоский JSON массив
func FromUseCaseResponse(resp *getBookedSlots.Response) []BookedSlotResponse {
	slots := make([]BookedSlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, BookedSlotResponse{
			ItemID:    s.CourtID,
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		})
	}
	return slots
}
