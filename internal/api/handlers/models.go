package handlers

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// ReservationGroupResponse группа бронирований в HTTP ответах
type ReservationGroupResponse struct {
	ID           string                `json:"id"`
	OwnerRef     string                `json:"ownerRef"`
	Status       string                `json:"status"`
	TotalPrice   int64                 `json:"totalPrice"`
	Reservations []ReservationResponse `json:"reservations"`
	CreatedAt    string                `json:"createdAt"`
	UpdatedAt    string                `json:"updatedAt"`
}

// ReservationResponse отдельный слот группы
type ReservationResponse struct {
	ID        int64  `json:"id"`
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`      // "2025-06-01"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:30"
	Price     int64  `json:"price"`
	Status    string `json:"status"`
}

// ConflictResponse тело ответа 409
type ConflictResponse struct {
	Error     string         `json:"error"`
	Conflicts []ConflictItem `json:"conflicts"`
}

// ConflictItem занятый слот и причина отказа
type ConflictItem struct {
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

// FromReservationGroup конвертирует доменную группу в HTTP response
func FromReservationGroup(g *domain.ReservationGroup) *ReservationGroupResponse {
	reservations := make([]ReservationResponse, 0, len(g.Reservations))
	for _, r := range g.Reservations {
		reservations = append(reservations, ReservationResponse{
			ID:        r.ID,
			CourtID:   r.CourtID,
			Date:      r.Date.Format(domain.DateFormat),
			StartTime: r.StartTime.String(),
			EndTime:   r.EndTime.String(),
			Price:     r.Price,
			Status:    string(r.Status),
		})
	}

	return &ReservationGroupResponse{
		ID:           g.ID.String(),
		OwnerRef:     g.OwnerRef,
		Status:       string(g.Status),
		TotalPrice:   g.TotalPrice(),
		Reservations: reservations,
		CreatedAt:    g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    g.UpdatedAt.Format(time.RFC3339),
	}
}

// FromConflictError конвертирует отказ резервирования в тело ответа 409
func FromConflictError(message string, ce *domain.ConflictError) *ConflictResponse {
	items := make([]ConflictItem, 0, len(ce.Conflicts))
	for _, c := range ce.Conflicts {
		items = append(items, ConflictItem{
			CourtID:   c.Slot.CourtID,
			Date:      c.Slot.Date.Format(domain.DateFormat),
			StartTime: c.Slot.StartTime.String(),
			EndTime:   c.Slot.EndTime.String(),
			Reason:    c.Reason,
		})
	}
	return &ConflictResponse{Error: message, Conflicts: items}
}
