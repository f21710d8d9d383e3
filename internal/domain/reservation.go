package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// IsValid returns true for known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive returns true if the status occupies the slot
func (s ReservationStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo проверяет переход статуса
// pending → confirmed | cancelled, confirmed → cancelled (возврат), из cancelled выхода нет
// Повторная установка того же статуса считается допустимой (идемпотентность)
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// Reservation persisted claim on a court slot
type Reservation struct {
	ID        int64
	GroupID   uuid.UUID
	CourtID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Price     int64
	OwnerRef  string
	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation occupies its slot
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// Interval returns the reservation as a half-open interval in minutes
func (r *Reservation) Interval() (Interval, error) {
	return NewInterval(r.StartTime, r.EndTime)
}

// Slot returns the slot identity of the reservation
func (r *Reservation) Slot() TimeSlot {
	return TimeSlot{
		CourtID:   r.CourtID,
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Price:     r.Price,
	}
}

// ReservationGroup reservations committed by one Reserve call
type ReservationGroup struct {
	ID             uuid.UUID
	OwnerRef       string
	IdempotencyKey string
	Status         ReservationStatus
	Reservations   []*Reservation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TotalPrice сумма цен всех слотов группы
func (g *ReservationGroup) TotalPrice() int64 {
	var total int64
	for _, r := range g.Reservations {
		total += r.Price
	}
	return total
}

// ReserveRequest запрос на атомарное резервирование набора слотов одного заказа
type ReserveRequest struct {
	OwnerRef string
	Items    []TimeSlot
}

// DayKeys уникальные отсортированные ключи (корт, дата) запроса
func (r ReserveRequest) DayKeys() []string {
	seen := make(map[string]struct{}, len(r.Items))
	keys := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		k := item.DayKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IdempotencyKey детерминированный ключ по ownerRef и набору идентичностей слотов
// Не зависит от порядка элементов и от цены
func (r ReserveRequest) IdempotencyKey() string {
	parts := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		parts = append(parts, item.Key().String())
	}
	sort.Strings(parts)

	h := sha256.New()
	h.Write([]byte(r.OwnerRef))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}

// ReserveResult результат резервирования
// Replayed - группа уже существовала с тем же ключом идемпотентности
type ReserveResult struct {
	Group    *ReservationGroup
	Replayed bool
}

// CourtDay пара (корт, дата), в пределах которой сериализуются записи
type CourtDay struct {
	CourtID int64
	Date    time.Time
}

// Key ключ пары, совпадает с TimeSlot.DayKey
func (c CourtDay) Key() string {
	return CourtDayKey(c.CourtID, c.Date)
}

// CourtDays уникальные пары (корт, дата) запроса в порядке DayKeys
func (r ReserveRequest) CourtDays() []CourtDay {
	seen := make(map[string]struct{}, len(r.Items))
	days := make([]CourtDay, 0, len(r.Items))
	for _, item := range r.Items {
		day := CourtDay{CourtID: item.CourtID, Date: NormalizeDate(item.Date)}
		if _, ok := seen[day.Key()]; ok {
			continue
		}
		seen[day.Key()] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Key() < days[j].Key() })
	return days
}
