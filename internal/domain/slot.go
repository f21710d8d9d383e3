package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// TimeSlot вычисляемый слот корта на дату, не хранится в БД
type TimeSlot struct {
	CourtID   int64
	Date      time.Time // календарный день, см. NormalizeDate
	StartTime types.TimeString
	EndTime   types.TimeString
	Price     int64
}

// SlotKey идентичность слота, используется как детерминированный ключ идемпотентности
type SlotKey struct {
	CourtID   int64
	Date      string
	StartTime types.TimeString
	EndTime   types.TimeString
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%d|%s|%s|%s", k.CourtID, k.Date, k.StartTime, k.EndTime)
}

// Key возвращает идентичность слота
func (s TimeSlot) Key() SlotKey {
	return SlotKey{
		CourtID:   s.CourtID,
		Date:      s.Date.Format(DateFormat),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

// DayKey ключ пары (корт, дата), в пределах которой сериализуются записи
func (s TimeSlot) DayKey() string {
	return CourtDayKey(s.CourtID, s.Date)
}

// Range возвращает "HH:MM-HH:MM"
func (s TimeSlot) Range() string {
	return fmt.Sprintf("%s-%s", s.StartTime, s.EndTime)
}

// Interval возвращает слот как полуинтервал в минутах
func (s TimeSlot) Interval() (Interval, error) {
	return NewInterval(s.StartTime, s.EndTime)
}

// Validate проверяет, что слот задан корректно
func (s TimeSlot) Validate() error {
	if s.CourtID <= 0 {
		return fmt.Errorf("courtID must be positive")
	}
	if s.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	iv, err := s.Interval()
	if err != nil {
		return err
	}
	if iv.Start >= iv.End {
		return fmt.Errorf("start %s must be before end %s", s.StartTime, s.EndTime)
	}
	if s.Price < 0 {
		return fmt.Errorf("price must be non-negative")
	}
	return nil
}

// CourtDayKey ключ пары (корт, дата)
func CourtDayKey(courtID int64, date time.Time) string {
	return fmt.Sprintf("court:%d:%s", courtID, date.Format(DateFormat))
}

// Interval полуинтервал [Start, End) в минутах от начала суток
type Interval struct {
	Start int
	End   int
}

// NewInterval строит интервал из времени начала и конца
func NewInterval(start, end types.TimeString) (Interval, error) {
	s, err := start.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("start: %w", err)
	}
	e, err := end.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("end: %w", err)
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps единственный предикат пересечения для доступности и записи
// [s1,e1) и [s2,e2) пересекаются, только если s1 < e2 и s2 < e1
//
// Примеры:
// - 10:00-11:00 и 11:00-12:00 → НЕТ пересечения (граничат)
// - 10:00-11:00 и 10:30-11:30 → ЕСТЬ пересечение
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// GenerateSlots генерирует упорядоченную сетку слотов корта на дату
// Слоты идут от начала работы с шагом SessionDurationMinutes без промежутков
// Хвостовой слот, который не помещается до конца работы целиком, отбрасывается
// Ошибка возвращается только при некорректной конфигурации корта
func GenerateSlots(court *Court, date time.Time) ([]TimeSlot, error) {
	if err := court.Validate(); err != nil {
		return nil, err
	}

	window, err := NewInterval(court.OperatingStart, court.OperatingEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: court %d: %v", ErrInvalidCourtConfig, court.ID, err)
	}

	day := NormalizeDate(date)
	duration := court.SessionDurationMinutes
	slots := make([]TimeSlot, 0)

	for start := window.Start; start+duration <= window.End; start += duration {
		startTime, err := types.FromMinutes(start)
		if err != nil {
			return nil, fmt.Errorf("%w: court %d: %v", ErrInvalidCourtConfig, court.ID, err)
		}
		endTime, err := startTime.AddMinutes(duration)
		if err != nil {
			return nil, fmt.Errorf("%w: court %d: %v", ErrInvalidCourtConfig, court.ID, err)
		}

		slots = append(slots, TimeSlot{
			CourtID:   court.ID,
			Date:      day,
			StartTime: startTime,
			EndTime:   endTime,
			Price:     court.PricePerSession,
		})
	}

	return slots, nil
}

// FindSlot ищет в сетке слот, начинающийся в startTime
func FindSlot(slots []TimeSlot, startTime types.TimeString) (TimeSlot, bool) {
	for _, s := range slots {
		if s.StartTime == startTime {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// SlotStatus статус слота в сетке доступности
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// SlotAvailability слот сетки и его статус
type SlotAvailability struct {
	Slot   TimeSlot
	Status SlotStatus
}

// IsBooked возвращает true, если слот занят
func (a SlotAvailability) IsBooked() bool {
	return a.Status == SlotBooked
}
