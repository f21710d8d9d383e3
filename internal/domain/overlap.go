package domain

import "fmt"

// ActiveIntervals интервалы резерваций, которые занимают слот
// Отмененные резервации пропускаются даже если хранилище их вернуло
func ActiveIntervals(reservations []*Reservation) ([]Interval, error) {
	intervals := make([]Interval, 0, len(reservations))
	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}
		iv, err := r.Interval()
		if err != nil {
			return nil, fmt.Errorf("reservation %d: %w", r.ID, err)
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

// OverlapsAny возвращает true, если iv пересекается хотя бы с одним из интервалов
func OverlapsAny(iv Interval, intervals []Interval) bool {
	for _, other := range intervals {
		if Overlaps(iv, other) {
			return true
		}
	}
	return false
}

// ConflictingSlots слоты, пересекающиеся с активными резервациями того же корта и даты
// Порядок слотов сохраняется
func ConflictingSlots(slots []TimeSlot, existing []*Reservation) ([]TimeSlot, error) {
	byDay := make(map[string][]*Reservation)
	for _, r := range existing {
		k := CourtDayKey(r.CourtID, r.Date)
		byDay[k] = append(byDay[k], r)
	}

	conflicts := make([]TimeSlot, 0)
	for _, s := range slots {
		intervals, err := ActiveIntervals(byDay[s.DayKey()])
		if err != nil {
			return nil, err
		}
		iv, err := s.Interval()
		if err != nil {
			return nil, err
		}
		if OverlapsAny(iv, intervals) {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts, nil
}

// SelfOverlapping возвращает первую пару пересекающихся слотов внутри одного набора
func SelfOverlapping(slots []TimeSlot) (TimeSlot, TimeSlot, bool) {
	for i := 0; i < len(slots); i++ {
		a, err := slots[i].Interval()
		if err != nil {
			continue
		}
		for j := i + 1; j < len(slots); j++ {
			if slots[i].DayKey() != slots[j].DayKey() {
				continue
			}
			b, err := slots[j].Interval()
			if err != nil {
				continue
			}
			if Overlaps(a, b) {
				return slots[i], slots[j], true
			}
		}
	}
	return TimeSlot{}, TimeSlot{}, false
}
