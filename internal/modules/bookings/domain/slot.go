package domain

import (
	"fmt"
	"time"

	"dareNowConsole/internal/shared/normalization"
)

// SlotDateLayout is the DD-MM-YYYY date format of the slots endpoint.
const SlotDateLayout = "02-01-2006"

// Slot is one bookable time of a meal, e.g. {slot:"08:30 AM", booked:false}.
type Slot struct {
	Time   string `json:"slot"`
	Booked bool   `json:"booked"`
}

// FormatSlotDate renders date for the slots endpoint.
func FormatSlotDate(date time.Time) string {
	return date.Format(SlotDateLayout)
}

// ParseDate accepts YYYY-MM-DD or DD-MM-YYYY.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, SlotDateLayout} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
}

// BuildSlots reads the slot list from an unwrapped payload.
func BuildSlots(payload any) []Slot {
	items := normalization.AsInterfaceSlice(payload)
	slots := make([]Slot, 0, len(items))
	for _, item := range items {
		raw := normalization.AsMap(item)
		if raw == nil {
			continue
		}
		slotTime := normalization.AsString(raw["slot"])
		if slotTime == "" {
			continue
		}
		slots = append(slots, Slot{Time: slotTime, Booked: normalization.AsBool(raw["booked"])})
	}
	return slots
}

// OpenSlots keeps the times of slots not booked yet.
func OpenSlots(slots []Slot) []string {
	open := make([]string, 0, len(slots))
	for _, slot := range slots {
		if !slot.Booked {
			open = append(open, slot.Time)
		}
	}
	return open
}
