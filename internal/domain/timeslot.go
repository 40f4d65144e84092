package domain

import (
	"fmt"
	"time"
)

// TimeSlot is one half-hour cell of the daily grid. Start and End are
// zero-padded "HH:MM" strings, so lexicographic comparison orders them.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

const (
	DayOpen   = "07:00"
	DayClose  = "21:00"
	slotWidth = 30 * time.Minute
)

// TimeSlots is the fixed slot sequence shared by every facility.
var TimeSlots = buildTimeSlots(DayOpen, DayClose)

func buildTimeSlots(open, close string) []TimeSlot {
	from, _ := time.Parse("15:04", open)
	to, _ := time.Parse("15:04", close)

	slots := make([]TimeSlot, 0, int(to.Sub(from)/slotWidth))
	for t := from; t.Before(to); t = t.Add(slotWidth) {
		slots = append(slots, TimeSlot{
			Start: t.Format("15:04"),
			End:   t.Add(slotWidth).Format("15:04"),
		})
	}
	return slots
}

// ParseClock accepts only the canonical "HH:MM" form (two digits each side).
func ParseClock(s string) (string, error) {
	if len(s) != 5 || s[2] != ':' {
		return "", fmt.Errorf("clock %q must be HH:MM", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("clock %q must be HH:MM", s)
		}
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return "", fmt.Errorf("clock %q out of range", s)
	}
	return s, nil
}

// IsSlotStart reports whether s is the start of some grid slot.
func IsSlotStart(s string) bool {
	for _, slot := range TimeSlots {
		if slot.Start == s {
			return true
		}
	}
	return false
}

// IsSlotEnd reports whether s is the end of some grid slot.
func IsSlotEnd(s string) bool {
	for _, slot := range TimeSlots {
		if slot.End == s {
			return true
		}
	}
	return false
}

// ValidateWindow checks that [start, end) is a non-empty, slot-aligned window.
func ValidateWindow(start, end string) error {
	if _, err := ParseClock(start); err != nil {
		return err
	}
	if _, err := ParseClock(end); err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("window %s-%s: start must be before end", start, end)
	}
	if !IsSlotStart(start) || !IsSlotEnd(end) {
		return fmt.Errorf("window %s-%s is not aligned to the %s-%s half-hour grid", start, end, DayOpen, DayClose)
	}
	return nil
}

// SlotsWithin returns the slots whose start lies in [start, end).
func SlotsWithin(start, end string) []TimeSlot {
	var out []TimeSlot
	for _, slot := range TimeSlots {
		if slot.Start >= start && slot.Start < end {
			out = append(out, slot)
		}
	}
	return out
}

// Covers reports whether a [start, end) window contains the instant t.
func Covers(start, end, t string) bool {
	return t >= start && t < end
}
