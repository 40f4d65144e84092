// Package availability decides which sections of a facility are free for a
// time window and which existing bookings collide with a candidate.
package availability

import (
	"errors"
	"fmt"
	"time"

	"stadium/internal/domain"
)

var ErrInvalidRequest = errors.New("invalid availability request")

// Request describes one window to allocate sections for.
type Request struct {
	Date        time.Time
	StartTime   string
	EndTime     string
	Count       int
	Consecutive bool
}

func (r Request) validate() error {
	if err := domain.ValidateWindow(r.StartTime, r.EndTime); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if r.Count < 1 {
		return fmt.Errorf("%w: requested count must be at least 1, got %d", ErrInvalidRequest, r.Count)
	}
	return nil
}

// ResolveSections picks req.Count sections that are free across every slot
// touched by the window. An empty result with a nil error means the window
// cannot be satisfied. Bookings dated on a different day are ignored.
func ResolveSections(existing []domain.Booking, profile domain.FacilityProfile, req Request) ([]int, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Count > profile.SectionCount() {
		return nil, nil
	}

	free, closed := freeMask(existing, profile, req.Date, req.StartTime, req.EndTime)
	if closed {
		return nil, nil
	}

	if req.Consecutive {
		return firstConsecutive(free, profile.Sections, req.Count), nil
	}
	return firstFree(free, profile.Sections, req.Count), nil
}

// FreeSections lists every section free across the whole window, ascending.
func FreeSections(existing []domain.Booking, profile domain.FacilityProfile, date time.Time, start, end string) ([]int, error) {
	if err := domain.ValidateWindow(start, end); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	free, closed := freeMask(existing, profile, date, start, end)
	if closed {
		return []int{}, nil
	}
	out := []int{}
	for _, s := range profile.Sections {
		if free[s] {
			out = append(out, s)
		}
	}
	return out, nil
}

// freeMask marks each section free unless an existing booking covers one of
// the touched slot starts on it. The second result is true when a closed
// booking touches the window.
func freeMask(existing []domain.Booking, profile domain.FacilityProfile, date time.Time, start, end string) (map[int]bool, bool) {
	touched := domain.SlotsWithin(start, end)

	free := make(map[int]bool, profile.SectionCount())
	for _, s := range profile.Sections {
		free[s] = true
	}

	for _, b := range existing {
		if b.FacilityType != profile.ID || !domain.SameDate(b.Date, date) {
			continue
		}
		for _, slot := range touched {
			if !b.OccupiesSlot(slot.Start) {
				continue
			}
			if b.Closed {
				return nil, true
			}
			for _, s := range b.Sections {
				if _, ok := free[s]; ok {
					free[s] = false
				}
			}
		}
	}
	return free, false
}

func firstFree(free map[int]bool, sections []int, count int) []int {
	out := make([]int, 0, count)
	for _, s := range sections {
		if !free[s] {
			continue
		}
		out = append(out, s)
		if len(out) == count {
			return out
		}
	}
	return nil
}

func firstConsecutive(free map[int]bool, sections []int, count int) []int {
	total := len(sections)
	for i := 0; i+count <= total; i++ {
		run := sections[i : i+count]
		ok := true
		for _, s := range run {
			if !free[s] {
				ok = false
				break
			}
		}
		if ok {
			out := make([]int, count)
			copy(out, run)
			return out
		}
	}
	return nil
}
