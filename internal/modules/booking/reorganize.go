package booking

import (
	"fmt"
	"sort"

	"stadium/internal/domain"
)

// SectionUpdate is one planned rewrite of a booking's section set.
type SectionUpdate struct {
	Booking  domain.Booking
	Sections []int
}

// ReorganizeWarning reports a booking the pass left where it was.
type ReorganizeWarning struct {
	BookingID string
	Occupant  string
	Date      string
	StartTime string
	EndTime   string
	Reason    string
}

func (w ReorganizeWarning) String() string {
	return fmt.Sprintf("%s %s-%s %s: %s", w.Date, w.StartTime, w.EndTime, w.Occupant, w.Reason)
}

type ReorganizePlan struct {
	Updates  []SectionUpdate
	Warnings []ReorganizeWarning
}

type windowKey struct {
	date, start, end string
}

// Reorganize packs the bookings of every (date, start, end) group onto
// consecutive sections from 1, ordered by label. Closed bookings are set to
// the full section set. A booking that does not fit, or whose new range
// would land on a booking from an overlapping window, keeps its sections and
// produces a warning. When a kept booking would then share a section with a
// moved one, the whole group is left unchanged. Only bookings whose sections
// change are planned.
func Reorganize(bookings []domain.Booking, profile domain.FacilityProfile) ReorganizePlan {
	current := make(map[string][]int, len(bookings))
	groups := make(map[windowKey][]domain.Booking)
	for _, b := range bookings {
		if b.FacilityType != profile.ID {
			continue
		}
		current[b.ID] = sortedCopy(b.Sections)
		k := windowKey{b.Date.Format(domain.DateLayout), b.StartTime, b.EndTime}
		groups[k] = append(groups[k], b)
	}

	keys := make([]windowKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		if keys[i].start != keys[j].start {
			return keys[i].start < keys[j].start
		}
		return keys[i].end < keys[j].end
	})

	var plan ReorganizePlan
	total := profile.SectionCount()
	for _, k := range keys {
		group := groups[k]

		var open []domain.Booking
		for _, b := range group {
			if !b.Closed {
				open = append(open, b)
				continue
			}
			if all := profile.AllSections(); !equalSections(current[b.ID], all) {
				plan.Updates = append(plan.Updates, SectionUpdate{Booking: b, Sections: all})
				current[b.ID] = all
			}
		}

		sort.SliceStable(open, func(i, j int) bool {
			if open[i].Occupant != open[j].Occupant {
				return open[i].Occupant < open[j].Occupant
			}
			return open[i].ID < open[j].ID
		})

		pending := make(map[string]bool, len(open))
		before := make(map[string][]int, len(open))
		for _, b := range open {
			pending[b.ID] = true
			before[b.ID] = current[b.ID]
		}
		planned := len(plan.Updates)

		cursor := 1
		for _, b := range open {
			delete(pending, b.ID)
			n := len(b.Sections)
			if cursor+n-1 > total {
				plan.Warnings = append(plan.Warnings, warn(b, fmt.Sprintf("needs %d sections from %d but only %d exist", n, cursor, total)))
				continue
			}

			target := make([]int, n)
			for i := range target {
				target[i] = cursor + i
			}
			if equalSections(current[b.ID], target) {
				cursor += n
				continue
			}
			if other, ok := collision(b, target, bookings, current, pending); ok {
				plan.Warnings = append(plan.Warnings, warn(b, fmt.Sprintf("sections %s overlap %s", domain.FormatSections(target), other)))
				continue
			}

			plan.Updates = append(plan.Updates, SectionUpdate{Booking: b, Sections: target})
			current[b.ID] = target
			cursor += n
		}

		if moved, other, section, ok := sharedSection(open, before, current); ok {
			plan.Updates = plan.Updates[:planned]
			for id, sections := range before {
				current[id] = sections
			}
			plan.Warnings = append(plan.Warnings, warn(moved, fmt.Sprintf("group left unchanged: section %d would also hold %s", section, other.Label())))
		}
	}
	return plan
}

// sharedSection finds two group members that would hold the same section
// after the group's moves, where at least one of them was moved.
func sharedSection(open []domain.Booking, before, current map[string][]int) (domain.Booking, domain.Booking, int, bool) {
	for i, a := range open {
		aMoved := !equalSections(before[a.ID], current[a.ID])
		for _, b := range open[i+1:] {
			bMoved := !equalSections(before[b.ID], current[b.ID])
			if !aMoved && !bMoved {
				continue
			}
			for _, s := range current[a.ID] {
				for _, t := range current[b.ID] {
					if s != t {
						continue
					}
					if aMoved {
						return a, b, s, true
					}
					return b, a, s, true
				}
			}
		}
	}
	return domain.Booking{}, domain.Booking{}, 0, false
}

// collision finds a non-closed booking outside b that shares a slot with b
// and holds one of target's sections. Bookings still waiting for their own
// assignment in b's group are ignored.
func collision(b domain.Booking, target []int, all []domain.Booking, current map[string][]int, pending map[string]bool) (string, bool) {
	for _, o := range all {
		if o.ID == b.ID || o.Closed || pending[o.ID] || o.FacilityType != b.FacilityType || !domain.SameDate(o.Date, b.Date) {
			continue
		}
		if o.StartTime >= b.EndTime || b.StartTime >= o.EndTime {
			continue
		}
		for _, s := range current[o.ID] {
			for _, t := range target {
				if s == t {
					return fmt.Sprintf("%s %s-%s", o.Label(), o.StartTime, o.EndTime), true
				}
			}
		}
	}
	return "", false
}

func warn(b domain.Booking, reason string) ReorganizeWarning {
	return ReorganizeWarning{
		BookingID: b.ID,
		Occupant:  b.Label(),
		Date:      b.Date.Format(domain.DateLayout),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Reason:    reason,
	}
}

func sortedCopy(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	sort.Ints(out)
	return out
}

func equalSections(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
