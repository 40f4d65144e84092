package availability

import (
	"fmt"

	"stadium/internal/domain"
)

// FindConflicts reports each section of candidate already held by another
// booking with the exact same date and window, once per section, naming the
// first holder. Closed candidates never conflict.
func FindConflicts(candidate domain.Booking, existing []domain.Booking, profile domain.FacilityProfile) []string {
	if candidate.Closed {
		return nil
	}

	var same []domain.Booking
	for _, b := range existing {
		if b.FacilityType != candidate.FacilityType || (b.ID != "" && b.ID == candidate.ID) {
			continue
		}
		if !domain.SameDate(b.Date, candidate.Date) || b.StartTime != candidate.StartTime || b.EndTime != candidate.EndTime {
			continue
		}
		same = append(same, b)
	}

	var msgs []string
	for _, s := range candidate.Sections {
		for _, b := range same {
			if b.HasSection(s) {
				msgs = append(msgs, fmt.Sprintf("%s %d is already taken by %s", profile.SectionLabel, s, b.Label()))
				break
			}
		}
	}
	return msgs
}
