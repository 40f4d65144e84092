package booking

import (
	"fmt"
	"strings"
	"time"

	"stadium/internal/availability"
	"stadium/internal/domain"
)

// AllocationMode controls what a batch candidate is checked against.
type AllocationMode string

const (
	// AllocationIncremental adds every accepted candidate to the working set
	// before the next one is resolved.
	AllocationIncremental AllocationMode = "incremental"
	// AllocationSnapshot resolves every candidate against the bookings that
	// existed before the batch only.
	AllocationSnapshot AllocationMode = "snapshot"
)

func ParseAllocationMode(s string) (AllocationMode, error) {
	switch AllocationMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AllocationIncremental:
		return AllocationIncremental, nil
	case AllocationSnapshot:
		return AllocationSnapshot, nil
	}
	return "", fmt.Errorf("unknown allocation mode %q", s)
}

// Expand turns a date range and weekday patterns into one candidate per
// (pattern, matching date). Patterns keep their entry order and dates are
// ascending within a pattern. A non-nil closedReason marks every candidate
// closed with the full section set.
func Expand(profile domain.FacilityProfile, from, to time.Time, patterns []domain.WeekdayPattern, occupant, category string, closedReason *string) ([]domain.UnresolvedRequest, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: date_from %s is after date_to %s", ErrInvalidRequest, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: at least one weekday pattern is required", ErrInvalidRequest)
	}

	closed := closedReason != nil
	reason := ""
	if closed {
		reason = strings.TrimSpace(*closedReason)
		if reason == "" {
			reason = domain.DefaultClosedLabel
		}
	} else if strings.TrimSpace(occupant) == "" {
		return nil, fmt.Errorf("%w: occupant is required", ErrInvalidRequest)
	}

	var out []domain.UnresolvedRequest
	for i, p := range patterns {
		if p.Weekday < 0 || p.Weekday > 6 {
			return nil, fmt.Errorf("%w: pattern %d: weekday %d outside 0-6", ErrInvalidRequest, i+1, p.Weekday)
		}
		if err := domain.ValidateWindow(p.StartTime, p.EndTime); err != nil {
			return nil, fmt.Errorf("%w: pattern %d: %v", ErrInvalidRequest, i+1, err)
		}
		count := p.RequestedCount
		if closed {
			count = profile.SectionCount()
		} else if count < 1 {
			return nil, fmt.Errorf("%w: pattern %d: requested count must be at least 1", ErrInvalidRequest, i+1)
		}

		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if int(d.Weekday()) != p.Weekday {
				continue
			}
			out = append(out, domain.UnresolvedRequest{
				FacilityType:   profile.ID,
				Date:           d,
				StartTime:      p.StartTime,
				EndTime:        p.EndTime,
				RequestedCount: count,
				Occupant:       strings.TrimSpace(occupant),
				Category:       category,
				Closed:         closed,
				ClosedReason:   reason,
			})
		}
	}
	return out, nil
}

// resolution is the outcome of placing a batch: accepted bookings plus one
// message per failed candidate.
type resolution struct {
	accepted []domain.Booking
	failures []string
}

// resolve places every candidate in order. existing must hold the facility
// bookings for the whole batch date range.
func resolve(profile domain.FacilityProfile, candidates []domain.UnresolvedRequest, existing []domain.Booking, consecutive bool, mode AllocationMode) (resolution, error) {
	working := make([]domain.Booking, len(existing), len(existing)+len(candidates))
	copy(working, existing)

	var res resolution
	for _, c := range candidates {
		key := fmt.Sprintf("%s %s-%s", c.Date.Format(domain.DateLayout), c.StartTime, c.EndTime)

		if c.Closed {
			b := c.Resolve(profile.AllSections())
			res.accepted = append(res.accepted, b)
			if mode == AllocationIncremental {
				working = append(working, b)
			}
			continue
		}

		sections, err := availability.ResolveSections(working, profile, availability.Request{
			Date:        c.Date,
			StartTime:   c.StartTime,
			EndTime:     c.EndTime,
			Count:       c.RequestedCount,
			Consecutive: consecutive,
		})
		if err != nil {
			return resolution{}, err
		}
		if len(sections) == 0 {
			res.failures = append(res.failures, fmt.Sprintf("%s: %s", key, shortfall(working, profile, c, consecutive)))
			continue
		}

		b := c.Resolve(sections)
		if conflicts := availability.FindConflicts(b, working, profile); len(conflicts) > 0 {
			res.failures = append(res.failures, fmt.Sprintf("%s: %s", key, strings.Join(conflicts, ", ")))
			continue
		}

		res.accepted = append(res.accepted, b)
		if mode == AllocationIncremental {
			working = append(working, b)
		}
	}
	return res, nil
}

func shortfall(working []domain.Booking, profile domain.FacilityProfile, c domain.UnresolvedRequest, consecutive bool) string {
	free, _ := availability.FreeSections(working, profile, c.Date, c.StartTime, c.EndTime)
	switch {
	case len(free) == 0:
		return "no sections free"
	case c.RequestedCount > profile.SectionCount():
		return fmt.Sprintf("%d requested but the facility has %d", c.RequestedCount, profile.SectionCount())
	case consecutive && len(free) >= c.RequestedCount:
		return fmt.Sprintf("no %d adjacent sections free (free: %s)", c.RequestedCount, domain.FormatSections(free))
	}
	return fmt.Sprintf("only %d of %d sections free", len(free), c.RequestedCount)
}
