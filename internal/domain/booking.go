package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	// DefaultClosedLabel is shown on closed blocks without a reason.
	DefaultClosedLabel = "CLOSED"
)

// Booking occupies one or more sections of a facility on one date for one
// contiguous [StartTime, EndTime) window.
type Booking struct {
	ID           string       `json:"id"`
	FacilityType FacilityType `json:"facility_type"`
	Date         time.Time    `json:"date"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	Sections     []int        `json:"sections"`
	Occupant     string       `json:"occupant"`
	Category     string       `json:"category,omitempty"`
	Closed       bool         `json:"closed"`
	ClosedReason string       `json:"closed_reason,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Label is the text shown on the booking's grid block.
func (b Booking) Label() string {
	if b.Closed {
		if strings.TrimSpace(b.ClosedReason) != "" {
			return b.ClosedReason
		}
		return DefaultClosedLabel
	}
	return b.Occupant
}

func (b Booking) HasSection(n int) bool {
	for _, s := range b.Sections {
		if s == n {
			return true
		}
	}
	return false
}

// OccupiesSlot reports whether the booking covers the given slot start.
func (b Booking) OccupiesSlot(slotStart string) bool {
	return Covers(b.StartTime, b.EndTime, slotStart)
}

// Validate checks the booking invariants against its facility profile.
func (b Booking) Validate(p FacilityProfile) error {
	if b.FacilityType != p.ID {
		return fmt.Errorf("booking facility %q does not match %q", b.FacilityType, p.ID)
	}
	if err := ValidateWindow(b.StartTime, b.EndTime); err != nil {
		return err
	}
	if len(b.Sections) == 0 {
		return fmt.Errorf("booking has no sections")
	}
	for _, s := range b.Sections {
		if !p.HasSection(s) {
			return fmt.Errorf("section %d is not part of %s", s, p.ID)
		}
	}
	if !b.Closed && strings.TrimSpace(b.Occupant) == "" {
		return fmt.Errorf("occupant label is required")
	}
	return nil
}

// UnresolvedRequest is a candidate booking before sections are assigned.
type UnresolvedRequest struct {
	FacilityType   FacilityType
	Date           time.Time
	StartTime      string
	EndTime        string
	RequestedCount int
	Occupant       string
	Category       string
	Closed         bool
	ClosedReason   string
}

// Resolve turns the request into a Booking holding the given sections.
func (r UnresolvedRequest) Resolve(sections []int) Booking {
	out := make([]int, len(sections))
	copy(out, sections)
	sort.Ints(out)
	return Booking{
		FacilityType: r.FacilityType,
		Date:         r.Date,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Sections:     out,
		Occupant:     r.Occupant,
		Category:     r.Category,
		Closed:       r.Closed,
		ClosedReason: r.ClosedReason,
	}
}

// WeekdayPattern selects dates by weekday (0 = Sunday) and carries the
// window and section count to book on each of them.
type WeekdayPattern struct {
	Weekday        int    `json:"weekday" validate:"min=0,max=6"`
	StartTime      string `json:"start_time" validate:"required,clock"`
	EndTime        string `json:"end_time" validate:"required,clock"`
	RequestedCount int    `json:"requested_count" validate:"min=0"`
}

// DateOnly truncates t to UTC midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return t, nil
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	d := DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// SortBookings orders bookings by date, then start time, then id.
func SortBookings(bs []Booking) {
	sort.SliceStable(bs, func(i, j int) bool {
		if !SameDate(bs[i].Date, bs[j].Date) {
			return bs[i].Date.Before(bs[j].Date)
		}
		if bs[i].StartTime != bs[j].StartTime {
			return bs[i].StartTime < bs[j].StartTime
		}
		return bs[i].ID < bs[j].ID
	})
}

// FormatSections renders a section list as "1, 2, 3".
func FormatSections(sections []int) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return strings.Join(parts, ", ")
}
