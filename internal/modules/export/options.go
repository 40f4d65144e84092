package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"stadium/internal/domain"
	"stadium/internal/modules/contractor"
	"stadium/internal/weekgrid"
)

// DisplayOptions controls how a week is drawn. Anonymized output colors
// blocks by category and hides every label except closures.
type DisplayOptions struct {
	Anonymized bool
	Colors     map[string]string
}

func (o DisplayOptions) color(b domain.Booking) string {
	if o.Anonymized {
		return contractor.CategoryColorFor(b)
	}
	return contractor.ColorFor(b, o.Colors)
}

func (o DisplayOptions) label(b domain.Booking) string {
	if o.Anonymized && !b.Closed {
		return ""
	}
	return b.Label()
}

type legendEntry struct {
	Name  string
	Color string
}

// legend lists what the rendered blocks use: categories in anonymized mode,
// occupants otherwise, with closures last.
func (o DisplayOptions) legend(blocks []weekgrid.Block) []legendEntry {
	seen := make(map[string]bool)
	var out []legendEntry
	closed := false
	for _, bl := range blocks {
		b := bl.Booking
		if b.Closed {
			closed = true
			continue
		}
		name := b.Occupant
		if o.Anonymized {
			cat := domain.ContractorCategory(b.Category)
			if _, ok := contractor.CategoryNames[cat]; !ok {
				cat = domain.CategorySportsTraining
			}
			name = contractor.CategoryNames[cat]
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, legendEntry{Name: name, Color: o.color(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if closed {
		out = append(out, legendEntry{Name: contractor.CategoryNames[domain.CategoryClosed], Color: contractor.ClosedColor})
	}
	return out
}

// FileName builds names like "TRACK-6 03-09.06.pdf", or
// "TRACK-6 27.05-02.06.pdf" when the week spans two months.
func FileName(profile domain.FacilityProfile, weekStart time.Time, anonymized bool, ext string) string {
	monday := domain.WeekStart(weekStart)
	sunday := monday.AddDate(0, 0, weekgrid.DaysPerWeek-1)

	var dates string
	if monday.Month() == sunday.Month() {
		dates = fmt.Sprintf("%s-%s", monday.Format("02"), sunday.Format("02.01"))
	} else {
		dates = fmt.Sprintf("%s-%s", monday.Format("02.01"), sunday.Format("02.01"))
	}
	suffix := ""
	if anonymized {
		suffix = "_PUBLIC"
	}
	return fmt.Sprintf("%s %s%s.%s", strings.ToUpper(string(profile.ID)), dates, suffix, ext)
}

func weekTitle(profile domain.FacilityProfile, monday time.Time) string {
	sunday := monday.AddDate(0, 0, weekgrid.DaysPerWeek-1)
	return fmt.Sprintf("%s schedule %s - %s", profile.Name, monday.Format("02.01"), sunday.Format("02.01.2006"))
}
