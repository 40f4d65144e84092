package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"stadium/internal/domain"
)

var csvHeader = []string{"Facility", "Week", "Date", "Time", "Sections", "Occupant", "Category"}

// WriteCSV renders snapshots newest week first. Each week's first row
// carries the facility and week range; a blank row separates weeks. The
// output starts with a UTF-8 BOM so spreadsheet tools detect the encoding.
func WriteCSV(w io.Writer, snapshots []domain.ArchiveSnapshot, generated time.Time) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	sorted := make([]domain.ArchiveSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].WeekStart != sorted[j].WeekStart {
			return sorted[i].WeekStart > sorted[j].WeekStart
		}
		return sorted[i].FacilityType < sorted[j].FacilityType
	})

	rows := [][]string{
		{"Booking archive"},
		{"Generated: " + generated.Format("02.01.2006 15:04")},
		make([]string, len(csvHeader)),
		csvHeader,
	}
	for _, snap := range sorted {
		name := string(snap.FacilityType)
		if p, ok := domain.Facility(snap.FacilityType); ok {
			name = p.Name
		}
		bookings := make([]domain.Booking, len(snap.Bookings))
		copy(bookings, snap.Bookings)
		domain.SortBookings(bookings)

		for i, b := range bookings {
			facility, week := "", ""
			if i == 0 {
				facility, week = name, weekRange(snap.WeekStart, snap.WeekEnd)
			}
			rows = append(rows, []string{
				facility,
				week,
				b.Date.Format("02.01.2006"),
				fmt.Sprintf("%s - %s", b.StartTime, b.EndTime),
				domain.FormatSections(b.Sections),
				b.Label(),
				b.Category,
			})
		}
		rows = append(rows, make([]string, len(csvHeader)))
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write archive csv: %w", err)
	}
	return nil
}

func weekRange(start, end string) string {
	s, err1 := domain.ParseDate(start)
	e, err2 := domain.ParseDate(end)
	if err1 != nil || err2 != nil {
		return start + " - " + end
	}
	return s.Format("02.01") + " - " + e.Format("02.01.2006")
}
