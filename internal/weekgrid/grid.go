// Package weekgrid lays a week of bookings onto the day x slot x section
// frame and works out which cells merge into one block.
package weekgrid

import (
	"time"

	"stadium/internal/domain"
)

const DaysPerWeek = 7

// Cell is one (day, slot, section) position. A cell that starts a block has
// Start set with RowSpan/ColSpan >= 1. Covered cells belong to a block drawn
// from another cell.
type Cell struct {
	BookingID string `json:"booking_id,omitempty"`
	Start     bool   `json:"start,omitempty"`
	Covered   bool   `json:"covered,omitempty"`
	RowSpan   int    `json:"row_span,omitempty"`
	ColSpan   int    `json:"col_span,omitempty"`
}

func (c Cell) Empty() bool { return c.BookingID == "" }

type Day struct {
	Date  time.Time `json:"date"`
	Cells [][]Cell  `json:"cells"` // [slot][section index]
}

type Grid struct {
	WeekStart time.Time           `json:"week_start"`
	Facility  domain.FacilityType `json:"facility"`
	Sections  []int               `json:"sections"`
	Slots     []domain.TimeSlot   `json:"slots"`
	Days      []Day               `json:"days"`

	bookings map[string]domain.Booking
}

// Block is a rendered merged region.
type Block struct {
	Booking domain.Booking
	Day     int
	Slot    int
	Section int // index into Grid.Sections
	RowSpan int
	ColSpan int
}

// Render builds the week grid starting at the Monday of weekStart. When two
// bookings claim the same cell the one earlier in the input wins.
func Render(bookings []domain.Booking, profile domain.FacilityProfile, weekStart time.Time) Grid {
	monday := domain.WeekStart(weekStart)
	g := Grid{
		WeekStart: monday,
		Facility:  profile.ID,
		Sections:  profile.AllSections(),
		Slots:     domain.TimeSlots,
		Days:      make([]Day, DaysPerWeek),
		bookings:  make(map[string]domain.Booking),
	}

	for d := 0; d < DaysPerWeek; d++ {
		date := monday.AddDate(0, 0, d)
		g.Days[d] = Day{Date: date, Cells: occupancy(bookings, profile, date, g.bookings)}
		merge(g.Days[d].Cells)
	}
	return g
}

func occupancy(bookings []domain.Booking, profile domain.FacilityProfile, date time.Time, seen map[string]domain.Booking) [][]Cell {
	cells := make([][]Cell, len(domain.TimeSlots))
	for i, slot := range domain.TimeSlots {
		row := make([]Cell, len(profile.Sections))
		for j, section := range profile.Sections {
			for _, b := range bookings {
				if b.FacilityType != profile.ID || !domain.SameDate(b.Date, date) {
					continue
				}
				if b.HasSection(section) && b.OccupiesSlot(slot.Start) {
					row[j].BookingID = b.ID
					seen[b.ID] = b
					break
				}
			}
		}
		cells[i] = row
	}
	return cells
}

func merge(cells [][]Cell) {
	for i := range cells {
		for j := range cells[i] {
			c := &cells[i][j]
			if c.Empty() || c.Covered {
				continue
			}
			if i > 0 && cells[i-1][j].BookingID == c.BookingID {
				c.Covered = true
				continue
			}

			rows := 1
			for i+rows < len(cells) && cells[i+rows][j].BookingID == c.BookingID {
				rows++
			}
			cols := 1
			for j+cols < len(cells[i]) && cells[i][j+cols].BookingID == c.BookingID && !cells[i][j+cols].Covered {
				cols++
			}

			c.Start, c.RowSpan, c.ColSpan = true, rows, cols
			for r := i; r < i+rows; r++ {
				for k := j; k < j+cols; k++ {
					if r == i && k == j {
						continue
					}
					cells[r][k].Covered = true
				}
			}
		}
	}
}

// Cell returns the cell at the given day, slot and section indexes.
func (g Grid) Cell(day, slot, section int) Cell {
	return g.Days[day].Cells[slot][section]
}

// Blocks lists every rendered block in day, slot, section order.
func (g Grid) Blocks() []Block {
	var out []Block
	for d, day := range g.Days {
		for i, row := range day.Cells {
			for j, c := range row {
				if !c.Start {
					continue
				}
				out = append(out, Block{
					Booking: g.bookings[c.BookingID],
					Day:     d,
					Slot:    i,
					Section: j,
					RowSpan: c.RowSpan,
					ColSpan: c.ColSpan,
				})
			}
		}
	}
	return out
}
