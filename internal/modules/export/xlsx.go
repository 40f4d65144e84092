package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"stadium/internal/domain"
	"stadium/internal/weekgrid"
)

const (
	gridSheet     = "Grid"
	bookingsSheet = "Bookings"

	// first slot row and first section column of the grid sheet (1-based)
	xlsxSlotRow = 4
	xlsxGridCol = 3
)

var bookingsHeader = []string{"Date", "Start", "End", "Sections", "Occupant", "Category"}

// WriteXLSX writes the week as a workbook: the merged grid on one sheet and
// the flat booking list on another.
func WriteXLSX(w io.Writer, g weekgrid.Grid, bookings []domain.Booking, profile domain.FacilityProfile, opts DisplayOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gridSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(bookingsSheet); err != nil {
		return err
	}

	x := &xlsxWriter{f: f, styles: make(map[string]int)}
	x.grid(g, profile, opts)
	x.list(bookings, opts)
	if x.err != nil {
		return fmt.Errorf("render xlsx: %w", x.err)
	}
	return f.Write(w)
}

// xlsxWriter keeps the first error and skips later calls, so the layout
// code reads straight through.
type xlsxWriter struct {
	f      *excelize.File
	styles map[string]int
	err    error
}

func (x *xlsxWriter) set(sheet string, col, row int, v any) {
	if x.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		x.err = err
		return
	}
	x.err = x.f.SetCellValue(sheet, cell, v)
}

func (x *xlsxWriter) area(sheet string, col, row, cols, rows int, style int, merge bool) {
	if x.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		x.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(col+cols-1, row+rows-1)
	if err != nil {
		x.err = err
		return
	}
	if merge && (cols > 1 || rows > 1) {
		if x.err = x.f.MergeCell(sheet, from, to); x.err != nil {
			return
		}
	}
	x.err = x.f.SetCellStyle(sheet, from, to, style)
}

// style returns a bordered, centered style with the given fill ("" for
// none), cached per color.
func (x *xlsxWriter) style(fill string, bold bool) int {
	key := fmt.Sprintf("%s/%t", fill, bold)
	if id, ok := x.styles[key]; ok || x.err != nil {
		return id
	}
	s := &excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Font:      &excelize.Font{Bold: bold, Size: 9},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	}
	if fill != "" {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.ToUpper(strings.TrimPrefix(fill, "#"))}}
	}
	id, err := x.f.NewStyle(s)
	if err != nil {
		x.err = err
		return 0
	}
	x.styles[key] = id
	return id
}

func (x *xlsxWriter) grid(g weekgrid.Grid, profile domain.FacilityProfile, opts DisplayOptions) {
	sections := len(g.Sections)
	rightCol := xlsxGridCol + weekgrid.DaysPerWeek*sections
	header := x.style("#2196f3", true)
	plain := x.style("", false)

	x.set(gridSheet, 1, 1, weekTitle(profile, g.WeekStart))
	for _, col := range []int{1, rightCol} {
		x.set(gridSheet, col, 2, "Time")
		x.area(gridSheet, col, 2, 2, 2, header, true)
	}
	for d, day := range g.Days {
		col := xlsxGridCol + d*sections
		x.set(gridSheet, col, 2, fmt.Sprintf("%s %s", day.Date.Weekday(), day.Date.Format("02.01.2006")))
		x.area(gridSheet, col, 2, sections, 1, header, true)
		for j, s := range g.Sections {
			x.set(gridSheet, col+j, 3, s)
		}
		x.area(gridSheet, col, 3, sections, 1, header, false)
	}

	for i, slot := range g.Slots {
		row := xlsxSlotRow + i
		for _, col := range []int{1, rightCol} {
			x.set(gridSheet, col, row, slot.Start)
			x.set(gridSheet, col+1, row, slot.End)
		}
		x.area(gridSheet, 1, row, rightCol+1, 1, plain, false)
	}

	for _, bl := range g.Blocks() {
		col := xlsxGridCol + bl.Day*sections + bl.Section
		row := xlsxSlotRow + bl.Slot
		x.set(gridSheet, col, row, opts.label(bl.Booking))
		x.area(gridSheet, col, row, bl.ColSpan, bl.RowSpan, x.style(opts.color(bl.Booking), true), true)
	}

	if x.err == nil {
		last, _ := excelize.ColumnNumberToName(rightCol - 1)
		x.err = x.f.SetColWidth(gridSheet, "C", last, 4)
	}
}

func (x *xlsxWriter) list(bookings []domain.Booking, opts DisplayOptions) {
	for i, h := range bookingsHeader {
		x.set(bookingsSheet, i+1, 1, h)
	}
	x.area(bookingsSheet, 1, 1, len(bookingsHeader), 1, x.style("#2196f3", true), false)

	for i, b := range bookings {
		row := i + 2
		occupant := b.Label()
		if opts.Anonymized && !b.Closed {
			occupant = ""
		}
		x.set(bookingsSheet, 1, row, b.Date.Format(domain.DateLayout))
		x.set(bookingsSheet, 2, row, b.StartTime)
		x.set(bookingsSheet, 3, row, b.EndTime)
		x.set(bookingsSheet, 4, row, domain.FormatSections(b.Sections))
		x.set(bookingsSheet, 5, row, occupant)
		x.set(bookingsSheet, 6, row, b.Category)
	}
	if x.err == nil {
		x.err = x.f.SetColWidth(bookingsSheet, "A", "F", 16)
	}
}
