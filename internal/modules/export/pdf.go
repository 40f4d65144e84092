package export

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"stadium/internal/domain"
	"stadium/internal/modules/contractor"
	"stadium/internal/weekgrid"
)

const (
	pageMargin   = 10.0
	timeColWidth = 9.0
	dayRowHeight = 8.0
	secRowHeight = 4.0
	slotHeight   = 4.4
	gridTop      = 28.0
	minFontSize  = 4.0
)

// WritePDF draws the rendered week on one landscape A4 page.
func WritePDF(w io.Writer, g weekgrid.Grid, profile domain.FacilityProfile, opts DisplayOptions) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(weekTitle(profile, g.WeekStart), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	sections := len(g.Sections)
	gridW := pageW - 2*pageMargin - 4*timeColWidth
	secW := gridW / float64(weekgrid.DaysPerWeek*sections)
	dayW := secW * float64(sections)
	left := pageMargin + 2*timeColWidth
	slotTop := gridTop + dayRowHeight + secRowHeight

	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(pageMargin, pageMargin)
	pdf.CellFormat(pageW-2*pageMargin, 6, tr(profile.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(pageW-2*pageMargin, 6, tr(weekTitle(profile, g.WeekStart)), "", 1, "C", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.1)
	pdf.SetFillColor(33, 150, 243)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 7)
	for _, x := range []float64{pageMargin, left + gridW} {
		pdf.SetXY(x, gridTop)
		pdf.CellFormat(2*timeColWidth, dayRowHeight+secRowHeight, "Time", "1", 0, "C", true, 0, "")
	}
	for d, day := range g.Days {
		x := left + float64(d)*dayW
		pdf.SetXY(x, gridTop)
		pdf.CellFormat(dayW, dayRowHeight, fmt.Sprintf("%s %s", day.Date.Weekday(), day.Date.Format("02.01.2006")), "1", 0, "C", true, 0, "")
		for j, s := range g.Sections {
			pdf.SetXY(x+float64(j)*secW, gridTop+dayRowHeight)
			pdf.CellFormat(secW, secRowHeight, fmt.Sprintf("%d", s), "1", 0, "C", true, 0, "")
		}
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 6)
	for i, slot := range g.Slots {
		y := slotTop + float64(i)*slotHeight
		fill := i%2 == 1
		pdf.SetFillColor(250, 250, 250)
		for _, x := range []float64{pageMargin, left + gridW} {
			pdf.SetXY(x, y)
			pdf.CellFormat(timeColWidth, slotHeight, slot.Start, "1", 0, "C", fill, 0, "")
			pdf.CellFormat(timeColWidth, slotHeight, slot.End, "1", 0, "C", fill, 0, "")
		}
		pdf.SetFillColor(255, 255, 255)
		for d := range g.Days {
			for j := range g.Sections {
				pdf.Rect(left+float64(d)*dayW+float64(j)*secW, y, secW, slotHeight, "D")
			}
		}
	}

	blocks := g.Blocks()
	for _, bl := range blocks {
		x := left + float64(bl.Day)*dayW + float64(bl.Section)*secW
		y := slotTop + float64(bl.Slot)*slotHeight
		w, h := float64(bl.ColSpan)*secW, float64(bl.RowSpan)*slotHeight

		r, gr, b := contractor.RGB(opts.color(bl.Booking))
		pdf.SetFillColor(r, gr, b)
		pdf.Rect(x, y, w, h, "FD")

		if label := opts.label(bl.Booking); label != "" {
			drawLabel(pdf, tr(label), x, y, w, h)
		}
	}
	pdf.SetLineWidth(0.4)
	for d := range g.Days {
		pdf.Rect(left+float64(d)*dayW, gridTop, dayW, dayRowHeight+secRowHeight+float64(len(g.Slots))*slotHeight, "D")
	}
	pdf.SetLineWidth(0.1)

	drawLegend(pdf, tr, opts.legend(blocks), slotTop+float64(len(g.Slots))*slotHeight+4)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// drawLabel centers text in the block, shrinking the font until it fits
// and cutting characters below the minimum size.
func drawLabel(pdf *gofpdf.Fpdf, text string, x, y, w, h float64) {
	size := 7.0
	pdf.SetFont("Arial", "B", size)
	for size > minFontSize && pdf.GetStringWidth(text) > w-1 {
		size -= 0.5
		pdf.SetFontSize(size)
	}
	for len(text) > 1 && pdf.GetStringWidth(text) > w-1 {
		text = text[:len(text)-1]
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, h, text, "", 0, "C", false, 0, "")
}

func drawLegend(pdf *gofpdf.Fpdf, tr func(string) string, entries []legendEntry, top float64) {
	if len(entries) == 0 {
		return
	}
	_, pageH := pdf.GetPageSize()
	const box, rowH, colW = 3.5, 4.5, 60.0

	pdf.SetFont("Arial", "B", 8)
	pdf.SetXY(pageMargin, top)
	pdf.CellFormat(30, rowH, "Legend:", "", 0, "L", false, 0, "")

	pdf.SetFont("Arial", "", 7)
	x, y := pageMargin, top+rowH
	for _, e := range entries {
		if y+rowH > pageH-pageMargin/2 {
			x, y = x+colW, top+rowH
		}
		r, g, b := contractor.RGB(e.Color)
		pdf.SetFillColor(r, g, b)
		pdf.Rect(x, y+0.5, box, box, "FD")
		pdf.SetXY(x+box+2, y)
		pdf.CellFormat(colW-box-2, rowH, tr(e.Name), "", 0, "L", false, 0, "")
		y += rowH
	}
}
