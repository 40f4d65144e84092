package contractor

import (
	"strconv"
	"strings"

	"stadium/internal/domain"
)

// Palette is the set of colors offered for contractors.
var Palette = []string{
	"#93c5fd", "#86efac", "#d8b4fe", "#fdba74",
	"#fca5a5", "#5eead4", "#f9a8d4", "#a5b4fc",
	"#fde047", "#67e8f9", "#bef264", "#6ee7b7",
	"#c4b5fd", "#fda4af", "#fbbf24", "#d1d5db",
}

const (
	FallbackColor = "#dcdcdc"
	ClosedColor   = "#fbbf24"
)

// CategoryColors color anonymized exports.
var CategoryColors = map[domain.ContractorCategory]string{
	domain.CategoryRunningGroup:   "#93c5fd",
	domain.CategorySportsTraining: "#86efac",
	domain.CategoryClosed:         ClosedColor,
}

var CategoryNames = map[domain.ContractorCategory]string{
	domain.CategoryRunningGroup:   "Running group",
	domain.CategorySportsTraining: "Sports training",
	domain.CategoryClosed:         "Facility closed",
}

// Defaults seeds a fresh database.
var Defaults = []domain.Contractor{
	{Name: "OKS SKRA", Category: domain.CategorySportsTraining, Color: "#93c5fd"},
	{Name: "KS CZEMPION", Category: domain.CategorySportsTraining, Color: "#86efac"},
	{Name: "AKL", Category: domain.CategorySportsTraining, Color: "#d8b4fe"},
	{Name: "SGH", Category: domain.CategorySportsTraining, Color: "#fca5a5"},
	{Name: "Sword Athletics Club", Category: domain.CategorySportsTraining, Color: "#c4b5fd"},
	{Name: "Aktywna Warszawa", Category: domain.CategoryRunningGroup, Color: "#5eead4"},
	{Name: "ZabieganeDni", Category: domain.CategoryRunningGroup, Color: "#f9a8d4"},
	{Name: "Adidas Runners", Category: domain.CategoryRunningGroup, Color: "#a5b4fc"},
	{Name: "Run Club", Category: domain.CategoryRunningGroup, Color: "#fde047"},
}

// ColorFor resolves a booking's display color from the label -> color map.
// Labels match case-insensitively as a fallback.
func ColorFor(b domain.Booking, colors map[string]string) string {
	if b.Closed {
		return ClosedColor
	}
	if c, ok := colors[b.Occupant]; ok {
		return c
	}
	for name, c := range colors {
		if strings.EqualFold(name, b.Occupant) {
			return c
		}
	}
	return FallbackColor
}

// CategoryColorFor is the anonymized color of a booking. Bookings without a
// category fall back to sports training.
func CategoryColorFor(b domain.Booking) string {
	if b.Closed {
		return CategoryColors[domain.CategoryClosed]
	}
	if c, ok := CategoryColors[domain.ContractorCategory(b.Category)]; ok {
		return c
	}
	return CategoryColors[domain.CategorySportsTraining]
}

// RGB splits "#rrggbb" into components. Malformed input yields the
// fallback gray.
func RGB(hex string) (int, int, int) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return RGB(FallbackColor)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB(FallbackColor)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
