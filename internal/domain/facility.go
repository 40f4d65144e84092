package domain

type FacilityType string

const (
	FacilityTrack6 FacilityType = "track-6"
	FacilityTrack8 FacilityType = "track-8"
	FacilityRugby  FacilityType = "rugby"
)

// FacilityProfile describes a bookable facility. Sections are 1..N.
type FacilityProfile struct {
	ID           FacilityType `json:"id"`
	Name         string       `json:"name"`
	Sections     []int        `json:"sections"`
	SectionLabel string       `json:"section_label"`
}

func (p FacilityProfile) SectionCount() int {
	return len(p.Sections)
}

func (p FacilityProfile) HasSection(n int) bool {
	return n >= 1 && n <= len(p.Sections)
}

// AllSections returns a fresh copy of the full section set.
func (p FacilityProfile) AllSections() []int {
	out := make([]int, len(p.Sections))
	copy(out, p.Sections)
	return out
}

func newProfile(id FacilityType, name, label string, n int) FacilityProfile {
	sections := make([]int, n)
	for i := range sections {
		sections[i] = i + 1
	}
	return FacilityProfile{ID: id, Name: name, Sections: sections, SectionLabel: label}
}

var facilities = []FacilityProfile{
	newProfile(FacilityTrack6, "6-lane running track", "Track", 6),
	newProfile(FacilityTrack8, "8-lane running track", "Track", 8),
	newProfile(FacilityRugby, "Rugby pitch", "Half", 2),
}

// Facility looks up a profile by id.
func Facility(id FacilityType) (FacilityProfile, bool) {
	for _, f := range facilities {
		if f.ID == id {
			return f, true
		}
	}
	return FacilityProfile{}, false
}

// Facilities returns every known profile in display order.
func Facilities() []FacilityProfile {
	out := make([]FacilityProfile, len(facilities))
	copy(out, facilities)
	return out
}
