package domain

import "time"

// ArchiveSnapshot is an immutable copy of one facility week.
type ArchiveSnapshot struct {
	ID           string       `json:"id"`
	WeekStart    string       `json:"week_start"`
	WeekEnd      string       `json:"week_end"`
	FacilityType FacilityType `json:"facility_type"`
	Bookings     []Booking    `json:"bookings"`
	SavedAt      time.Time    `json:"saved_at"`
}

// SectionChange records a booking's section set before a rewrite.
type SectionChange struct {
	BookingID string `json:"booking_id"`
	Sections  []int  `json:"sections"`
}

// ReorganizationSnapshot keeps what the last reorganization overwrote so it
// can be undone.
type ReorganizationSnapshot struct {
	ID           int64           `json:"id"`
	FacilityType FacilityType    `json:"facility_type"`
	Changes      []SectionChange `json:"changes"`
	CreatedAt    time.Time       `json:"created_at"`
}
