package repository

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"stadium/internal/domain"
)

type bookingModel struct {
	ID           string                   `gorm:"column:id;primaryKey;size:36"`
	FacilityType string                   `gorm:"column:facility_type;size:32;not null;index:idx_bookings_facility_date,priority:1"`
	Date         string                   `gorm:"column:booking_date;size:10;not null;index:idx_bookings_facility_date,priority:2"`
	StartTime    string                   `gorm:"column:start_time;size:5;not null"`
	EndTime      string                   `gorm:"column:end_time;size:5;not null"`
	Sections     datatypes.JSONSlice[int] `gorm:"column:sections;not null"`
	Occupant     string                   `gorm:"column:occupant;size:255"`
	Category     string                   `gorm:"column:category;size:64"`
	Closed       bool                     `gorm:"column:closed;not null;default:false"`
	ClosedReason string                   `gorm:"column:closed_reason;size:255"`
	CreatedAt    time.Time                `gorm:"column:created_at"`
	UpdatedAt    time.Time                `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

// bookingSlotModel is one (slot, section) cell held by a non-closed booking.
// The unique index rejects a second booking on the same cell.
type bookingSlotModel struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	BookingID    string `gorm:"column:booking_id;size:36;not null;index"`
	FacilityType string `gorm:"column:facility_type;size:32;not null;uniqueIndex:idx_no_overbooking,priority:1"`
	Date         string `gorm:"column:booking_date;size:10;not null;uniqueIndex:idx_no_overbooking,priority:2"`
	SlotStart    string `gorm:"column:slot_start;size:5;not null;uniqueIndex:idx_no_overbooking,priority:3"`
	Section      int    `gorm:"column:section;not null;uniqueIndex:idx_no_overbooking,priority:4"`
}

func (bookingSlotModel) TableName() string { return "booking_slots" }

type archiveModel struct {
	ID           string         `gorm:"column:id;primaryKey;size:36"`
	WeekStart    string         `gorm:"column:week_start;size:10;not null;uniqueIndex:idx_archive_week,priority:1"`
	WeekEnd      string         `gorm:"column:week_end;size:10;not null"`
	FacilityType string         `gorm:"column:facility_type;size:32;not null;uniqueIndex:idx_archive_week,priority:2"`
	Bookings     datatypes.JSON `gorm:"column:bookings;not null"`
	SavedAt      time.Time      `gorm:"column:saved_at"`
}

func (archiveModel) TableName() string { return "archives" }

type contractorModel struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	Name      string    `gorm:"column:name;size:255;not null;uniqueIndex"`
	Category  string    `gorm:"column:category;size:64;not null"`
	Color     string    `gorm:"column:color;size:7;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (contractorModel) TableName() string { return "contractors" }

type reorganizationModel struct {
	ID           int64                                     `gorm:"column:id;primaryKey;autoIncrement"`
	FacilityType string                                    `gorm:"column:facility_type;size:32;not null;index"`
	Changes      datatypes.JSONSlice[domain.SectionChange] `gorm:"column:changes;not null"`
	CreatedAt    time.Time                                 `gorm:"column:created_at"`
}

func (reorganizationModel) TableName() string { return "reorganization_snapshots" }

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&bookingModel{},
		&bookingSlotModel{},
		&archiveModel{},
		&contractorModel{},
		&reorganizationModel{},
	)
}

func toDomainBooking(m bookingModel) domain.Booking {
	date, _ := domain.ParseDate(m.Date)
	sections := make([]int, len(m.Sections))
	copy(sections, m.Sections)
	return domain.Booking{
		ID:           m.ID,
		FacilityType: domain.FacilityType(m.FacilityType),
		Date:         date,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		Sections:     sections,
		Occupant:     m.Occupant,
		Category:     m.Category,
		Closed:       m.Closed,
		ClosedReason: m.ClosedReason,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toBookingModel(b domain.Booking) bookingModel {
	return bookingModel{
		ID:           b.ID,
		FacilityType: string(b.FacilityType),
		Date:         b.Date.Format(domain.DateLayout),
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Sections:     datatypes.JSONSlice[int](b.Sections),
		Occupant:     b.Occupant,
		Category:     b.Category,
		Closed:       b.Closed,
		ClosedReason: b.ClosedReason,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// slotRows expands a booking into its occupancy cells. Closed bookings hold
// none since they override every section.
func slotRows(b domain.Booking, sections []int) []bookingSlotModel {
	if b.Closed {
		return nil
	}
	var rows []bookingSlotModel
	date := b.Date.Format(domain.DateLayout)
	for _, slot := range domain.SlotsWithin(b.StartTime, b.EndTime) {
		for _, s := range sections {
			rows = append(rows, bookingSlotModel{
				BookingID:    b.ID,
				FacilityType: string(b.FacilityType),
				Date:         date,
				SlotStart:    slot.Start,
				Section:      s,
			})
		}
	}
	return rows
}
