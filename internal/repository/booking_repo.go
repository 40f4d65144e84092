package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"stadium/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) List(ctx context.Context, facility domain.FacilityType, from, to time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("facility_type = ? AND booking_date BETWEEN ? AND ?", string(facility), from.Format(domain.DateLayout), to.Format(domain.DateLayout)).
		Order("booking_date, start_time, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) ListAll(ctx context.Context, facility domain.FacilityType) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("facility_type = ?", string(facility)).
		Order("booking_date, start_time, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// CreateBatch inserts the bookings and their occupancy cells in one
// transaction. A taken cell fails the whole batch on idx_no_overbooking.
func (r *BookingRepository) CreateBatch(ctx context.Context, bookings []domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		models := make([]bookingModel, 0, len(bookings))
		var slots []bookingSlotModel
		for _, b := range bookings {
			models = append(models, toBookingModel(b))
			slots = append(slots, slotRows(b, b.Sections)...)
		}
		if err := tx.CreateInBatches(&models, 100).Error; err != nil {
			return err
		}
		if len(slots) > 0 {
			if err := tx.CreateInBatches(&slots, 500).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes one booking and returns it, or nil when no booking has id.
func (r *BookingRepository) Delete(ctx context.Context, id string) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m bookingModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("booking_id = ?", id).Delete(&bookingSlotModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&bookingModel{}, "id = ?", id).Error; err != nil {
			return err
		}
		b := toDomainBooking(m)
		out = &b
		return nil
	})
	return out, err
}

// DeleteAll removes every booking of facility, or all bookings when
// facility is empty.
func (r *BookingRepository) DeleteAll(ctx context.Context, facility domain.FacilityType) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		bookings := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if facility != "" {
			slots = slots.Where("facility_type = ?", string(facility))
			bookings = bookings.Where("facility_type = ?", string(facility))
		}
		if err := slots.Delete(&bookingSlotModel{}).Error; err != nil {
			return err
		}
		res := bookings.Delete(&bookingModel{})
		if res.Error != nil {
			return res.Error
		}
		n = res.RowsAffected
		return nil
	})
	return n, err
}

// rewriteSections replaces the section sets of the given bookings inside
// tx. All old cells are dropped before any new one is written so bookings
// may swap sections.
func rewriteSections(tx *gorm.DB, changes []domain.SectionChange) (int, error) {
	type target struct {
		booking  bookingModel
		sections []int
	}
	var found []target
	for _, c := range changes {
		var m bookingModel
		if err := tx.First(&m, "id = ?", c.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return 0, err
		}
		found = append(found, target{booking: m, sections: c.Sections})
	}
	if len(found) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(found))
	for _, f := range found {
		ids = append(ids, f.booking.ID)
	}
	if err := tx.Where("booking_id IN ?", ids).Delete(&bookingSlotModel{}).Error; err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	var slots []bookingSlotModel
	for _, f := range found {
		err := tx.Model(&bookingModel{}).Where("id = ?", f.booking.ID).Updates(map[string]any{
			"sections":   datatypes.JSONSlice[int](f.sections),
			"updated_at": now,
		}).Error
		if err != nil {
			return 0, err
		}
		slots = append(slots, slotRows(toDomainBooking(f.booking), f.sections)...)
	}
	if len(slots) > 0 {
		if err := tx.CreateInBatches(&slots, 500).Error; err != nil {
			return 0, err
		}
	}
	return len(found), nil
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainBooking(m))
	}
	return out
}
