package booking

import (
	"context"
	"time"

	"stadium/internal/domain"
)

// BookingRepository is the booking store.
type BookingRepository interface {
	// List returns the facility bookings dated within [from, to].
	List(ctx context.Context, facility domain.FacilityType, from, to time.Time) ([]domain.Booking, error)
	ListAll(ctx context.Context, facility domain.FacilityType) ([]domain.Booking, error)
	// CreateBatch writes all bookings in one transaction.
	CreateBatch(ctx context.Context, bookings []domain.Booking) error
	Delete(ctx context.Context, id string) (*domain.Booking, error)
	// DeleteAll removes every booking of the facility, or of every facility
	// when facility is empty.
	DeleteAll(ctx context.Context, facility domain.FacilityType) (int64, error)
}

// ReorganizationRepository persists section rewrites together with the
// snapshot needed to undo them.
type ReorganizationRepository interface {
	Apply(ctx context.Context, snapshot domain.ReorganizationSnapshot, updates []domain.SectionChange) error
	Latest(ctx context.Context, facility domain.FacilityType) (*domain.ReorganizationSnapshot, error)
	Restore(ctx context.Context, snapshot domain.ReorganizationSnapshot) (int, error)
}

// Publisher receives schedule change notifications after commits.
type Publisher interface {
	Publish(ev domain.ScheduleEvent)
}
