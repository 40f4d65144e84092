package archive

import (
	"context"
	"time"

	"stadium/internal/domain"
)

type Repository interface {
	List(ctx context.Context, facility domain.FacilityType) ([]domain.ArchiveSnapshot, error)
	Save(ctx context.Context, a domain.ArchiveSnapshot) (*domain.ArchiveSnapshot, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.ArchiveSnapshot, error)
}

// WeekSource loads the live bookings of one facility week. The booking
// service satisfies it.
type WeekSource interface {
	Week(ctx context.Context, facility string, weekStart time.Time) (domain.FacilityProfile, time.Time, []domain.Booking, error)
}
