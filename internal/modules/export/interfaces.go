package export

import (
	"context"
	"time"

	"stadium/internal/domain"
)

// WeekSource loads one facility week of bookings.
type WeekSource interface {
	Week(ctx context.Context, facility string, weekStart time.Time) (domain.FacilityProfile, time.Time, []domain.Booking, error)
}

// ColorSource supplies the occupant label -> color map.
type ColorSource interface {
	ColorMap(ctx context.Context) (map[string]string, error)
}
