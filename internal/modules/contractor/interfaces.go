package contractor

import (
	"context"

	"stadium/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Contractor, error)
	GetByID(ctx context.Context, id string) (*domain.Contractor, error)
	Create(ctx context.Context, c *domain.Contractor) error
	Update(ctx context.Context, c *domain.Contractor) error
	Delete(ctx context.Context, id string) (bool, error)
}

// ColorCache holds the computed label -> color map. Get returns nil on a
// miss.
type ColorCache interface {
	Get(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, m map[string]string) error
	Invalidate(ctx context.Context) error
}
