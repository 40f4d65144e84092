package contractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stadium/internal/database"
	"stadium/internal/domain"
	"stadium/internal/repository"
)

type fakeCache struct {
	data        map[string]string
	gets, sets  int
	invalidated int
	getErr      error
}

func (f *fakeCache) Get(ctx context.Context) (map[string]string, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data, nil
}

func (f *fakeCache) Set(ctx context.Context, m map[string]string) error {
	f.sets++
	f.data = m
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.invalidated++
	f.data = nil
	return nil
}

func setupService(t *testing.T, cache ColorCache) *Service {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:contractor_%s?mode=memory&cache=shared", name), database.Options{Silent: true})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	return NewService(repository.NewContractorRepository(db), cache)
}

func TestService_CreateAssignsPaletteColor(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateRequest{Name: "AKL", Category: "running-group"})
	require.NoError(t, err)
	assert.Equal(t, Palette[0], first.Color)
	assert.NotEmpty(t, first.ID)

	second, err := svc.Create(ctx, CreateRequest{Name: "KS", Category: "sports-training"})
	require.NoError(t, err)
	assert.Equal(t, Palette[1], second.Color)

	explicit, err := svc.Create(ctx, CreateRequest{Name: "Lions", Category: "sports-training", Color: "#ABCDEF"})
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", explicit.Color)
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "  ", Category: "running-group"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, CreateRequest{Name: "AKL", Category: "closed"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateDuplicateName(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "AKL", Category: "running-group"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Name: "AKL", Category: "sports-training"})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateRequest{Name: "AKL", Category: "running-group"})
	require.NoError(t, err)

	name, color := "AKL Juniors", "#112233"
	updated, err := svc.Update(ctx, c.ID, UpdateRequest{Name: &name, Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "AKL Juniors", updated.Name)
	assert.Equal(t, "#112233", updated.Color)
	assert.Equal(t, domain.CategoryRunningGroup, updated.Category)

	_, err = svc.Update(ctx, "missing", UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrNotFound)
}

func TestService_ColorMapUsesCache(t *testing.T) {
	cache := &fakeCache{}
	svc := setupService(t, cache)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "AKL", Category: "running-group", Color: "#93c5fd"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	m, err := svc.ColorMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"AKL": "#93c5fd"}, m)
	assert.Equal(t, 1, cache.sets)

	m, err = svc.ColorMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#93c5fd", m["AKL"])
	assert.Equal(t, 1, cache.sets, "second read is served from the cache")

	_, err = svc.Create(ctx, CreateRequest{Name: "KS", Category: "sports-training", Color: "#86efac"})
	require.NoError(t, err)
	m, err = svc.ColorMap(ctx)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, 2, cache.sets)
}

func TestService_ColorMapFallsBackOnCacheError(t *testing.T) {
	cache := &fakeCache{getErr: errors.New("connection refused")}
	svc := setupService(t, cache)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "AKL", Category: "running-group", Color: "#93c5fd"})
	require.NoError(t, err)

	m, err := svc.ColorMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#93c5fd", m["AKL"])
}

func TestColorFor(t *testing.T) {
	colors := map[string]string{"AKL": "#93c5fd"}

	assert.Equal(t, "#93c5fd", ColorFor(domain.Booking{Occupant: "AKL"}, colors))
	assert.Equal(t, FallbackColor, ColorFor(domain.Booking{Occupant: "Unknown"}, colors))
	assert.Equal(t, ClosedColor, ColorFor(domain.Booking{Closed: true, Occupant: "AKL"}, colors))
}

func TestRGB(t *testing.T) {
	r, g, b := RGB("#93c5fd")
	assert.Equal(t, []int{0x93, 0xc5, 0xfd}, []int{r, g, b})

	r, g, b = RGB("nope")
	fr, fg, fb := RGB(FallbackColor)
	assert.Equal(t, []int{fr, fg, fb}, []int{r, g, b})
}
