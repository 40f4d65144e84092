package contractor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"stadium/internal/database"
	"stadium/internal/domain"
)

type Service struct {
	repo  Repository
	cache ColorCache
}

// NewService accepts a nil cache.
func NewService(repo Repository, cache ColorCache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) List(ctx context.Context) ([]domain.Contractor, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Contractor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || !domain.ValidCategory(domain.ContractorCategory(req.Category)) {
		return nil, ErrValidation
	}

	color := strings.ToLower(req.Color)
	if color == "" {
		var err error
		if color, err = s.nextColor(ctx); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	c := &domain.Contractor{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  domain.ContractorCategory(req.Category),
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*domain.Contractor, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrValidation
		}
		c.Name = name
	}
	if req.Category != nil {
		if !domain.ValidCategory(domain.ContractorCategory(*req.Category)) {
			return nil, ErrValidation
		}
		c.Category = domain.ContractorCategory(*req.Category)
	}
	if req.Color != nil {
		c.Color = strings.ToLower(*req.Color)
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

// ColorMap returns occupant label -> hex color, served from the cache when
// one is configured. Cache failures fall back to the store.
func (s *Service) ColorMap(ctx context.Context) (map[string]string, error) {
	if s.cache != nil {
		m, err := s.cache.Get(ctx)
		if err != nil {
			log.Printf("color_cache_get_failed error=%v", err)
		} else if m != nil {
			return m, nil
		}
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(list))
	for _, c := range list {
		m[c.Name] = c.Color
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, m); err != nil {
			log.Printf("color_cache_set_failed error=%v", err)
		}
	}
	return m, nil
}

// nextColor picks the first palette color no contractor uses yet, cycling
// once the palette is exhausted.
func (s *Service) nextColor(ctx context.Context) (string, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list contractors: %w", err)
	}
	used := make(map[string]bool, len(list))
	for _, c := range list {
		used[strings.ToLower(c.Color)] = true
	}
	for _, p := range Palette {
		if !used[p] {
			return p, nil
		}
	}
	return Palette[len(list)%len(Palette)], nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("color_cache_invalidate_failed error=%v", err)
	}
}
