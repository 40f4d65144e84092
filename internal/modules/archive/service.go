package archive

import (
	"context"
	"io"
	"log"
	"time"

	"stadium/internal/domain"
)

type Service struct {
	repo  Repository
	weeks WeekSource
	now   func() time.Time
}

func NewService(repo Repository, weeks WeekSource) *Service {
	return &Service{repo: repo, weeks: weeks, now: time.Now}
}

func (s *Service) List(ctx context.Context, facility string) ([]domain.ArchiveSnapshot, error) {
	if facility != "" {
		if _, ok := domain.Facility(domain.FacilityType(facility)); !ok {
			return nil, ErrUnknownFacility
		}
	}
	return s.repo.List(ctx, domain.FacilityType(facility))
}

func (s *Service) Get(ctx context.Context, id string) (*domain.ArchiveSnapshot, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// Save copies the current bookings of the week containing week into the
// archive, replacing an earlier snapshot of the same facility week.
func (s *Service) Save(ctx context.Context, facility, week string) (*domain.ArchiveSnapshot, error) {
	day, err := domain.ParseDate(week)
	if err != nil {
		return nil, ErrInvalidWeek
	}
	profile, monday, bookings, err := s.weeks.Week(ctx, facility, day)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, domain.ArchiveSnapshot{
		WeekStart:    monday.Format(domain.DateLayout),
		WeekEnd:      monday.AddDate(0, 0, 6).Format(domain.DateLayout),
		FacilityType: profile.ID,
		Bookings:     bookings,
		SavedAt:      s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	log.Printf("archive_saved facility=%s week=%s bookings=%d", profile.ID, saved.WeekStart, len(bookings))
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ExportCSV writes every snapshot as one CSV document.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	all, err := s.repo.List(ctx, "")
	if err != nil {
		return err
	}
	return WriteCSV(w, all, s.now())
}
