package booking

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"stadium/internal/availability"
	"stadium/internal/database"
	"stadium/internal/domain"
	"stadium/internal/weekgrid"
)

type Service struct {
	bookings BookingRepository
	reorgs   ReorganizationRepository
	events   Publisher
	mode     AllocationMode
	now      func() time.Time
}

func NewService(bookings BookingRepository, reorgs ReorganizationRepository, events Publisher, mode AllocationMode) *Service {
	if mode == "" {
		mode = AllocationIncremental
	}
	return &Service{
		bookings: bookings,
		reorgs:   reorgs,
		events:   events,
		mode:     mode,
		now:      time.Now,
	}
}

func (s *Service) Facility(id string) (domain.FacilityProfile, error) {
	p, ok := domain.Facility(domain.FacilityType(id))
	if !ok {
		return domain.FacilityProfile{}, fmt.Errorf("%w: %q", ErrUnknownFacility, id)
	}
	return p, nil
}

// List returns the facility bookings dated within [from, to], ordered by
// date, start and id.
func (s *Service) List(ctx context.Context, facility string, from, to time.Time) ([]domain.Booking, error) {
	p, err := s.Facility(facility)
	if err != nil {
		return nil, err
	}
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidRequest)
	}
	out, err := s.bookings.List(ctx, p.ID, from, to)
	if err != nil {
		return nil, err
	}
	domain.SortBookings(out)
	return out, nil
}

// Week loads the Monday-based week containing weekStart.
func (s *Service) Week(ctx context.Context, facility string, weekStart time.Time) (domain.FacilityProfile, time.Time, []domain.Booking, error) {
	p, err := s.Facility(facility)
	if err != nil {
		return domain.FacilityProfile{}, time.Time{}, nil, err
	}
	monday := domain.WeekStart(weekStart)
	out, err := s.bookings.List(ctx, p.ID, monday, monday.AddDate(0, 0, weekgrid.DaysPerWeek-1))
	if err != nil {
		return domain.FacilityProfile{}, time.Time{}, nil, err
	}
	domain.SortBookings(out)
	return p, monday, out, nil
}

func (s *Service) Grid(ctx context.Context, facility string, weekStart time.Time) (weekgrid.Grid, error) {
	p, monday, bookings, err := s.Week(ctx, facility, weekStart)
	if err != nil {
		return weekgrid.Grid{}, err
	}
	return weekgrid.Render(bookings, p, monday), nil
}

// Availability reports the free sections of a window and, when a count is
// given, the sections the chosen policy would allocate.
func (s *Service) Availability(ctx context.Context, facility string, req AvailabilityRequest) (*AvailabilityResponse, error) {
	p, err := s.Facility(facility)
	if err != nil {
		return nil, err
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	existing, err := s.bookings.List(ctx, p.ID, date, date)
	if err != nil {
		return nil, err
	}

	free, err := availability.FreeSections(existing, p, date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	resp := &AvailabilityResponse{
		Date:      date.Format(domain.DateLayout),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Free:      free,
		Sections:  []int{},
	}
	if req.Count > 0 {
		sections, err := availability.ResolveSections(existing, p, availability.Request{
			Date:        date,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Count:       req.Count,
			Consecutive: req.Consecutive,
		})
		if err != nil {
			return nil, err
		}
		if sections != nil {
			resp.Sections = sections
		}
	}
	return resp, nil
}

// CreateBatch expands the request, places every candidate and commits the
// whole set in one transaction. Any candidate that cannot be placed rejects
// the batch with a *BatchRejectedError.
func (s *Service) CreateBatch(ctx context.Context, facility string, req BatchRequest) ([]domain.Booking, error) {
	p, err := s.Facility(facility)
	if err != nil {
		return nil, err
	}
	from, err := domain.ParseDate(req.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	to, err := domain.ParseDate(req.DateTo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	candidates, err := Expand(p, from, to, req.Patterns, req.Occupant, req.Category, req.ClosedReason)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no dates in range match the weekday patterns", ErrInvalidRequest)
	}

	existing, err := s.bookings.List(ctx, p.ID, from, to)
	if err != nil {
		return nil, err
	}

	res, err := resolve(p, candidates, existing, req.Consecutive, s.mode)
	if err != nil {
		return nil, err
	}
	if len(res.failures) > 0 {
		shown := res.failures
		if len(shown) > MaxBatchMessages {
			shown = shown[:MaxBatchMessages]
		}
		log.Printf("booking_batch_rejected facility=%s candidates=%d failed=%d mode=%s", p.ID, len(candidates), len(res.failures), s.mode)
		return nil, &BatchRejectedError{Messages: shown, Failed: len(res.failures), Total: len(candidates)}
	}

	now := s.now().UTC()
	for i := range res.accepted {
		if err := res.accepted[i].Validate(p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		res.accepted[i].ID = uuid.NewString()
		res.accepted[i].CreatedAt = now
		res.accepted[i].UpdatedAt = now
	}

	if err := s.bookings.CreateBatch(ctx, res.accepted); err != nil {
		if database.IsUniqueViolation(err) {
			log.Printf("booking_batch_overbooking facility=%s candidates=%d", p.ID, len(candidates))
			return nil, ErrOverbooking
		}
		return nil, err
	}

	log.Printf("booking_batch_created facility=%s count=%d closed=%t mode=%s", p.ID, len(res.accepted), req.ClosedReason != nil, s.mode)
	s.publish(domain.EventBookingsCreated, p.ID, res.accepted)
	return res.accepted, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	b, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNotFound
	}
	s.publish(domain.EventBookingsDeleted, b.FacilityType, []domain.Booking{*b})
	return nil
}

func (s *Service) DeleteAll(ctx context.Context, facility string) (int64, error) {
	p, err := s.Facility(facility)
	if err != nil {
		return 0, err
	}
	n, err := s.bookings.DeleteAll(ctx, p.ID)
	if err != nil {
		return 0, err
	}
	log.Printf("booking_delete_all facility=%s count=%d", p.ID, n)
	s.emit(domain.ScheduleEvent{Type: domain.EventBookingsDeleted, Facility: p.ID, Count: int(n)})
	return n, nil
}

// Plan computes the reorganization for a facility without writing it.
func (s *Service) Plan(ctx context.Context, facility string) (ReorganizePlan, error) {
	p, err := s.Facility(facility)
	if err != nil {
		return ReorganizePlan{}, err
	}
	all, err := s.bookings.ListAll(ctx, p.ID)
	if err != nil {
		return ReorganizePlan{}, err
	}
	return Reorganize(all, p), nil
}

// Reorganize applies the reorganization plan and keeps the previous
// section sets so the pass can be undone.
func (s *Service) Reorganize(ctx context.Context, facility string) (*ReorganizeResponse, error) {
	plan, err := s.Plan(ctx, facility)
	if err != nil {
		return nil, err
	}
	fac := domain.FacilityType(facility)

	resp := &ReorganizeResponse{Warnings: make([]string, 0, len(plan.Warnings))}
	for _, w := range plan.Warnings {
		log.Printf("reorganize_skip facility=%s booking_id=%s %s", fac, w.BookingID, w)
		resp.Warnings = append(resp.Warnings, w.String())
	}
	if len(plan.Updates) == 0 {
		return resp, nil
	}

	snapshot := domain.ReorganizationSnapshot{FacilityType: fac, CreatedAt: s.now().UTC()}
	updates := make([]domain.SectionChange, 0, len(plan.Updates))
	affected := make([]domain.Booking, 0, len(plan.Updates))
	for _, u := range plan.Updates {
		snapshot.Changes = append(snapshot.Changes, domain.SectionChange{BookingID: u.Booking.ID, Sections: u.Booking.Sections})
		updates = append(updates, domain.SectionChange{BookingID: u.Booking.ID, Sections: u.Sections})
		affected = append(affected, u.Booking)
	}

	if err := s.reorgs.Apply(ctx, snapshot, updates); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrOverbooking
		}
		return nil, err
	}

	resp.Updated = len(updates)
	log.Printf("reorganize_applied facility=%s updated=%d warnings=%d", fac, resp.Updated, len(resp.Warnings))
	s.publish(domain.EventBookingsReorganized, fac, affected)
	return resp, nil
}

// UndoReorganization restores the section sets saved by the last
// reorganization of the facility. Bookings deleted since are skipped.
func (s *Service) UndoReorganization(ctx context.Context, facility string) (int, error) {
	p, err := s.Facility(facility)
	if err != nil {
		return 0, err
	}
	snap, err := s.reorgs.Latest(ctx, p.ID)
	if err != nil {
		return 0, err
	}
	if snap == nil {
		return 0, ErrNothingToUndo
	}

	n, err := s.reorgs.Restore(ctx, *snap)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, ErrOverbooking
		}
		return 0, err
	}
	log.Printf("reorganize_undone facility=%s restored=%d snapshot_id=%d", p.ID, n, snap.ID)
	s.emit(domain.ScheduleEvent{Type: domain.EventBookingsReorganized, Facility: p.ID, Count: n})
	return n, nil
}

func (s *Service) publish(t domain.ScheduleEventType, facility domain.FacilityType, bookings []domain.Booking) {
	seen := make(map[string]bool)
	var dates []string
	for _, b := range bookings {
		d := b.Date.Format(domain.DateLayout)
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	s.emit(domain.ScheduleEvent{Type: t, Facility: facility, Dates: dates, Count: len(bookings)})
}

func (s *Service) emit(ev domain.ScheduleEvent) {
	if s.events == nil {
		return
	}
	ev.At = s.now().UTC()
	s.events.Publish(ev)
}
