package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"

	"stadium/internal/config"
	"stadium/internal/database"
	"stadium/internal/domain"
	"stadium/internal/modules/booking"
	"stadium/internal/modules/contractor"
	"stadium/internal/repository"
)

func main() {
	demo := flag.Bool("demo", true, "also book a demo week on track-6")
	reset := flag.Bool("reset", false, "delete existing bookings before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	ctx := context.Background()
	contractorRepo := repository.NewContractorRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	svc := booking.NewService(bookingRepo, repository.NewReorganizationRepository(db), nil, booking.AllocationIncremental)

	if *reset {
		log.Println("Cleaning old bookings...")
		for _, p := range domain.Facilities() {
			n, err := svc.DeleteAll(ctx, string(p.ID))
			if err != nil {
				log.Fatalf("delete %s: %v", p.ID, err)
			}
			log.Printf("deleted facility=%s bookings=%d", p.ID, n)
		}
	}

	// ================== CONTRACTORS ==================
	log.Println("Creating contractors...")
	existing, err := contractorRepo.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.Name] = true
	}
	created := 0
	now := time.Now().UTC()
	for _, c := range contractor.Defaults {
		if known[c.Name] {
			continue
		}
		c.ID = uuid.NewString()
		c.CreatedAt, c.UpdatedAt = now, now
		if err := contractorRepo.Create(ctx, &c); err != nil {
			log.Fatalf("create contractor %s: %v", c.Name, err)
		}
		created++
	}
	log.Printf("contractors created=%d skipped=%d", created, len(contractor.Defaults)-created)

	if !*demo {
		return
	}

	// ================== DEMO WEEK ==================
	log.Println("Booking demo week...")
	monday := domain.WeekStart(time.Now())
	sunday := monday.AddDate(0, 0, 6)
	from, to := monday.Format(domain.DateLayout), sunday.Format(domain.DateLayout)

	batches := []booking.BatchRequest{
		{
			DateFrom: from, DateTo: to, Occupant: "AKL", Category: string(domain.CategorySportsTraining),
			Patterns: []domain.WeekdayPattern{
				{Weekday: 1, StartTime: "16:00", EndTime: "18:00", RequestedCount: 3},
				{Weekday: 3, StartTime: "16:00", EndTime: "18:00", RequestedCount: 3},
			},
		},
		{
			DateFrom: from, DateTo: to, Occupant: "Adidas Runners", Category: string(domain.CategoryRunningGroup),
			Consecutive: true,
			Patterns: []domain.WeekdayPattern{
				{Weekday: 2, StartTime: "18:30", EndTime: "20:00", RequestedCount: 2},
				{Weekday: 4, StartTime: "18:30", EndTime: "20:00", RequestedCount: 2},
			},
		},
		{
			DateFrom: from, DateTo: to, Occupant: "OKS SKRA", Category: string(domain.CategorySportsTraining),
			Patterns: []domain.WeekdayPattern{
				{Weekday: 1, StartTime: "17:00", EndTime: "19:00", RequestedCount: 2},
				{Weekday: 5, StartTime: "07:00", EndTime: "09:00", RequestedCount: 6},
			},
		},
	}
	reason := "Maintenance"
	batches = append(batches, booking.BatchRequest{
		DateFrom: from, DateTo: to, ClosedReason: &reason,
		Patterns: []domain.WeekdayPattern{{Weekday: 0, StartTime: "07:00", EndTime: "12:00"}},
	})

	for _, req := range batches {
		out, err := svc.CreateBatch(ctx, string(domain.FacilityTrack6), req)
		if err != nil {
			log.Printf("demo batch occupant=%q skipped: %v", req.Occupant, err)
			continue
		}
		log.Printf("demo batch occupant=%q bookings=%d", req.Occupant, len(out))
	}
	log.Println("Seed completed")
}
