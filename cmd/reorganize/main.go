package main

import (
	"context"
	"flag"
	"log"

	"stadium/internal/config"
	"stadium/internal/database"
	"stadium/internal/domain"
	"stadium/internal/modules/booking"
	"stadium/internal/repository"
)

func main() {
	facility := flag.String("facility", "", "facility id (default: every facility)")
	dryRun := flag.Bool("dry-run", false, "print the plan without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	svc := booking.NewService(
		repository.NewBookingRepository(db),
		repository.NewReorganizationRepository(db),
		nil,
		booking.AllocationIncremental,
	)

	targets := []string{*facility}
	if *facility == "" {
		targets = targets[:0]
		for _, p := range domain.Facilities() {
			targets = append(targets, string(p.ID))
		}
	}

	ctx := context.Background()
	failed := false
	for _, f := range targets {
		if *dryRun {
			plan, err := svc.Plan(ctx, f)
			if err != nil {
				log.Printf("reorganize plan failed facility=%s error=%v", f, err)
				failed = true
				continue
			}
			for _, u := range plan.Updates {
				log.Printf("would move facility=%s booking_id=%s date=%s window=%s-%s occupant=%q sections=[%s] -> [%s]",
					f, u.Booking.ID, u.Booking.Date.Format(domain.DateLayout), u.Booking.StartTime, u.Booking.EndTime,
					u.Booking.Label(), domain.FormatSections(u.Booking.Sections), domain.FormatSections(u.Sections))
			}
			for _, w := range plan.Warnings {
				log.Printf("would skip facility=%s %s", f, w)
			}
			log.Printf("reorganize dry-run facility=%s updates=%d warnings=%d", f, len(plan.Updates), len(plan.Warnings))
			continue
		}

		res, err := svc.Reorganize(ctx, f)
		if err != nil {
			log.Printf("reorganize failed facility=%s error=%v", f, err)
			failed = true
			continue
		}
		log.Printf("reorganize completed facility=%s updated=%d warnings=%d", f, res.Updated, len(res.Warnings))
	}
	if failed {
		log.Fatal("reorganize finished with errors")
	}
}
