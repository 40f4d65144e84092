package export

import (
	"bytes"
	"context"
	"log"

	"stadium/internal/domain"
	"stadium/internal/weekgrid"
)

// Document is a rendered export ready to send.
type Document struct {
	Name        string
	ContentType string
	Body        []byte
}

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Service struct {
	weeks  WeekSource
	colors ColorSource
}

func NewService(weeks WeekSource, colors ColorSource) *Service {
	return &Service{weeks: weeks, colors: colors}
}

func (s *Service) PDF(ctx context.Context, facility, week string, anonymized bool) (*Document, error) {
	profile, g, _, opts, err := s.load(ctx, facility, week, anonymized)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, g, profile, opts); err != nil {
		return nil, err
	}
	return &Document{
		Name:        FileName(profile, g.WeekStart, anonymized, "pdf"),
		ContentType: contentTypePDF,
		Body:        buf.Bytes(),
	}, nil
}

func (s *Service) XLSX(ctx context.Context, facility, week string, anonymized bool) (*Document, error) {
	profile, g, bookings, opts, err := s.load(ctx, facility, week, anonymized)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, g, bookings, profile, opts); err != nil {
		return nil, err
	}
	return &Document{
		Name:        FileName(profile, g.WeekStart, anonymized, "xlsx"),
		ContentType: contentTypeXLSX,
		Body:        buf.Bytes(),
	}, nil
}

func (s *Service) load(ctx context.Context, facility, week string, anonymized bool) (domain.FacilityProfile, weekgrid.Grid, []domain.Booking, DisplayOptions, error) {
	day, err := domain.ParseDate(week)
	if err != nil {
		return domain.FacilityProfile{}, weekgrid.Grid{}, nil, DisplayOptions{}, ErrInvalidWeek
	}
	profile, monday, bookings, err := s.weeks.Week(ctx, facility, day)
	if err != nil {
		return domain.FacilityProfile{}, weekgrid.Grid{}, nil, DisplayOptions{}, err
	}

	opts := DisplayOptions{Anonymized: anonymized}
	if !anonymized && s.colors != nil {
		colors, err := s.colors.ColorMap(ctx)
		if err != nil {
			// exports still render, with fallback colors
			log.Printf("export_colors_failed facility=%s error=%v", profile.ID, err)
		}
		opts.Colors = colors
	}
	return profile, weekgrid.Render(bookings, profile, monday), bookings, opts, nil
}
