package booking

import "stadium/internal/domain"

type BatchRequest struct {
	DateFrom     string                  `json:"date_from" validate:"required"`
	DateTo       string                  `json:"date_to" validate:"required"`
	Patterns     []domain.WeekdayPattern `json:"patterns" validate:"required,min=1,dive"`
	Occupant     string                  `json:"occupant"`
	Category     string                  `json:"category"`
	Consecutive  bool                    `json:"consecutive"`
	ClosedReason *string                 `json:"closed_reason"`
}

type AvailabilityRequest struct {
	Date        string `json:"date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
	Count       int    `json:"count" validate:"min=0"`
	Consecutive bool   `json:"consecutive"`
}

type AvailabilityResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Free      []int  `json:"free"`
	// Sections is the allocation the count and policy would receive; empty
	// when it cannot be satisfied or no count was given.
	Sections []int `json:"sections"`
}

type BatchResponse struct {
	Created  int              `json:"created"`
	Bookings []domain.Booking `json:"bookings"`
}

type ReorganizeResponse struct {
	Updated  int      `json:"updated"`
	Warnings []string `json:"warnings"`
}
