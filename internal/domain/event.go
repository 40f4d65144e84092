package domain

import "time"

type ScheduleEventType string

const (
	EventBookingsCreated     ScheduleEventType = "bookings.created"
	EventBookingsDeleted     ScheduleEventType = "bookings.deleted"
	EventBookingsReorganized ScheduleEventType = "bookings.reorganized"
)

// ScheduleEvent tells subscribers that a facility schedule changed and
// should be reloaded.
type ScheduleEvent struct {
	Type     ScheduleEventType `json:"type"`
	Facility FacilityType      `json:"facility"`
	Dates    []string          `json:"dates,omitempty"`
	Count    int               `json:"count"`
	At       time.Time         `json:"at"`
}
