package domain

import (
	"time"

	"github.com/google/uuid"
)

// JourneyStatus is the live status of one day's run of a route.
type JourneyStatus string

const (
	StatusOnTime    JourneyStatus = "on_time"
	StatusDelayed   JourneyStatus = "delayed"
	StatusCancelled JourneyStatus = "cancelled"
)

// Valid reports whether s is one of the three known statuses.
func (s JourneyStatus) Valid() bool {
	switch s {
	case StatusOnTime, StatusDelayed, StatusCancelled:
		return true
	}
	return false
}

// Journey is one dated run of a Route carrying its live status.
// Exactly one journey exists per (route, service date, planned departure);
// the day roll-forward creates the row with on-time defaults and the quick
// update operation is the only thing that mutates it. Journeys are never
// deleted.
//
// DelayMinutes is set only when Status is delayed. Reason is required for
// delayed and cancelled and always empty for on-time — the service layer
// enforces this before any row is written.
type Journey struct {
	ID               uuid.UUID     `json:"id"`
	RouteID          uuid.UUID     `json:"route_id"`
	ServiceDate      time.Time     `json:"service_date"` // date only, midnight in the board's zone
	PlannedDeparture *time.Time    `json:"planned_departure,omitempty"`
	Status           JourneyStatus `json:"status"`
	DelayMinutes     *int          `json:"delay_minutes,omitempty"`
	Reason           string        `json:"reason,omitempty"`
	UpdatedAt        time.Time     `json:"updated_at"`
	UpdatedBy        *uuid.UUID    `json:"updated_by,omitempty"`
}

// BoardJourney is a journey joined with its route for board and history
// rendering, so callers do not need a second lookup per row.
type BoardJourney struct {
	Journey
	Route Route `json:"route"`
}
