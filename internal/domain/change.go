package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeAction identifies what kind of mutation a ChangeEntry documents.
type ChangeAction string

const (
	ActionRouteCreated      ChangeAction = "route_created"
	ActionRouteDiscontinued ChangeAction = "route_discontinued"
	ActionJourneyUpdated    ChangeAction = "journey_updated"
)

// ChangeEntry is one immutable record in the append-only audit trail.
// Exactly one entry is written per successful route creation, route
// discontinuation, or journey update, in the same transaction as the
// mutation it documents. Entries are never updated or deleted.
//
// JourneyID is nil for route-level events. The old/new snapshot fields are
// populated only for journey updates (new_* also for route creation, copied
// from the route's first journey); otherwise they hold zero values.
type ChangeEntry struct {
	ID        uuid.UUID    `json:"id"`
	Action    ChangeAction `json:"action"`
	RouteID   uuid.UUID    `json:"route_id"`
	JourneyID *uuid.UUID   `json:"journey_id,omitempty"`
	ChangedBy *uuid.UUID   `json:"changed_by,omitempty"`
	Note      string       `json:"note,omitempty"`

	OldStatus       JourneyStatus `json:"old_status,omitempty"`
	NewStatus       JourneyStatus `json:"new_status,omitempty"`
	OldDelayMinutes *int          `json:"old_delay_minutes,omitempty"`
	NewDelayMinutes *int          `json:"new_delay_minutes,omitempty"`
	OldReason       string        `json:"old_reason,omitempty"`
	NewReason       string        `json:"new_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is a change entry joined with its route (and the linked
// journey's service date, when present) for the history view.
type HistoryEntry struct {
	ChangeEntry
	Route              Route      `json:"route"`
	JourneyServiceDate *time.Time `json:"journey_service_date,omitempty"`
}

// HistoryFilter carries the optional filters of the history query.
// A nil DateFrom/DateTo means the bound is open on that side; when both are
// nil the service substitutes the default window (last 7 days ending today).
// The date filter matches the linked journey's service date where one
// exists, falling back to the entry's creation date for route-only events.
type HistoryFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	RouteID  *uuid.UUID
	// Query is matched case-insensitively as a substring of the action,
	// note, and route code/name/origin/destination (OR across fields).
	Query string
}
