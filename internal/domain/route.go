// Package domain contains the core data types for the Live Ops board.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Route is a management-defined scheduled service between two points,
// independent of any specific day. Routes are never deleted; a route that is
// no longer operated is discontinued by clearing Active.
//
// Code is the route's public identity (e.g. "J81", "FLIX-123"). It is unique
// and immutable once set — no operation changes it.
type Route struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RouteWithLastJourney is a route annotated with its most recent journey,
// used by the manager board to show discontinued routes alongside the state
// they were left in. LastJourney is nil for a route that never ran.
type RouteWithLastJourney struct {
	Route
	LastJourney *Journey `json:"last_journey,omitempty"`
}
