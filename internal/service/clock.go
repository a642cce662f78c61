// Package service contains the business logic for the Live Ops board.
// Services check permissions, validate inputs, enforce the status invariants,
// and orchestrate repo calls — wrapping each mutating sequence and its audit
// entry in one transaction. No SQL lives here.
package service

import (
	"context"
	"time"

	"github.com/cozyscoaches/ops-board/internal/repo"
)

// TxRunner executes a function inside one database transaction.
// repo.Runner is the production implementation; unit tests supply a fake
// that hands fn a repo.Repos full of mocks.
type TxRunner interface {
	InTx(ctx context.Context, fn func(repo.Repos) error) error
}

// Clock supplies the current time and "today" in the board's operating time
// zone. It is an injected dependency rather than an ambient time.Now() read
// so tests can pin the day — the roll-forward and the history default window
// both hang off it.
type Clock interface {
	// Now returns the current wall-clock time in the board's zone.
	Now() time.Time
	// Today returns the current calendar date, normalized to midnight UTC,
	// the form the repo layer binds to DATE columns.
	Today() time.Time
}

// WallClock is the production Clock, reading the system time in a fixed
// location (config TIME_ZONE).
type WallClock struct {
	loc *time.Location
}

// NewWallClock constructs a WallClock for the given location.
func NewWallClock(loc *time.Location) WallClock {
	return WallClock{loc: loc}
}

// Now returns the current time in the clock's location.
func (c WallClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Today returns the current date in the clock's location as midnight UTC.
func (c WallClock) Today() time.Time {
	y, m, d := c.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isWeekend reports whether the date falls on a Saturday or Sunday — the
// public board shows an empty weekend card instead of rolling the day
// forward on those days.
func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
