package repo

import (
	"context"
	"fmt"
)

// Repos bundles one repository per resource, all bound to the same
// connection or transaction. Services receive a Repos inside InTx so that a
// mutation and its audit entry (or a journal update and its revision) commit
// or roll back together.
type Repos struct {
	Routes      RouteRepo
	Journeys    JourneyRepo
	Changes     ChangeRepo
	Journals    JournalRepo
	Todos       TodoRepo
	Credentials CredentialRepo
}

// NewRepos builds the full repository set over one connection handle.
// Pass a pool for plain reads or a transaction for atomic write sequences.
func NewRepos(d DB) Repos {
	return Repos{
		Routes:      NewRouteRepo(d),
		Journeys:    NewJourneyRepo(d),
		Changes:     NewChangeRepo(d),
		Journals:    NewJournalRepo(d),
		Todos:       NewTodoRepo(d),
		Credentials: NewCredentialRepo(d),
	}
}

// Runner executes functions inside a database transaction.
// When constructed over a pgx.Tx (as integration tests do), Begin opens a
// savepoint, so the test's outer rollback still discards everything.
type Runner struct {
	db DB
}

// NewRunner constructs a Runner over the given pool or transaction.
func NewRunner(d DB) *Runner {
	return &Runner{db: d}
}

// InTx begins a transaction, runs fn with repositories bound to it, and
// commits. Any error from fn rolls the transaction back and is returned
// unwrapped so sentinel checks with errors.Is still work at the boundary.
func (r *Runner) InTx(ctx context.Context, fn func(Repos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Runner.InTx: begin: %w", err)
	}
	// Rollback after a successful commit is a harmless no-op.
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Runner.InTx: commit: %w", err)
	}
	return nil
}
