package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/repo"
)

// The mocks below are hand-written test doubles for the repo interfaces.
// Each method is a function field — set only the ones your test needs; an
// unset one panics, which is exactly the signal that the service made a call
// the test did not expect. No mock generation library required.

type mockRouteRepo struct {
	create           func(ctx context.Context, route domain.Route) (domain.Route, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Route, error)
	listActive       func(ctx context.Context) ([]domain.Route, error)
	list             func(ctx context.Context) ([]domain.Route, error)
	listDiscontinued func(ctx context.Context) ([]domain.RouteWithLastJourney, error)
	deactivate       func(ctx context.Context, id uuid.UUID) (domain.Route, error)
}

func (m *mockRouteRepo) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	return m.create(ctx, route)
}
func (m *mockRouteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	return m.getByID(ctx, id)
}
func (m *mockRouteRepo) ListActive(ctx context.Context) ([]domain.Route, error) {
	return m.listActive(ctx)
}
func (m *mockRouteRepo) List(ctx context.Context) ([]domain.Route, error) {
	return m.list(ctx)
}
func (m *mockRouteRepo) ListDiscontinued(ctx context.Context) ([]domain.RouteWithLastJourney, error) {
	return m.listDiscontinued(ctx)
}
func (m *mockRouteRepo) Deactivate(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	return m.deactivate(ctx, id)
}

var _ repo.RouteRepo = (*mockRouteRepo)(nil)

type mockJourneyRepo struct {
	ensureForDate     func(ctx context.Context, routeID uuid.UUID, date time.Time, updatedBy *uuid.UUID) (bool, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.BoardJourney, error)
	getByRouteAndDate func(ctx context.Context, routeID uuid.UUID, date time.Time) (domain.Journey, error)
	listForDate       func(ctx context.Context, date time.Time) ([]domain.BoardJourney, error)
	update            func(ctx context.Context, j domain.Journey) (domain.Journey, error)
	countForDate      func(ctx context.Context, date time.Time) (int64, error)
}

func (m *mockJourneyRepo) EnsureForDate(ctx context.Context, routeID uuid.UUID, date time.Time, updatedBy *uuid.UUID) (bool, error) {
	return m.ensureForDate(ctx, routeID, date, updatedBy)
}
func (m *mockJourneyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.BoardJourney, error) {
	return m.getByID(ctx, id)
}
func (m *mockJourneyRepo) GetByRouteAndDate(ctx context.Context, routeID uuid.UUID, date time.Time) (domain.Journey, error) {
	return m.getByRouteAndDate(ctx, routeID, date)
}
func (m *mockJourneyRepo) ListForDate(ctx context.Context, date time.Time) ([]domain.BoardJourney, error) {
	return m.listForDate(ctx, date)
}
func (m *mockJourneyRepo) Update(ctx context.Context, j domain.Journey) (domain.Journey, error) {
	return m.update(ctx, j)
}
func (m *mockJourneyRepo) CountForDate(ctx context.Context, date time.Time) (int64, error) {
	return m.countForDate(ctx, date)
}

var _ repo.JourneyRepo = (*mockJourneyRepo)(nil)

type mockChangeRepo struct {
	append       func(ctx context.Context, e domain.ChangeEntry) (domain.ChangeEntry, error)
	countHistory func(ctx context.Context, f domain.HistoryFilter) (int64, error)
	listHistory  func(ctx context.Context, f domain.HistoryFilter, p domain.PaginationParams) ([]domain.HistoryEntry, error)
	listByRoute  func(ctx context.Context, routeID uuid.UUID) ([]domain.ChangeEntry, error)
}

func (m *mockChangeRepo) Append(ctx context.Context, e domain.ChangeEntry) (domain.ChangeEntry, error) {
	return m.append(ctx, e)
}
func (m *mockChangeRepo) CountHistory(ctx context.Context, f domain.HistoryFilter) (int64, error) {
	return m.countHistory(ctx, f)
}
func (m *mockChangeRepo) ListHistory(ctx context.Context, f domain.HistoryFilter, p domain.PaginationParams) ([]domain.HistoryEntry, error) {
	return m.listHistory(ctx, f, p)
}
func (m *mockChangeRepo) ListByRoute(ctx context.Context, routeID uuid.UUID) ([]domain.ChangeEntry, error) {
	return m.listByRoute(ctx, routeID)
}

var _ repo.ChangeRepo = (*mockChangeRepo)(nil)

type mockJournalRepo struct {
	getOrCreateForDate func(ctx context.Context, userID uuid.UUID, date time.Time) (domain.Journal, error)
	updateContent      func(ctx context.Context, id uuid.UUID, content string) (domain.Journal, error)
	appendRevision     func(ctx context.Context, rev domain.JournalRevision) (domain.JournalRevision, error)
	listRevisions      func(ctx context.Context, journalID uuid.UUID) ([]domain.JournalRevision, error)
	countByUser        func(ctx context.Context, userID uuid.UUID, query string) (int64, error)
	listByUser         func(ctx context.Context, userID uuid.UUID, query string, p domain.PaginationParams) ([]domain.JournalWithRevisionCount, error)
}

func (m *mockJournalRepo) GetOrCreateForDate(ctx context.Context, userID uuid.UUID, date time.Time) (domain.Journal, error) {
	return m.getOrCreateForDate(ctx, userID, date)
}
func (m *mockJournalRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) (domain.Journal, error) {
	return m.updateContent(ctx, id, content)
}
func (m *mockJournalRepo) AppendRevision(ctx context.Context, rev domain.JournalRevision) (domain.JournalRevision, error) {
	return m.appendRevision(ctx, rev)
}
func (m *mockJournalRepo) ListRevisions(ctx context.Context, journalID uuid.UUID) ([]domain.JournalRevision, error) {
	return m.listRevisions(ctx, journalID)
}
func (m *mockJournalRepo) CountByUser(ctx context.Context, userID uuid.UUID, query string) (int64, error) {
	return m.countByUser(ctx, userID, query)
}
func (m *mockJournalRepo) ListByUser(ctx context.Context, userID uuid.UUID, query string, p domain.PaginationParams) ([]domain.JournalWithRevisionCount, error) {
	return m.listByUser(ctx, userID, query, p)
}

var _ repo.JournalRepo = (*mockJournalRepo)(nil)

type mockTodoRepo struct {
	create    func(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	listOpen  func(ctx context.Context, userID uuid.UUID) ([]domain.Todo, error)
	complete  func(ctx context.Context, userID, id uuid.UUID) (domain.Todo, error)
	countDone func(ctx context.Context, userID uuid.UUID) (int64, error)
	listDone  func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Todo, error)
}

func (m *mockTodoRepo) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	return m.create(ctx, todo)
}
func (m *mockTodoRepo) ListOpen(ctx context.Context, userID uuid.UUID) ([]domain.Todo, error) {
	return m.listOpen(ctx, userID)
}
func (m *mockTodoRepo) Complete(ctx context.Context, userID, id uuid.UUID) (domain.Todo, error) {
	return m.complete(ctx, userID, id)
}
func (m *mockTodoRepo) CountDone(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.countDone(ctx, userID)
}
func (m *mockTodoRepo) ListDone(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Todo, error) {
	return m.listDone(ctx, userID, p)
}

var _ repo.TodoRepo = (*mockTodoRepo)(nil)

type mockCredentialRepo struct {
	hasEnabled func(ctx context.Context, userID uuid.UUID) (bool, error)
	upsert     func(ctx context.Context, userID uuid.UUID, grantedBy *uuid.UUID) (domain.Credential, error)
	disable    func(ctx context.Context, userID uuid.UUID) (domain.Credential, error)
}

func (m *mockCredentialRepo) HasEnabled(ctx context.Context, userID uuid.UUID) (bool, error) {
	return m.hasEnabled(ctx, userID)
}
func (m *mockCredentialRepo) Upsert(ctx context.Context, userID uuid.UUID, grantedBy *uuid.UUID) (domain.Credential, error) {
	return m.upsert(ctx, userID, grantedBy)
}
func (m *mockCredentialRepo) Disable(ctx context.Context, userID uuid.UUID) (domain.Credential, error) {
	return m.disable(ctx, userID)
}

var _ repo.CredentialRepo = (*mockCredentialRepo)(nil)

// fakeTx is a TxRunner that hands fn a repo.Repos full of mocks and runs it
// inline — no database, no transaction, same control flow.
type fakeTx struct {
	repos repo.Repos
}

func (f *fakeTx) InTx(_ context.Context, fn func(repo.Repos) error) error {
	return fn(f.repos)
}

// fixedClock pins Now and Today so tests control what day it is.
type fixedClock struct {
	today time.Time
}

func (c fixedClock) Now() time.Time   { return c.today.Add(9 * time.Hour) }
func (c fixedClock) Today() time.Time { return c.today }

// allowAuthz / denyAuthz answer the permission question without a
// credential repo.
type staticAuthz struct {
	err error
}

func (a staticAuthz) CanManageOps(context.Context, *domain.User) error { return a.err }

// weekday and weekendDay are the two "today" values board tests pin.
var (
	weekday    = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) // Wednesday
	weekendDay = time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC) // Saturday
)

// manager returns a logged-in non-superuser user.
func manager() *domain.User {
	return &domain.User{ID: uuid.New(), IsStaff: true}
}

// superuser returns a logged-in superuser.
func superuser() *domain.User {
	return &domain.User{ID: uuid.New(), IsStaff: true, IsSuperuser: true}
}
