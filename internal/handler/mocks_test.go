package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/auth"
	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/handler"
	"github.com/cozyscoaches/ops-board/internal/service"
)

// Test doubles for the *Servicer interfaces. Set only the method fields your
// test needs; an unset one panics, flagging an unexpected call.

type mockBoardServicer struct {
	public  func(ctx context.Context, user *domain.User) (service.Board, error)
	manager func(ctx context.Context, user *domain.User) (service.ManagerBoard, error)
}

func (m *mockBoardServicer) Public(ctx context.Context, user *domain.User) (service.Board, error) {
	return m.public(ctx, user)
}
func (m *mockBoardServicer) Manager(ctx context.Context, user *domain.User) (service.ManagerBoard, error) {
	return m.manager(ctx, user)
}

var _ handler.BoardServicer = (*mockBoardServicer)(nil)

type mockRouteServicer struct {
	create      func(ctx context.Context, user *domain.User, in service.CreateRouteInput) (domain.Route, domain.Journey, error)
	discontinue func(ctx context.Context, user *domain.User, routeID uuid.UUID) (domain.Route, error)
}

func (m *mockRouteServicer) Create(ctx context.Context, user *domain.User, in service.CreateRouteInput) (domain.Route, domain.Journey, error) {
	return m.create(ctx, user, in)
}
func (m *mockRouteServicer) Discontinue(ctx context.Context, user *domain.User, routeID uuid.UUID) (domain.Route, error) {
	return m.discontinue(ctx, user, routeID)
}

var _ handler.RouteServicer = (*mockRouteServicer)(nil)

type mockJourneyServicer struct {
	quickUpdate func(ctx context.Context, user *domain.User, journeyID uuid.UUID, in service.QuickUpdateInput) (domain.BoardJourney, error)
}

func (m *mockJourneyServicer) QuickUpdate(ctx context.Context, user *domain.User, journeyID uuid.UUID, in service.QuickUpdateInput) (domain.BoardJourney, error) {
	return m.quickUpdate(ctx, user, journeyID, in)
}

var _ handler.JourneyServicer = (*mockJourneyServicer)(nil)

type mockHistoryServicer struct {
	query func(ctx context.Context, user *domain.User, f domain.HistoryFilter, page *int) (service.HistoryPage, error)
}

func (m *mockHistoryServicer) Query(ctx context.Context, user *domain.User, f domain.HistoryFilter, page *int) (service.HistoryPage, error) {
	return m.query(ctx, user, f, page)
}

var _ handler.HistoryServicer = (*mockHistoryServicer)(nil)

type mockJournalServicer struct {
	hub      func(ctx context.Context, user *domain.User) (service.HubView, error)
	autosave func(ctx context.Context, user *domain.User, content string) (domain.Journal, error)
	history  func(ctx context.Context, user *domain.User, query string, page *int) (service.JournalPage, error)
}

func (m *mockJournalServicer) Hub(ctx context.Context, user *domain.User) (service.HubView, error) {
	return m.hub(ctx, user)
}
func (m *mockJournalServicer) Autosave(ctx context.Context, user *domain.User, content string) (domain.Journal, error) {
	return m.autosave(ctx, user, content)
}
func (m *mockJournalServicer) History(ctx context.Context, user *domain.User, query string, page *int) (service.JournalPage, error) {
	return m.history(ctx, user, query, page)
}

var _ handler.JournalServicer = (*mockJournalServicer)(nil)

type mockTodoServicer struct {
	add      func(ctx context.Context, user *domain.User, title string) (domain.Todo, error)
	complete func(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Todo, error)
	history  func(ctx context.Context, user *domain.User, page *int) (service.TodoPage, error)
}

func (m *mockTodoServicer) Add(ctx context.Context, user *domain.User, title string) (domain.Todo, error) {
	return m.add(ctx, user, title)
}
func (m *mockTodoServicer) Complete(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Todo, error) {
	return m.complete(ctx, user, id)
}
func (m *mockTodoServicer) History(ctx context.Context, user *domain.User, page *int) (service.TodoPage, error) {
	return m.history(ctx, user, page)
}

var _ handler.TodoServicer = (*mockTodoServicer)(nil)

type mockAccessServicer struct {
	grant  func(ctx context.Context, admin *domain.User, userID uuid.UUID) (domain.Credential, error)
	revoke func(ctx context.Context, admin *domain.User, userID uuid.UUID) (domain.Credential, error)
}

func (m *mockAccessServicer) Grant(ctx context.Context, admin *domain.User, userID uuid.UUID) (domain.Credential, error) {
	return m.grant(ctx, admin, userID)
}
func (m *mockAccessServicer) Revoke(ctx context.Context, admin *domain.User, userID uuid.UUID) (domain.Credential, error) {
	return m.revoke(ctx, admin, userID)
}

var _ handler.AccessServicer = (*mockAccessServicer)(nil)

// servicers bundles every mock so tests set only what they exercise.
type servicers struct {
	boards   handler.BoardServicer
	routes   handler.RouteServicer
	journeys handler.JourneyServicer
	history  handler.HistoryServicer
	journals handler.JournalServicer
	todos    handler.TodoServicer
	access   handler.AccessServicer
}

// newHTTPHandler wires a Server with the given mocks onto a chi router,
// mirroring how main.go wires production.
func newHTTPHandler(s servicers) http.Handler {
	srv := handler.NewServer(s.boards, s.routes, s.journeys, s.history, s.journals, s.todos, s.access)
	r := chi.NewRouter()
	srv.Register(r)
	return r
}

// doForm performs a form-encoded POST as the given user (nil = anonymous).
func doForm(t *testing.T, h http.Handler, user *domain.User, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// doGet performs a GET as the given user (nil = anonymous).
func doGet(t *testing.T, h http.Handler, user *domain.User, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// staffUser returns a logged-in staff user.
func staffUser() *domain.User {
	return &domain.User{ID: uuid.New(), IsStaff: true}
}
