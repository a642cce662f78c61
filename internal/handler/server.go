// Package handler implements the HTTP surface of the Live Ops board.
// Reads answer JSON; mutations arrive as authenticated form submissions and
// redirect to the canonical board or hub view on success (303), the journal
// autosave being the one JSON acknowledgment endpoint. All handlers are
// methods on Server; methods are split into resource-specific files but all
// share the same struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/service"
)

// The *Servicer interfaces name the business operations each handler
// depends on. Defining them here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.

// BoardServicer defines the board views.
type BoardServicer interface {
	Public(ctx context.Context, user *domain.User) (service.Board, error)
	Manager(ctx context.Context, user *domain.User) (service.ManagerBoard, error)
}

// RouteServicer defines the route registry mutations.
type RouteServicer interface {
	Create(ctx context.Context, user *domain.User, in service.CreateRouteInput) (domain.Route, domain.Journey, error)
	Discontinue(ctx context.Context, user *domain.User, routeID uuid.UUID) (domain.Route, error)
}

// JourneyServicer defines the journey quick-update.
type JourneyServicer interface {
	QuickUpdate(ctx context.Context, user *domain.User, journeyID uuid.UUID, in service.QuickUpdateInput) (domain.BoardJourney, error)
}

// HistoryServicer defines the audit history query.
type HistoryServicer interface {
	Query(ctx context.Context, user *domain.User, f domain.HistoryFilter, page *int) (service.HistoryPage, error)
}

// JournalServicer defines the hub, autosave and journal history operations.
type JournalServicer interface {
	Hub(ctx context.Context, user *domain.User) (service.HubView, error)
	Autosave(ctx context.Context, user *domain.User, content string) (domain.Journal, error)
	History(ctx context.Context, user *domain.User, query string, page *int) (service.JournalPage, error)
}

// TodoServicer defines the todo ledger operations.
type TodoServicer interface {
	Add(ctx context.Context, user *domain.User, title string) (domain.Todo, error)
	Complete(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Todo, error)
	History(ctx context.Context, user *domain.User, page *int) (service.TodoPage, error)
}

// AccessServicer defines the superuser-only credential administration.
type AccessServicer interface {
	Grant(ctx context.Context, admin *domain.User, userID uuid.UUID) (domain.Credential, error)
	Revoke(ctx context.Context, admin *domain.User, userID uuid.UUID) (domain.Credential, error)
}

// Server holds every handler's dependencies and registers the routes.
type Server struct {
	boards   BoardServicer
	routes   RouteServicer
	journeys JourneyServicer
	history  HistoryServicer
	journals JournalServicer
	todos    TodoServicer
	access   AccessServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(boards BoardServicer, routes RouteServicer, journeys JourneyServicer,
	history HistoryServicer, journals JournalServicer, todos TodoServicer, access AccessServicer) *Server {
	return &Server{
		boards:   boards,
		routes:   routes,
		journeys: journeys,
		history:  history,
		journals: journals,
		todos:    todos,
		access:   access,
	}
}

// Register mounts every endpoint on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/ops", func(r chi.Router) {
		r.Get("/board", s.PublicBoard)
		r.Get("/manage/board", s.ManagerBoard)
		r.Get("/history", s.History)

		r.Post("/routes", s.CreateRoute)
		r.Post("/routes/{id}/discontinue", s.DiscontinueRoute)
		r.Post("/journeys/{id}/quick-update", s.QuickUpdateJourney)

		r.Get("/hub", s.Hub)
		r.Post("/journal/autosave", s.AutosaveJournal)
		r.Get("/journal/history", s.JournalHistory)

		r.Post("/todos", s.AddTodo)
		r.Post("/todos/{id}/complete", s.CompleteTodo)
		r.Get("/todos/history", s.TodoHistory)

		r.Post("/credentials/{userID}/grant", s.GrantCredential)
		r.Post("/credentials/{userID}/revoke", s.RevokeCredential)
	})
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
