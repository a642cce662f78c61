package handler

import (
	"net/http"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

// AddTodo handles POST /ops/todos.
// Form field: title. The service normalizes it (trim, cap, upper-case).
func (s *Server) AddTodo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		requestError(w, "could not parse form")
		return
	}

	if _, err := s.todos.Add(r.Context(), currentUser(r), r.PostFormValue("title")); err != nil {
		respondError(w, err, "todo not found")
		return
	}

	http.Redirect(w, r, hubPath, http.StatusSeeOther)
}

// CompleteTodo handles POST /ops/todos/{id}/complete.
// Completion is one-way; re-completing answers 404 like any missing todo.
func (s *Server) CompleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		respondError(w, domain.ErrNotFound, "todo not found")
		return
	}

	if _, err := s.todos.Complete(r.Context(), currentUser(r), id); err != nil {
		respondError(w, err, "todo not found")
		return
	}

	http.Redirect(w, r, hubPath, http.StatusSeeOther)
}

// TodoHistory handles GET /ops/todos/history: the caller's completed todos,
// most recently completed first.
func (s *Server) TodoHistory(w http.ResponseWriter, r *http.Request) {
	page, err := s.todos.History(r.Context(), currentUser(r), queryPage(r))
	if err != nil {
		respondError(w, err, "todo history not found")
		return
	}
	respondJSON(w, http.StatusOK, page)
}
