package handler

import (
	"net/http"
)

// PublicBoard handles GET /ops/board — today's services for everyone.
// Anonymous requests are fine; the roll-forward still runs so a freshly
// created route shows up immediately.
func (s *Server) PublicBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.boards.Public(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, err, "board not found")
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// ManagerBoard handles GET /ops/manage/board — today's services plus the
// discontinued routes, for credentialed managers.
func (s *Server) ManagerBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.boards.Manager(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, err, "board not found")
		return
	}
	respondJSON(w, http.StatusOK, board)
}
