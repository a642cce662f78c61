package handler

import (
	"net/http"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/service"
)

// managerBoardPath is where successful manager form submissions land.
const managerBoardPath = "/ops/manage/board"

// CreateRoute handles POST /ops/routes.
// Form fields: code, name, origin, destination. On success the route, its
// first journey and the audit entry are committed together and the caller is
// sent back to the manager board.
func (s *Server) CreateRoute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		requestError(w, "could not parse form")
		return
	}

	in := service.CreateRouteInput{
		Code:        r.PostFormValue("code"),
		Name:        r.PostFormValue("name"),
		Origin:      r.PostFormValue("origin"),
		Destination: r.PostFormValue("destination"),
	}

	if _, _, err := s.routes.Create(r.Context(), currentUser(r), in); err != nil {
		respondError(w, err, "route not found")
		return
	}

	http.Redirect(w, r, managerBoardPath, http.StatusSeeOther)
}

// DiscontinueRoute handles POST /ops/routes/{id}/discontinue.
// Soft stop: the route disappears from future boards but keeps its history.
func (s *Server) DiscontinueRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		respondError(w, domain.ErrNotFound, "route not found")
		return
	}

	if _, err := s.routes.Discontinue(r.Context(), currentUser(r), id); err != nil {
		respondError(w, err, "route not found")
		return
	}

	http.Redirect(w, r, managerBoardPath, http.StatusSeeOther)
}
