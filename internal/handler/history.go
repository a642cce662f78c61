package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

// History handles GET /ops/history.
// Query parameters: date_from, date_to (2006-01-02), route (UUID), q
// (free-text substring), page. Malformed values are ignored rather than
// rejected; when both dates are absent the service applies its default
// window.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	f := domain.HistoryFilter{
		DateFrom: queryDate(r, "date_from"),
		DateTo:   queryDate(r, "date_to"),
		Query:    r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("route"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.RouteID = &id
		}
	}

	page, err := s.history.Query(r.Context(), currentUser(r), f, queryPage(r))
	if err != nil {
		respondError(w, err, "history not found")
		return
	}

	respondJSON(w, http.StatusOK, page)
}
