package handler

import (
	"net/http"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/service"
)

// QuickUpdateJourney handles POST /ops/journeys/{id}/quick-update.
// Form fields: status, delay_minutes, reason. The raw values go to the
// service untouched; it owns the per-status rules and the audit entry.
func (s *Server) QuickUpdateJourney(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		respondError(w, domain.ErrNotFound, "journey not found")
		return
	}
	if err := r.ParseForm(); err != nil {
		requestError(w, "could not parse form")
		return
	}

	in := service.QuickUpdateInput{
		Status:          r.PostFormValue("status"),
		DelayMinutesRaw: r.PostFormValue("delay_minutes"),
		Reason:          r.PostFormValue("reason"),
	}

	if _, err := s.journeys.QuickUpdate(r.Context(), currentUser(r), id, in); err != nil {
		respondError(w, err, "journey not found")
		return
	}

	http.Redirect(w, r, managerBoardPath, http.StatusSeeOther)
}
