package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// hubPath is where successful hub form submissions land.
const hubPath = "/ops/hub"

// autosaveAck is the body of a successful autosave: the JS widget only needs
// confirmation and the server-side timestamp to display.
type autosaveAck struct {
	OK        bool      `json:"ok"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Hub handles GET /ops/hub: today's journal and the caller's open todos.
func (s *Server) Hub(w http.ResponseWriter, r *http.Request) {
	view, err := s.journals.Hub(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, err, "hub not found")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// AutosaveJournal handles POST /ops/journal/autosave.
// The autosave widget posts either a form or a JSON body with a "content"
// field; both carry the full text of today's entry. An absent field is a
// save of the empty string — the service stores whatever it is given,
// verbatim. Replies with a small JSON ack instead of a redirect because the
// caller is background JS, not a navigating browser.
func (s *Server) AutosaveJournal(w http.ResponseWriter, r *http.Request) {
	content, ok := journalContent(r)
	if !ok {
		requestError(w, "could not parse body")
		return
	}

	journal, err := s.journals.Autosave(r.Context(), currentUser(r), content)
	if err != nil {
		respondError(w, err, "journal not found")
		return
	}

	respondJSON(w, http.StatusOK, autosaveAck{OK: true, UpdatedAt: journal.UpdatedAt})
}

// JournalHistory handles GET /ops/journal/history.
// Query parameters: q (content substring, case-insensitive) and page.
func (s *Server) JournalHistory(w http.ResponseWriter, r *http.Request) {
	page, err := s.journals.History(r.Context(), currentUser(r), r.URL.Query().Get("q"), queryPage(r))
	if err != nil {
		respondError(w, err, "journal history not found")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// journalContent extracts the autosave content from a form or JSON request.
func journalContent(r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var body struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", false
		}
		return body.Content, true
	}
	if err := r.ParseForm(); err != nil {
		return "", false
	}
	return r.PostFormValue("content"), true
}
