package handler

import (
	"net/http"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

// GrantCredential handles POST /ops/credentials/{userID}/grant.
// Superuser only; answers with the resulting credential row.
func (s *Server) GrantCredential(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(r, "userID")
	if !ok {
		respondError(w, domain.ErrNotFound, "user not found")
		return
	}

	cred, err := s.access.Grant(r.Context(), currentUser(r), userID)
	if err != nil {
		respondError(w, err, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, cred)
}

// RevokeCredential handles POST /ops/credentials/{userID}/revoke.
// Superuser only; 404 when the user never held a credential.
func (s *Server) RevokeCredential(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(r, "userID")
	if !ok {
		respondError(w, domain.ErrNotFound, "user not found")
		return
	}

	cred, err := s.access.Revoke(r.Context(), currentUser(r), userID)
	if err != nil {
		respondError(w, err, "credential not found")
		return
	}

	respondJSON(w, http.StatusOK, cred)
}
