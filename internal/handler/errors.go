package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/auth"
	"github.com/cozyscoaches/ops-board/internal/domain"
)

// ErrorResponse is the uniform error envelope every endpoint answers with.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes v as the JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps a service error onto the HTTP status and envelope the
// error taxonomy prescribes. notFoundMsg is the resource-specific message
// used when err is domain.ErrNotFound, because the handler is the layer that
// knows what was being looked up.
func respondError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		respondJSON(w, http.StatusForbidden, ErrorResponse{Error: ErrorDetail{
			Code: "permission_denied", Message: "you do not have permission to manage Live Ops",
		}})
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{
			Code: "not_found", Message: notFoundMsg,
		}})
	case errors.Is(err, domain.ErrDuplicateCode):
		respondJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code: "duplicate_code", Message: "route code already exists, please choose a different code",
		}})
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: unwrapMessage(err, "validation error: "),
		}})
	case errors.Is(err, domain.ErrInvalidInput):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code: "invalid_input", Message: unwrapMessage(err, "invalid input: "),
		}})
	default:
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code: "internal", Message: "internal server error",
		}})
	}
}

// requestError writes a 422 for a request rejected before reaching the
// service layer (e.g. an unparseable body).
func requestError(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
		Code: "validation_error", Message: message,
	}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.JourneyService.QuickUpdate: validation error: a
// reason is required when status is delayed" → everything after the marker.
func unwrapMessage(err error, marker string) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

// --- request parsing helpers ------------------------------------------------

// currentUser returns the authenticated user, or nil for anonymous callers.
func currentUser(r *http.Request) *domain.User {
	return auth.UserFromContext(r.Context())
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// queryPage returns the "page" query parameter as an optional int.
// A missing or non-numeric value means "first page" — the old board treated
// garbage page numbers as page 1 and we keep that forgiving behavior.
func queryPage(r *http.Request) *int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// queryDate parses a "2006-01-02" query parameter. Absent or malformed
// values are treated as "no bound", matching the old form's tolerance.
func queryDate(r *http.Request, name string) *time.Time {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
