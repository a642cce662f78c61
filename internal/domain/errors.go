package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist — or, for owner-scoped resources like todos, when
// it exists but belongs to someone else. The two cases are deliberately
// indistinguishable so callers cannot probe for existence.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a delayed journey without delay minutes).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidInput is returned when a raw field cannot be parsed at all
// (e.g. non-numeric delay minutes). It aborts before any persistence.
// Handlers should map this to HTTP 422.
var ErrInvalidInput = errors.New("invalid input")

// ErrDuplicateCode is returned when creating a route whose code already
// exists. The attempted route, its first journey and its audit entry are
// rolled back together. Handlers should map this to HTTP 409 Conflict.
var ErrDuplicateCode = errors.New("route code already exists")

// ErrPermissionDenied is returned when the caller is not authenticated or
// does not hold an enabled Live Ops credential (superusers always pass).
// Handlers should map this to HTTP 403.
var ErrPermissionDenied = errors.New("permission denied")
