package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated-caller handle supplied by the identity provider.
// The board only needs the flags — account management lives elsewhere.
type User struct {
	ID          uuid.UUID `json:"id"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
}

// Credential marks a staff user as allowed into Live Ops management.
// Superusers are allowed implicitly and never need a row here.
type Credential struct {
	UserID    uuid.UUID  `json:"user_id"`
	Enabled   bool       `json:"enabled"`
	GrantedAt time.Time  `json:"granted_at"`
	GrantedBy *uuid.UUID `json:"granted_by,omitempty"`
}
