package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTodoTitleLen is the length todo titles are truncated to at write time.
const MaxTodoTitleLen = 200

// Todo is a per-user task. Titles are trimmed, truncated to MaxTodoTitleLen
// and stored upper-case so they render consistently everywhere. A todo moves
// open→done exactly once; there is no reopening and no deletion.
type Todo struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title"`
	Done      bool       `json:"done"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
