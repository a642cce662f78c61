package domain

import (
	"time"

	"github.com/google/uuid"
)

// Journal holds one user's free-text note for one calendar day.
// A row is created lazily the first time the day's hub is opened and its
// content is overwritten in place on every autosave. Content is stored
// verbatim — never trimmed — so that saving whitespace is not mistaken for
// an empty save and cannot silently wipe a prior note.
type Journal struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	EntryDate time.Time `json:"entry_date"` // date only
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JournalWithRevisionCount annotates a journal with the number of revisions
// saved for it, for the history listing.
type JournalWithRevisionCount struct {
	Journal
	RevisionCount int `json:"revision_count"`
}

// JournalRevision is an immutable snapshot of a journal's content taken on
// every autosave, giving unlimited undo/audit history for a day's note.
// Revisions are never mutated or deleted.
type JournalRevision struct {
	ID        uuid.UUID  `json:"id"`
	JournalID uuid.UUID  `json:"journal_id"`
	SavedBy   *uuid.UUID `json:"saved_by,omitempty"`
	SavedAt   time.Time  `json:"saved_at"`
	Content   string     `json:"content"`
}
