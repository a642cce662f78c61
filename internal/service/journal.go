package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/repo"
)

// journalPageSize is the fixed page length of the journal history view.
const journalPageSize = 20

// HubView is the ops hub: today's journal (created on first sight) and the
// caller's open todos.
type HubView struct {
	Today   time.Time      `json:"today"`
	Journal domain.Journal `json:"journal"`
	Todos   []domain.Todo  `json:"todos"`
}

// JournalPage is one page of the caller's journal history.
type JournalPage struct {
	Journals []domain.JournalWithRevisionCount `json:"journals"`
	Query    string                            `json:"q,omitempty"`
	PageInfo domain.PageInfo                   `json:"pagination"`
}

// JournalService implements the daily journal: lazy per-day creation,
// locked autosave with full revision history, and the history listing.
// Journal operations need a login but no Live Ops credential — every staff
// member keeps their own notes.
type JournalService struct {
	tx       TxRunner
	journals repo.JournalRepo
	todos    repo.TodoRepo
	clock    Clock
}

// NewJournalService constructs a JournalService.
func NewJournalService(tx TxRunner, journals repo.JournalRepo, todos repo.TodoRepo, clock Clock) *JournalService {
	return &JournalService{tx: tx, journals: journals, todos: todos, clock: clock}
}

// Autosave overwrites today's journal content and appends a revision
// snapshot, both inside one transaction with the journal row locked — two
// tabs autosaving at once serialize instead of losing an update.
//
// The content is stored exactly as submitted. No trimming: a whitespace-only
// save must not look like an empty one, and an absent form field arrives
// here as "" — which is then a deliberate save of the empty string. Every
// call appends a revision even when the content is unchanged; complete
// history is worth more than the storage.
func (s *JournalService) Autosave(ctx context.Context, user *domain.User, content string) (domain.Journal, error) {
	if err := requireLogin(user); err != nil {
		return domain.Journal{}, err
	}

	today := s.clock.Today()
	userID := user.ID

	var journal domain.Journal
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		jn, err := r.Journals.GetOrCreateForDate(ctx, userID, today)
		if err != nil {
			return err
		}
		journal, err = r.Journals.UpdateContent(ctx, jn.ID, content)
		if err != nil {
			return err
		}
		_, err = r.Journals.AppendRevision(ctx, domain.JournalRevision{
			JournalID: journal.ID,
			SavedBy:   &userID,
			Content:   content,
		})
		return err
	})
	if err != nil {
		return domain.Journal{}, fmt.Errorf("service.JournalService.Autosave: %w", err)
	}
	return journal, nil
}

// Hub returns today's journal (creating the empty row on first access) and
// the caller's open todos, newest first.
func (s *JournalService) Hub(ctx context.Context, user *domain.User) (HubView, error) {
	if err := requireLogin(user); err != nil {
		return HubView{}, err
	}

	today := s.clock.Today()

	journal, err := s.journals.GetOrCreateForDate(ctx, user.ID, today)
	if err != nil {
		return HubView{}, fmt.Errorf("service.JournalService.Hub: %w", err)
	}

	todos, err := s.todos.ListOpen(ctx, user.ID)
	if err != nil {
		return HubView{}, fmt.Errorf("service.JournalService.Hub: %w", err)
	}
	if todos == nil {
		todos = []domain.Todo{}
	}

	return HubView{Today: today, Journal: journal, Todos: todos}, nil
}

// History returns one page of the caller's journals, newest first, each with
// its revision count and optionally filtered by a case-insensitive content
// substring. Out-of-range pages clamp.
func (s *JournalService) History(ctx context.Context, user *domain.User, query string, page *int) (JournalPage, error) {
	if err := requireLogin(user); err != nil {
		return JournalPage{}, err
	}

	total, err := s.journals.CountByUser(ctx, user.ID, query)
	if err != nil {
		return JournalPage{}, fmt.Errorf("service.JournalService.History: %w", err)
	}

	p := domain.NewPaginationParams(page, journalPageSize).ClampToTotal(total)

	journals, err := s.journals.ListByUser(ctx, user.ID, query, p)
	if err != nil {
		return JournalPage{}, fmt.Errorf("service.JournalService.History: %w", err)
	}
	if journals == nil {
		journals = []domain.JournalWithRevisionCount{}
	}

	return JournalPage{
		Journals: journals,
		Query:    query,
		PageInfo: domain.PageInfo{Page: p.Page, Limit: p.Limit, Total: total},
	}, nil
}
