package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/repo"
)

// todoPageSize is the fixed page length of the completed-todo history view.
const todoPageSize = 30

// TodoPage is one page of the caller's completed todos.
type TodoPage struct {
	Todos    []domain.Todo   `json:"todos"`
	PageInfo domain.PageInfo `json:"pagination"`
}

// TodoService implements the per-user todo ledger. Like the journal, it
// needs a login but no Live Ops credential.
type TodoService struct {
	todos repo.TodoRepo
}

// NewTodoService constructs a TodoService.
func NewTodoService(todos repo.TodoRepo) *TodoService {
	return &TodoService{todos: todos}
}

// Add creates an open todo for the caller. The title is trimmed, truncated
// to domain.MaxTodoTitleLen runes and stored upper-case — a display
// convention, so lists read uniformly everywhere. An empty title after
// trimming is rejected.
func (s *TodoService) Add(ctx context.Context, user *domain.User, title string) (domain.Todo, error) {
	if err := requireLogin(user); err != nil {
		return domain.Todo{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Todo{}, fmt.Errorf("%w: please enter a to-do item", domain.ErrValidation)
	}
	if runes := []rune(title); len(runes) > domain.MaxTodoTitleLen {
		title = string(runes[:domain.MaxTodoTitleLen])
	}
	title = strings.ToUpper(title)

	todo, err := s.todos.Create(ctx, domain.Todo{UserID: user.ID, Title: title})
	if err != nil {
		return domain.Todo{}, fmt.Errorf("service.TodoService.Add: %w", err)
	}
	return todo, nil
}

// Complete marks one of the caller's open todos as done, stamping done_at
// exactly once. Completing a done todo, someone else's todo, or a missing id
// all fail with domain.ErrNotFound — the same signal, so nothing about other
// users' todos can be probed.
func (s *TodoService) Complete(ctx context.Context, user *domain.User, id uuid.UUID) (domain.Todo, error) {
	if err := requireLogin(user); err != nil {
		return domain.Todo{}, err
	}

	todo, err := s.todos.Complete(ctx, user.ID, id)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("service.TodoService.Complete: %w", err)
	}
	return todo, nil
}

// History returns one page of the caller's completed todos, most recently
// completed first. Out-of-range pages clamp.
func (s *TodoService) History(ctx context.Context, user *domain.User, page *int) (TodoPage, error) {
	if err := requireLogin(user); err != nil {
		return TodoPage{}, err
	}

	total, err := s.todos.CountDone(ctx, user.ID)
	if err != nil {
		return TodoPage{}, fmt.Errorf("service.TodoService.History: %w", err)
	}

	p := domain.NewPaginationParams(page, todoPageSize).ClampToTotal(total)

	todos, err := s.todos.ListDone(ctx, user.ID, p)
	if err != nil {
		return TodoPage{}, fmt.Errorf("service.TodoService.History: %w", err)
	}
	if todos == nil {
		todos = []domain.Todo{}
	}

	return TodoPage{
		Todos:    todos,
		PageInfo: domain.PageInfo{Page: p.Page, Limit: p.Limit, Total: total},
	}, nil
}
