package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

// TodoRepo defines the persistence operations for per-user todos.
type TodoRepo interface {
	// Create inserts a new open todo and returns the persisted record.
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)

	// ListOpen returns the user's open todos, newest first.
	ListOpen(ctx context.Context, userID uuid.UUID) ([]domain.Todo, error)

	// Complete marks an open todo owned by userID as done and stamps
	// done_at. A done, foreign, or missing todo all return
	// domain.ErrNotFound — the same signal, so ownership cannot be probed.
	Complete(ctx context.Context, userID, id uuid.UUID) (domain.Todo, error)

	// CountDone returns how many todos the user has completed.
	CountDone(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListDone returns one page of the user's completed todos, most recently
	// completed first.
	ListDone(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Todo, error)
}

// pgTodoRepo is the Postgres implementation of TodoRepo.
type pgTodoRepo struct {
	db db
}

// NewTodoRepo constructs a TodoRepo backed by the provided db connection.
func NewTodoRepo(db db) TodoRepo {
	return &pgTodoRepo{db: db}
}

// Create inserts a new todo row.
func (r *pgTodoRepo) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	const q = `
		INSERT INTO ops_todos (user_id, title)
		VALUES (@user_id, @title)
		RETURNING id, user_id, title, done, done_at, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": todo.UserID, "title": todo.Title})
	result, err := scanTodo(row)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("repo.TodoRepo.Create: %w", err)
	}
	return result, nil
}

// ListOpen returns the user's open todos, newest first.
func (r *pgTodoRepo) ListOpen(ctx context.Context, userID uuid.UUID) ([]domain.Todo, error) {
	const q = `
		SELECT id, user_id, title, done, done_at, created_at, updated_at
		FROM ops_todos
		WHERE user_id = @user_id AND NOT done
		ORDER BY created_at DESC`

	return r.listTodos(ctx, q, pgx.NamedArgs{"user_id": userID}, "ListOpen")
}

// Complete flips one open, owned todo to done. The WHERE clause carries all
// three conditions so the "not yours", "already done" and "does not exist"
// cases are indistinguishable to the caller.
func (r *pgTodoRepo) Complete(ctx context.Context, userID, id uuid.UUID) (domain.Todo, error) {
	const q = `
		UPDATE ops_todos
		SET done = true, done_at = now(), updated_at = now()
		WHERE id = @id AND user_id = @user_id AND NOT done
		RETURNING id, user_id, title, done, done_at, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	result, err := scanTodo(row)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("repo.TodoRepo.Complete: %w", err)
	}
	return result, nil
}

// CountDone counts the user's completed todos.
func (r *pgTodoRepo) CountDone(ctx context.Context, userID uuid.UUID) (int64, error) {
	const q = `SELECT count(*) FROM ops_todos WHERE user_id = @user_id AND done`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TodoRepo.CountDone: %w", err)
	}
	return n, nil
}

// ListDone returns one page of completed todos, most recently done first.
func (r *pgTodoRepo) ListDone(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Todo, error) {
	const q = `
		SELECT id, user_id, title, done, done_at, created_at, updated_at
		FROM ops_todos
		WHERE user_id = @user_id AND done
		ORDER BY done_at DESC, updated_at DESC
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{"user_id": userID, "limit": p.Limit, "offset": p.Offset()}
	return r.listTodos(ctx, q, args, "ListDone")
}

func (r *pgTodoRepo) listTodos(ctx context.Context, q string, args pgx.NamedArgs, op string) ([]domain.Todo, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TodoRepo.%s: %w", op, err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		td, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TodoRepo.%s: scan: %w", op, err)
		}
		todos = append(todos, td)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TodoRepo.%s: rows: %w", op, err)
	}
	return todos, nil
}

// scanTodo maps a single todo row.
func scanTodo(s scanner) (domain.Todo, error) {
	var (
		td     domain.Todo
		id     pgtype.UUID
		uid    pgtype.UUID
		doneAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &uid, &td.Title, &td.Done, &doneAt, &td.CreatedAt, &td.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Todo{}, domain.ErrNotFound
		}
		return domain.Todo{}, err
	}

	td.ID = uuid.UUID(id.Bytes)
	td.UserID = uuid.UUID(uid.Bytes)
	if doneAt.Valid {
		t := doneAt.Time
		td.DoneAt = &t
	}
	return td, nil
}
