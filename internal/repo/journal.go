package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

// JournalRepo defines the persistence operations for daily journals and
// their revision snapshots.
type JournalRepo interface {
	// GetOrCreateForDate returns the user's journal for the given date,
	// creating an empty one if it does not exist yet. When called inside a
	// transaction, the returned row is locked until commit (the upsert's
	// conflict arm takes the same row lock SELECT ... FOR UPDATE would), so
	// concurrent autosaves from two tabs serialize instead of losing writes.
	GetOrCreateForDate(ctx context.Context, userID uuid.UUID, date time.Time) (domain.Journal, error)

	// UpdateContent overwrites the journal's content verbatim — no trimming.
	// Returns domain.ErrNotFound for an unknown ID.
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (domain.Journal, error)

	// AppendRevision inserts one immutable content snapshot.
	AppendRevision(ctx context.Context, rev domain.JournalRevision) (domain.JournalRevision, error)

	// ListRevisions returns all snapshots of one journal, newest first.
	ListRevisions(ctx context.Context, journalID uuid.UUID) ([]domain.JournalRevision, error)

	// CountByUser returns how many of the user's journals match the optional
	// case-insensitive content substring filter.
	CountByUser(ctx context.Context, userID uuid.UUID, query string) (int64, error)

	// ListByUser returns one page of the user's journals, newest entry date
	// first, each annotated with its revision count.
	ListByUser(ctx context.Context, userID uuid.UUID, query string, p domain.PaginationParams) ([]domain.JournalWithRevisionCount, error)
}

// pgJournalRepo is the Postgres implementation of JournalRepo.
type pgJournalRepo struct {
	db db
}

// NewJournalRepo constructs a JournalRepo backed by the provided db connection.
func NewJournalRepo(db db) JournalRepo {
	return &pgJournalRepo{db: db}
}

// GetOrCreateForDate upserts the (user, date) journal and returns it.
// The DO UPDATE SET trick forces RETURNING to fire on the existing row —
// a DO NOTHING conflict returns no row at all. As a side effect the conflict
// arm locks the row for the rest of the enclosing transaction, which is
// exactly the serialization the autosave path needs.
func (r *pgJournalRepo) GetOrCreateForDate(ctx context.Context, userID uuid.UUID, date time.Time) (domain.Journal, error) {
	const q = `
		INSERT INTO ops_journals (user_id, entry_date, content)
		VALUES (@user_id, @entry_date, '')
		ON CONFLICT (user_id, entry_date) DO UPDATE SET entry_date = EXCLUDED.entry_date
		RETURNING id, user_id, entry_date, content, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "entry_date": date})
	result, err := scanJournal(row)
	if err != nil {
		return domain.Journal{}, fmt.Errorf("repo.JournalRepo.GetOrCreateForDate: %w", err)
	}
	return result, nil
}

// UpdateContent overwrites the content field in place.
func (r *pgJournalRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) (domain.Journal, error) {
	const q = `
		UPDATE ops_journals
		SET content = @content, updated_at = now()
		WHERE id = @id
		RETURNING id, user_id, entry_date, content, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "content": content})
	result, err := scanJournal(row)
	if err != nil {
		return domain.Journal{}, fmt.Errorf("repo.JournalRepo.UpdateContent: %w", err)
	}
	return result, nil
}

// AppendRevision inserts one snapshot row.
func (r *pgJournalRepo) AppendRevision(ctx context.Context, rev domain.JournalRevision) (domain.JournalRevision, error) {
	const q = `
		INSERT INTO ops_journal_revisions (journal_id, saved_by, content)
		VALUES (@journal_id, @saved_by, @content)
		RETURNING id, journal_id, saved_by, saved_at, content`

	args := pgx.NamedArgs{
		"journal_id": rev.JournalID,
		"saved_by":   rev.SavedBy,
		"content":    rev.Content,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRevision(row)
	if err != nil {
		return domain.JournalRevision{}, fmt.Errorf("repo.JournalRepo.AppendRevision: %w", err)
	}
	return result, nil
}

// ListRevisions returns every snapshot of a journal, newest first.
func (r *pgJournalRepo) ListRevisions(ctx context.Context, journalID uuid.UUID) ([]domain.JournalRevision, error) {
	const q = `
		SELECT id, journal_id, saved_by, saved_at, content
		FROM ops_journal_revisions
		WHERE journal_id = @journal_id
		ORDER BY saved_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"journal_id": journalID})
	if err != nil {
		return nil, fmt.Errorf("repo.JournalRepo.ListRevisions: %w", err)
	}
	defer rows.Close()

	var revs []domain.JournalRevision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.JournalRepo.ListRevisions: scan: %w", err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.JournalRepo.ListRevisions: rows: %w", err)
	}
	return revs, nil
}

// CountByUser counts the user's journals matching the content filter.
func (r *pgJournalRepo) CountByUser(ctx context.Context, userID uuid.UUID, query string) (int64, error) {
	q := `SELECT count(*) FROM ops_journals WHERE user_id = @user_id`
	args := pgx.NamedArgs{"user_id": userID}
	if query != "" {
		q += ` AND content ILIKE @q`
		args["q"] = "%" + escapeLike(query) + "%"
	}

	var n int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.JournalRepo.CountByUser: %w", err)
	}
	return n, nil
}

// ListByUser returns one page of the user's journals with revision counts.
func (r *pgJournalRepo) ListByUser(ctx context.Context, userID uuid.UUID, query string, p domain.PaginationParams) ([]domain.JournalWithRevisionCount, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT jn.id, jn.user_id, jn.entry_date, jn.content, jn.created_at, jn.updated_at,
		       (SELECT count(*) FROM ops_journal_revisions rv WHERE rv.journal_id = jn.id)
		FROM ops_journals jn
		WHERE jn.user_id = @user_id`)
	args := pgx.NamedArgs{"user_id": userID, "limit": p.Limit, "offset": p.Offset()}
	if query != "" {
		b.WriteString(` AND jn.content ILIKE @q`)
		args["q"] = "%" + escapeLike(query) + "%"
	}
	b.WriteString(`
		ORDER BY jn.entry_date DESC, jn.updated_at DESC
		LIMIT @limit OFFSET @offset`)

	rows, err := r.db.Query(ctx, b.String(), args)
	if err != nil {
		return nil, fmt.Errorf("repo.JournalRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var journals []domain.JournalWithRevisionCount
	for rows.Next() {
		var (
			out domain.JournalWithRevisionCount
			id  pgtype.UUID
			uid pgtype.UUID
			d   pgtype.Date
		)
		err := rows.Scan(&id, &uid, &d, &out.Content, &out.CreatedAt, &out.UpdatedAt, &out.RevisionCount)
		if err != nil {
			return nil, fmt.Errorf("repo.JournalRepo.ListByUser: scan: %w", err)
		}
		out.ID = uuid.UUID(id.Bytes)
		out.UserID = uuid.UUID(uid.Bytes)
		out.EntryDate = d.Time
		journals = append(journals, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.JournalRepo.ListByUser: rows: %w", err)
	}
	return journals, nil
}

// scanJournal maps a single journal row.
func scanJournal(s scanner) (domain.Journal, error) {
	var (
		jn  domain.Journal
		id  pgtype.UUID
		uid pgtype.UUID
		d   pgtype.Date
	)

	err := s.Scan(&id, &uid, &d, &jn.Content, &jn.CreatedAt, &jn.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Journal{}, domain.ErrNotFound
		}
		return domain.Journal{}, err
	}

	jn.ID = uuid.UUID(id.Bytes)
	jn.UserID = uuid.UUID(uid.Bytes)
	jn.EntryDate = d.Time
	return jn, nil
}

// scanRevision maps a single revision row.
func scanRevision(s scanner) (domain.JournalRevision, error) {
	var (
		rev domain.JournalRevision
		id  pgtype.UUID
		jid pgtype.UUID
		by  pgtype.UUID
	)

	err := s.Scan(&id, &jid, &by, &rev.SavedAt, &rev.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.JournalRevision{}, domain.ErrNotFound
		}
		return domain.JournalRevision{}, err
	}

	rev.ID = uuid.UUID(id.Bytes)
	rev.JournalID = uuid.UUID(jid.Bytes)
	if by.Valid {
		u := uuid.UUID(by.Bytes)
		rev.SavedBy = &u
	}
	return rev, nil
}
