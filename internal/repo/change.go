package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

// ChangeRepo defines the persistence operations for the append-only audit
// trail. There is deliberately no update or delete: entries are written once,
// in the same transaction as the mutation they document, and only ever read
// back.
type ChangeRepo interface {
	// Append inserts one audit entry and returns the persisted record.
	Append(ctx context.Context, e domain.ChangeEntry) (domain.ChangeEntry, error)

	// CountHistory returns how many entries match the filter.
	CountHistory(ctx context.Context, f domain.HistoryFilter) (int64, error)

	// ListHistory returns one page of entries matching the filter, newest
	// first (created_at desc, tie-broken by id desc), with the route and the
	// linked journey's service date joined in.
	ListHistory(ctx context.Context, f domain.HistoryFilter, p domain.PaginationParams) ([]domain.HistoryEntry, error)

	// ListByRoute returns every entry for one route, newest first.
	// Used by tests to assert audit completeness; not exposed over HTTP.
	ListByRoute(ctx context.Context, routeID uuid.UUID) ([]domain.ChangeEntry, error)
}

// pgChangeRepo is the Postgres implementation of ChangeRepo.
type pgChangeRepo struct {
	db db
}

// NewChangeRepo constructs a ChangeRepo backed by the provided db connection.
func NewChangeRepo(db db) ChangeRepo {
	return &pgChangeRepo{db: db}
}

// Append inserts one immutable audit entry.
func (r *pgChangeRepo) Append(ctx context.Context, e domain.ChangeEntry) (domain.ChangeEntry, error) {
	const q = `
		INSERT INTO ops_change_entries
			(action, route_id, journey_id, changed_by, note,
			 old_status, new_status, old_delay_minutes, new_delay_minutes,
			 old_reason, new_reason)
		VALUES
			(@action, @route_id, @journey_id, @changed_by, @note,
			 @old_status, @new_status, @old_delay_minutes, @new_delay_minutes,
			 @old_reason, @new_reason)
		RETURNING id, action, route_id, journey_id, changed_by, note,
		          old_status, new_status, old_delay_minutes, new_delay_minutes,
		          old_reason, new_reason, created_at`

	args := pgx.NamedArgs{
		"action":            e.Action,
		"route_id":          e.RouteID,
		"journey_id":        e.JourneyID,
		"changed_by":        e.ChangedBy,
		"note":              e.Note,
		"old_status":        string(e.OldStatus),
		"new_status":        string(e.NewStatus),
		"old_delay_minutes": e.OldDelayMinutes,
		"new_delay_minutes": e.NewDelayMinutes,
		"old_reason":        e.OldReason,
		"new_reason":        e.NewReason,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanChangeEntry(row)
	if err != nil {
		return domain.ChangeEntry{}, fmt.Errorf("repo.ChangeRepo.Append: %w", err)
	}
	return result, nil
}

// historyWhere builds the WHERE clause and named args shared by CountHistory
// and ListHistory. The date filter prefers the linked journey's service date
// and falls back to the entry's creation date for route-only events.
func historyWhere(f domain.HistoryFilter) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	switch {
	case f.DateFrom != nil && f.DateTo != nil:
		conds = append(conds, `(
			(j.service_date IS NOT NULL AND j.service_date BETWEEN @date_from::date AND @date_to::date)
			OR (j.service_date IS NULL AND e.created_at::date BETWEEN @date_from::date AND @date_to::date))`)
		args["date_from"] = *f.DateFrom
		args["date_to"] = *f.DateTo
	case f.DateFrom != nil:
		conds = append(conds, `(
			(j.service_date IS NOT NULL AND j.service_date >= @date_from::date)
			OR (j.service_date IS NULL AND e.created_at::date >= @date_from::date))`)
		args["date_from"] = *f.DateFrom
	case f.DateTo != nil:
		conds = append(conds, `(
			(j.service_date IS NOT NULL AND j.service_date <= @date_to::date)
			OR (j.service_date IS NULL AND e.created_at::date <= @date_to::date))`)
		args["date_to"] = *f.DateTo
	}

	if f.RouteID != nil {
		conds = append(conds, `e.route_id = @route_id`)
		args["route_id"] = *f.RouteID
	}

	if f.Query != "" {
		conds = append(conds, `(
			e.action ILIKE @q OR e.note ILIKE @q
			OR rt.code ILIKE @q OR rt.name ILIKE @q
			OR rt.origin ILIKE @q OR rt.destination ILIKE @q)`)
		args["q"] = "%" + escapeLike(f.Query) + "%"
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// CountHistory returns the number of entries matching the filter.
func (r *pgChangeRepo) CountHistory(ctx context.Context, f domain.HistoryFilter) (int64, error) {
	where, args := historyWhere(f)
	q := `
		SELECT count(*)
		FROM ops_change_entries e
		JOIN ops_routes rt ON rt.id = e.route_id
		LEFT JOIN ops_journeys j ON j.id = e.journey_id ` + where

	var n int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ChangeRepo.CountHistory: %w", err)
	}
	return n, nil
}

// ListHistory returns one page of filtered entries, newest first.
func (r *pgChangeRepo) ListHistory(ctx context.Context, f domain.HistoryFilter, p domain.PaginationParams) ([]domain.HistoryEntry, error) {
	where, args := historyWhere(f)
	q := `
		SELECT e.id, e.action, e.route_id, e.journey_id, e.changed_by, e.note,
		       e.old_status, e.new_status, e.old_delay_minutes, e.new_delay_minutes,
		       e.old_reason, e.new_reason, e.created_at,
		       rt.id, rt.code, rt.name, rt.origin, rt.destination, rt.active,
		       rt.created_at, rt.updated_at,
		       j.service_date
		FROM ops_change_entries e
		JOIN ops_routes rt ON rt.id = e.route_id
		LEFT JOIN ops_journeys j ON j.id = e.journey_id ` + where + `
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT @limit OFFSET @offset`

	args["limit"] = p.Limit
	args["offset"] = p.Offset()

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ChangeRepo.ListHistory: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			out   domain.HistoryEntry
			rtID  pgtype.UUID
			jDate pgtype.Date
		)
		e, err := scanChangeEntryInto(rows, func(s scanner, dests []any) error {
			dests = append(dests,
				&rtID, &out.Route.Code, &out.Route.Name, &out.Route.Origin,
				&out.Route.Destination, &out.Route.Active,
				&out.Route.CreatedAt, &out.Route.UpdatedAt,
				&jDate)
			return s.Scan(dests...)
		})
		if err != nil {
			return nil, fmt.Errorf("repo.ChangeRepo.ListHistory: scan: %w", err)
		}
		out.ChangeEntry = e
		out.Route.ID = uuid.UUID(rtID.Bytes)
		if jDate.Valid {
			d := jDate.Time
			out.JourneyServiceDate = &d
		}
		entries = append(entries, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ChangeRepo.ListHistory: rows: %w", err)
	}
	return entries, nil
}

// ListByRoute returns all entries for one route, newest first.
func (r *pgChangeRepo) ListByRoute(ctx context.Context, routeID uuid.UUID) ([]domain.ChangeEntry, error) {
	const q = `
		SELECT id, action, route_id, journey_id, changed_by, note,
		       old_status, new_status, old_delay_minutes, new_delay_minutes,
		       old_reason, new_reason, created_at
		FROM ops_change_entries
		WHERE route_id = @route_id
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_id": routeID})
	if err != nil {
		return nil, fmt.Errorf("repo.ChangeRepo.ListByRoute: %w", err)
	}
	defer rows.Close()

	var entries []domain.ChangeEntry
	for rows.Next() {
		e, err := scanChangeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ChangeRepo.ListByRoute: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ChangeRepo.ListByRoute: rows: %w", err)
	}
	return entries, nil
}

// scanChangeEntry maps a bare change-entry row.
func scanChangeEntry(s scanner) (domain.ChangeEntry, error) {
	return scanChangeEntryInto(s, func(s scanner, dests []any) error {
		return s.Scan(dests...)
	})
}

// scanChangeEntryInto scans the change-entry columns and hands the dest list
// to finish, which may append further destinations for joined columns before
// performing the scan.
func scanChangeEntryInto(s scanner, finish func(scanner, []any) error) (domain.ChangeEntry, error) {
	var (
		e        domain.ChangeEntry
		id       pgtype.UUID
		routeID  pgtype.UUID
		journey  pgtype.UUID
		by       pgtype.UUID
		oldSt    pgtype.Text
		newSt    pgtype.Text
		oldDelay pgtype.Int4
		newDelay pgtype.Int4
	)

	dests := []any{
		&id, &e.Action, &routeID, &journey, &by, &e.Note,
		&oldSt, &newSt, &oldDelay, &newDelay,
		&e.OldReason, &e.NewReason, &e.CreatedAt,
	}

	if err := finish(s, dests); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChangeEntry{}, domain.ErrNotFound
		}
		return domain.ChangeEntry{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.RouteID = uuid.UUID(routeID.Bytes)
	e.OldStatus = domain.JourneyStatus(oldSt.String)
	e.NewStatus = domain.JourneyStatus(newSt.String)
	if journey.Valid {
		j := uuid.UUID(journey.Bytes)
		e.JourneyID = &j
	}
	if by.Valid {
		u := uuid.UUID(by.Bytes)
		e.ChangedBy = &u
	}
	if oldDelay.Valid {
		d := int(oldDelay.Int32)
		e.OldDelayMinutes = &d
	}
	if newDelay.Valid {
		d := int(newDelay.Int32)
		e.NewDelayMinutes = &d
	}
	return e, nil
}

// escapeLike neutralizes LIKE wildcards in user-supplied search text so a
// query for "50%" matches the literal characters.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
