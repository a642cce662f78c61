package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

// JourneyRepo defines the persistence operations for Journeys.
type JourneyRepo interface {
	// EnsureForDate inserts the (route, date, NULL departure) journey with
	// on-time defaults if it does not exist yet. Concurrent callers race on
	// the unique constraint; the loser's insert is a silent no-op. Reports
	// whether a row was inserted.
	EnsureForDate(ctx context.Context, routeID uuid.UUID, date time.Time, updatedBy *uuid.UUID) (bool, error)

	// GetByID retrieves a single journey with its route joined.
	// Returns domain.ErrNotFound if no journey with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.BoardJourney, error)

	// GetByRouteAndDate retrieves the (route, date, NULL departure) journey,
	// i.e. the row EnsureForDate maintains.
	GetByRouteAndDate(ctx context.Context, routeID uuid.UUID, date time.Time) (domain.Journey, error)

	// ListForDate returns the journeys of all active routes on the given
	// service date, ordered by route code.
	ListForDate(ctx context.Context, date time.Time) ([]domain.BoardJourney, error)

	// Update overwrites the status fields of a journey and returns the
	// updated record. Returns domain.ErrNotFound for an unknown ID.
	Update(ctx context.Context, j domain.Journey) (domain.Journey, error)

	// CountForDate returns how many journeys exist for the given service
	// date across all routes.
	CountForDate(ctx context.Context, date time.Time) (int64, error)
}

// pgJourneyRepo is the Postgres implementation of JourneyRepo.
type pgJourneyRepo struct {
	db db
}

// NewJourneyRepo constructs a JourneyRepo backed by the provided db connection.
func NewJourneyRepo(db db) JourneyRepo {
	return &pgJourneyRepo{db: db}
}

// EnsureForDate get-or-creates the day's default journey for a route.
// ON CONFLICT DO NOTHING makes the call idempotent and race-safe: the unique
// constraint is the final arbiter when two board requests roll the day
// forward at once.
func (r *pgJourneyRepo) EnsureForDate(ctx context.Context, routeID uuid.UUID, date time.Time, updatedBy *uuid.UUID) (bool, error) {
	const q = `
		INSERT INTO ops_journeys (route_id, service_date, planned_departure, status, reason, updated_by)
		VALUES (@route_id, @service_date, NULL, @status, '', @updated_by)
		ON CONFLICT ON CONSTRAINT uniq_ops_route_date_departure DO NOTHING`

	args := pgx.NamedArgs{
		"route_id":     routeID,
		"service_date": date,
		"status":       domain.StatusOnTime,
		"updated_by":   updatedBy,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return false, fmt.Errorf("repo.JourneyRepo.EnsureForDate: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID retrieves a journey joined with its route.
func (r *pgJourneyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.BoardJourney, error) {
	const q = `
		SELECT j.id, j.route_id, j.service_date, j.planned_departure, j.status,
		       j.delay_minutes, j.reason, j.updated_at, j.updated_by,
		       rt.id, rt.code, rt.name, rt.origin, rt.destination, rt.active,
		       rt.created_at, rt.updated_at
		FROM ops_journeys j
		JOIN ops_routes rt ON rt.id = j.route_id
		WHERE j.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanBoardJourney(row)
	if err != nil {
		return domain.BoardJourney{}, fmt.Errorf("repo.JourneyRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByRouteAndDate retrieves the default (NULL departure) journey of a
// route on one service date.
func (r *pgJourneyRepo) GetByRouteAndDate(ctx context.Context, routeID uuid.UUID, date time.Time) (domain.Journey, error) {
	const q = `
		SELECT id, route_id, service_date, planned_departure, status,
		       delay_minutes, reason, updated_at, updated_by
		FROM ops_journeys
		WHERE route_id = @route_id AND service_date = @service_date
		      AND planned_departure IS NULL`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"route_id": routeID, "service_date": date})
	result, err := scanJourney(row)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.GetByRouteAndDate: %w", err)
	}
	return result, nil
}

// ListForDate returns active-route journeys for one service date, ordered by
// route code — the shape both boards render.
func (r *pgJourneyRepo) ListForDate(ctx context.Context, date time.Time) ([]domain.BoardJourney, error) {
	const q = `
		SELECT j.id, j.route_id, j.service_date, j.planned_departure, j.status,
		       j.delay_minutes, j.reason, j.updated_at, j.updated_by,
		       rt.id, rt.code, rt.name, rt.origin, rt.destination, rt.active,
		       rt.created_at, rt.updated_at
		FROM ops_journeys j
		JOIN ops_routes rt ON rt.id = j.route_id
		WHERE rt.active AND j.service_date = @service_date
		ORDER BY rt.code`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"service_date": date})
	if err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.ListForDate: %w", err)
	}
	defer rows.Close()

	var journeys []domain.BoardJourney
	for rows.Next() {
		j, err := scanBoardJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.JourneyRepo.ListForDate: scan: %w", err)
		}
		journeys = append(journeys, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.JourneyRepo.ListForDate: rows: %w", err)
	}
	return journeys, nil
}

// Update overwrites the mutable status fields of a journey.
func (r *pgJourneyRepo) Update(ctx context.Context, j domain.Journey) (domain.Journey, error) {
	const q = `
		UPDATE ops_journeys
		SET status        = @status,
		    delay_minutes = @delay_minutes,
		    reason        = @reason,
		    updated_by    = @updated_by,
		    updated_at    = now()
		WHERE id = @id
		RETURNING id, route_id, service_date, planned_departure, status,
		          delay_minutes, reason, updated_at, updated_by`

	args := pgx.NamedArgs{
		"id":            j.ID,
		"status":        j.Status,
		"delay_minutes": j.DelayMinutes, // nil becomes NULL
		"reason":        j.Reason,
		"updated_by":    j.UpdatedBy,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanJourney(row)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("repo.JourneyRepo.Update: %w", err)
	}
	return result, nil
}

// CountForDate returns the journey count for one service date.
func (r *pgJourneyRepo) CountForDate(ctx context.Context, date time.Time) (int64, error) {
	const q = `SELECT count(*) FROM ops_journeys WHERE service_date = @service_date`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"service_date": date}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.JourneyRepo.CountForDate: %w", err)
	}
	return n, nil
}

// scanJourney maps a journey row (without route columns) into a domain.Journey.
func scanJourney(s scanner) (domain.Journey, error) {
	var (
		id     pgtype.UUID
		route  pgtype.UUID
		date   pgtype.Date
		dep    pgtype.Time
		status pgtype.Text
		delay  pgtype.Int4
		reason pgtype.Text
		upd    pgtype.Timestamptz
		by     pgtype.UUID
	)

	err := s.Scan(&id, &route, &date, &dep, &status, &delay, &reason, &upd, &by)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Journey{}, domain.ErrNotFound
		}
		return domain.Journey{}, err
	}

	return journeyFromParts(id, route, date, dep, status, delay, reason, upd, by), nil
}

// scanBoardJourney maps a journey row joined with its route.
func scanBoardJourney(s scanner) (domain.BoardJourney, error) {
	var (
		id     pgtype.UUID
		route  pgtype.UUID
		date   pgtype.Date
		dep    pgtype.Time
		status pgtype.Text
		delay  pgtype.Int4
		reason pgtype.Text
		upd    pgtype.Timestamptz
		by     pgtype.UUID
		rtID   pgtype.UUID
		rt     domain.Route
	)

	err := s.Scan(&id, &route, &date, &dep, &status, &delay, &reason, &upd, &by,
		&rtID, &rt.Code, &rt.Name, &rt.Origin, &rt.Destination, &rt.Active,
		&rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BoardJourney{}, domain.ErrNotFound
		}
		return domain.BoardJourney{}, err
	}

	rt.ID = uuid.UUID(rtID.Bytes)
	return domain.BoardJourney{
		Journey: journeyFromParts(id, route, date, dep, status, delay, reason, upd, by),
		Route:   rt,
	}, nil
}

// journeyFromParts assembles a domain.Journey from scanned pgtype columns,
// handling the nullable departure, delay and updater fields.
func journeyFromParts(id, route pgtype.UUID, date pgtype.Date, dep pgtype.Time,
	status pgtype.Text, delay pgtype.Int4, reason pgtype.Text,
	upd pgtype.Timestamptz, by pgtype.UUID) domain.Journey {

	j := domain.Journey{
		ID:          uuid.UUID(id.Bytes),
		RouteID:     uuid.UUID(route.Bytes),
		ServiceDate: date.Time,
		Status:      domain.JourneyStatus(status.String),
		Reason:      reason.String,
		UpdatedAt:   upd.Time,
	}
	if dep.Valid {
		// planned_departure is a bare time-of-day; anchor it on the zero date.
		t := time.Time{}.Add(time.Duration(dep.Microseconds) * time.Microsecond)
		j.PlannedDeparture = &t
	}
	if delay.Valid {
		d := int(delay.Int32)
		j.DelayMinutes = &d
	}
	if by.Valid {
		u := uuid.UUID(by.Bytes)
		j.UpdatedBy = &u
	}
	return j
}
