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

// RouteRepo defines the persistence operations for Routes.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type RouteRepo interface {
	// Create inserts a new route and returns the persisted record.
	// Returns domain.ErrDuplicateCode if the code is already taken.
	Create(ctx context.Context, route domain.Route) (domain.Route, error)

	// GetByID retrieves a single route by its UUID primary key.
	// Returns domain.ErrNotFound if no route with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error)

	// ListActive returns all active routes ordered by code.
	ListActive(ctx context.Context) ([]domain.Route, error)

	// List returns all routes, active and discontinued, ordered by code.
	List(ctx context.Context) ([]domain.Route, error)

	// ListDiscontinued returns all inactive routes ordered by code, each
	// annotated with its most recent journey (nil when it never ran).
	ListDiscontinued(ctx context.Context) ([]domain.RouteWithLastJourney, error)

	// Deactivate clears the active flag. The code, journeys and history of
	// the route are untouched. Returns domain.ErrNotFound for an unknown ID.
	Deactivate(ctx context.Context, id uuid.UUID) (domain.Route, error)
}

// pgRouteRepo is the Postgres implementation of RouteRepo.
type pgRouteRepo struct {
	db db
}

// NewRouteRepo constructs a RouteRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRouteRepo(db db) RouteRepo {
	return &pgRouteRepo{db: db}
}

// Create inserts a new route row and returns the full persisted record.
func (r *pgRouteRepo) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	const q = `
		INSERT INTO ops_routes (code, name, origin, destination, active)
		VALUES (@code, @name, @origin, @destination, @active)
		RETURNING id, code, name, origin, destination, active, created_at, updated_at`

	args := pgx.NamedArgs{
		"code":        route.Code,
		"name":        route.Name,
		"origin":      route.Origin,
		"destination": route.Destination,
		"active":      route.Active,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRoute(row)
	if err != nil {
		if isUniqueViolation(err, "ops_routes_code_key") {
			return domain.Route{}, fmt.Errorf("repo.RouteRepo.Create: %w", domain.ErrDuplicateCode)
		}
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a route by primary key.
func (r *pgRouteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	const q = `
		SELECT id, code, name, origin, destination, active, created_at, updated_at
		FROM ops_routes
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanRoute(row)
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListActive returns all active routes ordered by code.
func (r *pgRouteRepo) ListActive(ctx context.Context) ([]domain.Route, error) {
	return r.list(ctx, "WHERE active", "ListActive")
}

// List returns every route ordered by code.
func (r *pgRouteRepo) List(ctx context.Context) ([]domain.Route, error) {
	return r.list(ctx, "", "List")
}

func (r *pgRouteRepo) list(ctx context.Context, where, op string) ([]domain.Route, error) {
	q := `
		SELECT id, code, name, origin, destination, active, created_at, updated_at
		FROM ops_routes ` + where + `
		ORDER BY code`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.%s: %w", op, err)
	}
	defer rows.Close()

	var routes []domain.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RouteRepo.%s: scan: %w", op, err)
		}
		routes = append(routes, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.%s: rows: %w", op, err)
	}
	return routes, nil
}

// ListDiscontinued returns inactive routes with their latest journey attached.
// A LEFT JOIN LATERAL picks the most recent journey per route in one query
// instead of one follow-up query per row.
func (r *pgRouteRepo) ListDiscontinued(ctx context.Context) ([]domain.RouteWithLastJourney, error) {
	const q = `
		SELECT rt.id, rt.code, rt.name, rt.origin, rt.destination, rt.active,
		       rt.created_at, rt.updated_at,
		       j.id, j.route_id, j.service_date, j.planned_departure, j.status,
		       j.delay_minutes, j.reason, j.updated_at, j.updated_by
		FROM ops_routes rt
		LEFT JOIN LATERAL (
			SELECT *
			FROM ops_journeys
			WHERE route_id = rt.id
			ORDER BY service_date DESC, updated_at DESC, id DESC
			LIMIT 1
		) j ON true
		WHERE NOT rt.active
		ORDER BY rt.code`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListDiscontinued: %w", err)
	}
	defer rows.Close()

	var routes []domain.RouteWithLastJourney
	for rows.Next() {
		var (
			out     domain.RouteWithLastJourney
			rid     pgtype.UUID
			jID     pgtype.UUID
			jRoute  pgtype.UUID
			jDate   pgtype.Date
			jDep    pgtype.Time
			jStatus pgtype.Text
			jDelay  pgtype.Int4
			jReason pgtype.Text
			jUpd    pgtype.Timestamptz
			jBy     pgtype.UUID
		)
		err := rows.Scan(
			&rid, &out.Code, &out.Name, &out.Origin, &out.Destination, &out.Active,
			&out.CreatedAt, &out.UpdatedAt,
			&jID, &jRoute, &jDate, &jDep, &jStatus, &jDelay, &jReason, &jUpd, &jBy,
		)
		if err != nil {
			return nil, fmt.Errorf("repo.RouteRepo.ListDiscontinued: scan: %w", err)
		}
		out.ID = uuid.UUID(rid.Bytes)
		if jID.Valid {
			j := journeyFromParts(jID, jRoute, jDate, jDep, jStatus, jDelay, jReason, jUpd, jBy)
			out.LastJourney = &j
		}
		routes = append(routes, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListDiscontinued: rows: %w", err)
	}
	return routes, nil
}

// Deactivate clears the active flag and returns the updated route.
func (r *pgRouteRepo) Deactivate(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	const q = `
		UPDATE ops_routes
		SET active = false, updated_at = now()
		WHERE id = @id
		RETURNING id, code, name, origin, destination, active, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanRoute(row)
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.Deactivate: %w", err)
	}
	return result, nil
}

// scanRoute maps a single database row into a domain.Route.
func scanRoute(s scanner) (domain.Route, error) {
	var (
		rt domain.Route
		id pgtype.UUID
	)

	err := s.Scan(&id, &rt.Code, &rt.Name, &rt.Origin, &rt.Destination, &rt.Active,
		&rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Route{}, domain.ErrNotFound
		}
		return domain.Route{}, err
	}

	rt.ID = uuid.UUID(id.Bytes)
	return rt, nil
}
