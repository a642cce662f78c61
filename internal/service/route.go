package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/repo"
)

// CreateRouteInput carries the fields of the route-creation form.
// Limits mirror the registry's display columns.
type CreateRouteInput struct {
	Code        string `validate:"required,max=20"`
	Name        string `validate:"required,max=120"`
	Origin      string `validate:"required,max=120"`
	Destination string `validate:"required,max=120"`
}

// RouteService implements the route registry operations. Both mutations
// write their audit entry inside the same transaction as the route change,
// through the injected TxRunner.
type RouteService struct {
	tx       TxRunner
	authz    OpsAuthorizer
	clock    Clock
	validate *validator.Validate
}

// NewRouteService constructs a RouteService.
func NewRouteService(tx TxRunner, authz OpsAuthorizer, clock Clock) *RouteService {
	return &RouteService{
		tx:       tx,
		authz:    authz,
		clock:    clock,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Create registers a new route and, atomically with it, today's on-time
// journey and a route_created audit entry referencing both — so the route is
// live on the boards the moment the transaction commits.
//
// The code is trimmed and upper-cased at this boundary; it is immutable
// afterwards. Returns domain.ErrDuplicateCode on a code collision (nothing
// is persisted) and domain.ErrValidation for incomplete input.
func (s *RouteService) Create(ctx context.Context, user *domain.User, in CreateRouteInput) (domain.Route, domain.Journey, error) {
	if err := s.authz.CanManageOps(ctx, user); err != nil {
		return domain.Route{}, domain.Journey{}, err
	}

	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)

	if err := s.validate.Struct(in); err != nil {
		return domain.Route{}, domain.Journey{}, fmt.Errorf("%w: please complete all route fields", domain.ErrValidation)
	}

	today := s.clock.Today()
	userID := user.ID

	var (
		route   domain.Route
		journey domain.Journey
	)
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		route, err = r.Routes.Create(ctx, domain.Route{
			Code:        in.Code,
			Name:        in.Name,
			Origin:      in.Origin,
			Destination: in.Destination,
			Active:      true,
		})
		if err != nil {
			return err
		}

		if _, err = r.Journeys.EnsureForDate(ctx, route.ID, today, &userID); err != nil {
			return err
		}
		journey, err = r.Journeys.GetByRouteAndDate(ctx, route.ID, today)
		if err != nil {
			return err
		}

		jID := journey.ID
		_, err = r.Changes.Append(ctx, domain.ChangeEntry{
			Action:          domain.ActionRouteCreated,
			RouteID:         route.ID,
			JourneyID:       &jID,
			ChangedBy:       &userID,
			Note:            "Route created in manager panel.",
			NewStatus:       journey.Status,
			NewDelayMinutes: journey.DelayMinutes,
			NewReason:       journey.Reason,
		})
		return err
	})
	if err != nil {
		return domain.Route{}, domain.Journey{}, fmt.Errorf("service.RouteService.Create: %w", err)
	}
	return route, journey, nil
}

// Discontinue soft-stops a route: the active flag is cleared, existing
// journeys are left untouched, and a route_discontinued entry (no journey
// reference) is appended in the same transaction. The route stays visible in
// history and in the manager board's discontinued section.
func (s *RouteService) Discontinue(ctx context.Context, user *domain.User, routeID uuid.UUID) (domain.Route, error) {
	if err := s.authz.CanManageOps(ctx, user); err != nil {
		return domain.Route{}, err
	}

	userID := user.ID

	var route domain.Route
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		route, err = r.Routes.Deactivate(ctx, routeID)
		if err != nil {
			return err
		}
		_, err = r.Changes.Append(ctx, domain.ChangeEntry{
			Action:    domain.ActionRouteDiscontinued,
			RouteID:   route.ID,
			ChangedBy: &userID,
			Note:      "Route discontinued in manager panel.",
		})
		return err
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Discontinue: %w", err)
	}
	return route, nil
}
