package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/repo"
)

// Board is the public view of today's services.
type Board struct {
	Date     time.Time             `json:"date"`
	Weekend  bool                  `json:"weekend"`
	Journeys []domain.BoardJourney `json:"journeys"`
}

// ManagerBoard extends the public board with the discontinued routes,
// each carrying its most recent journey.
type ManagerBoard struct {
	Board
	DiscontinuedRoutes []domain.RouteWithLastJourney `json:"discontinued_routes"`
}

// BoardService implements the board views and the day roll-forward that
// backs them. Every board request — public or manager — rolls the day
// forward first, which is what makes a freshly created route appear on both
// boards without a nightly job.
type BoardService struct {
	tx       TxRunner
	journeys repo.JourneyRepo
	routes   repo.RouteRepo
	authz    OpsAuthorizer
	clock    Clock
}

// NewBoardService constructs a BoardService.
func NewBoardService(tx TxRunner, journeys repo.JourneyRepo, routes repo.RouteRepo, authz OpsAuthorizer, clock Clock) *BoardService {
	return &BoardService{tx: tx, journeys: journeys, routes: routes, authz: authz, clock: clock}
}

// EnsureTodayJourneys get-or-creates today's journey for every active route,
// inside one transaction. Idempotent: calling it N times in the same day
// leaves exactly one row per route — the unique constraint absorbs races
// between concurrent board requests. Returns today's date.
func (s *BoardService) EnsureTodayJourneys(ctx context.Context, user *domain.User) (time.Time, error) {
	today := s.clock.Today()

	var updatedBy *uuid.UUID
	if user != nil {
		id := user.ID
		updatedBy = &id
	}

	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		routes, err := r.Routes.ListActive(ctx)
		if err != nil {
			return err
		}
		for _, rt := range routes {
			if _, err := r.Journeys.EnsureForDate(ctx, rt.ID, today, updatedBy); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("service.BoardService.EnsureTodayJourneys: %w", err)
	}
	return today, nil
}

// Public returns today's board for everyone: all active routes' journeys,
// on-time by default until a manager says otherwise. On weekends no services
// run, so the board is empty and the day is not rolled forward.
func (s *BoardService) Public(ctx context.Context, user *domain.User) (Board, error) {
	today := s.clock.Today()
	if isWeekend(today) {
		return Board{Date: today, Weekend: true, Journeys: []domain.BoardJourney{}}, nil
	}

	if _, err := s.EnsureTodayJourneys(ctx, user); err != nil {
		return Board{}, fmt.Errorf("service.BoardService.Public: %w", err)
	}

	journeys, err := s.journeys.ListForDate(ctx, today)
	if err != nil {
		return Board{}, fmt.Errorf("service.BoardService.Public: %w", err)
	}
	if journeys == nil {
		journeys = []domain.BoardJourney{}
	}
	return Board{Date: today, Journeys: journeys}, nil
}

// Manager returns the manager's board: today's journeys plus discontinued
// routes with the state they were left in. Requires the Live Ops credential.
func (s *BoardService) Manager(ctx context.Context, user *domain.User) (ManagerBoard, error) {
	if err := s.authz.CanManageOps(ctx, user); err != nil {
		return ManagerBoard{}, err
	}

	today, err := s.EnsureTodayJourneys(ctx, user)
	if err != nil {
		return ManagerBoard{}, fmt.Errorf("service.BoardService.Manager: %w", err)
	}

	journeys, err := s.journeys.ListForDate(ctx, today)
	if err != nil {
		return ManagerBoard{}, fmt.Errorf("service.BoardService.Manager: %w", err)
	}
	if journeys == nil {
		journeys = []domain.BoardJourney{}
	}

	discontinued, err := s.routes.ListDiscontinued(ctx)
	if err != nil {
		return ManagerBoard{}, fmt.Errorf("service.BoardService.Manager: %w", err)
	}
	if discontinued == nil {
		discontinued = []domain.RouteWithLastJourney{}
	}

	return ManagerBoard{
		Board:              Board{Date: today, Journeys: journeys},
		DiscontinuedRoutes: discontinued,
	}, nil
}
