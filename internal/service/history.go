package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/repo"
)

// historyPageSize is the fixed page length of the audit history view.
const historyPageSize = 50

// HistoryPage is one page of the filtered audit trail, together with the
// route list the filter dropdown renders and the effective date window.
type HistoryPage struct {
	Entries  []domain.HistoryEntry `json:"entries"`
	Routes   []domain.Route        `json:"routes"`
	DateFrom time.Time             `json:"date_from"`
	DateTo   time.Time             `json:"date_to"`
	Query    string                `json:"q,omitempty"`
	PageInfo domain.PageInfo       `json:"pagination"`
}

// HistoryService implements the read-only audit history query.
type HistoryService struct {
	changes repo.ChangeRepo
	routes  repo.RouteRepo
	authz   OpsAuthorizer
	clock   Clock
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(changes repo.ChangeRepo, routes repo.RouteRepo, authz OpsAuthorizer, clock Clock) *HistoryService {
	return &HistoryService{changes: changes, routes: routes, authz: authz, clock: clock}
}

// Query returns one page of change entries matching the filter, newest
// first. When neither date bound is given the window defaults to the last 7
// days ending today. Out-of-range page numbers are clamped to the nearest
// valid page rather than erroring. Requires the Live Ops credential.
func (s *HistoryService) Query(ctx context.Context, user *domain.User, f domain.HistoryFilter, page *int) (HistoryPage, error) {
	if err := s.authz.CanManageOps(ctx, user); err != nil {
		return HistoryPage{}, err
	}

	if f.DateFrom == nil && f.DateTo == nil {
		to := s.clock.Today()
		from := to.AddDate(0, 0, -7)
		f.DateFrom = &from
		f.DateTo = &to
	}

	total, err := s.changes.CountHistory(ctx, f)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("service.HistoryService.Query: %w", err)
	}

	p := domain.NewPaginationParams(page, historyPageSize).ClampToTotal(total)

	entries, err := s.changes.ListHistory(ctx, f, p)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("service.HistoryService.Query: %w", err)
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}

	routes, err := s.routes.List(ctx)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("service.HistoryService.Query: %w", err)
	}
	if routes == nil {
		routes = []domain.Route{}
	}

	out := HistoryPage{
		Entries:  entries,
		Routes:   routes,
		Query:    f.Query,
		PageInfo: domain.PageInfo{Page: p.Page, Limit: p.Limit, Total: total},
	}
	if f.DateFrom != nil {
		out.DateFrom = *f.DateFrom
	}
	if f.DateTo != nil {
		out.DateTo = *f.DateTo
	}
	return out, nil
}
