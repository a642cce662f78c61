package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyscoaches/ops-board/internal/domain"
	"github.com/cozyscoaches/ops-board/internal/repo"
)

// appendJourneyUpdate writes a journey_updated entry linking the given
// journey, as the journey service would.
func appendJourneyUpdate(t *testing.T, r repo.Repos, route domain.Route, journey domain.Journey, note string) domain.ChangeEntry {
	t.Helper()
	jID := journey.ID
	delay := 10
	entry, err := r.Changes.Append(context.Background(), domain.ChangeEntry{
		Action:          domain.ActionJourneyUpdated,
		RouteID:         route.ID,
		JourneyID:       &jID,
		Note:            note,
		OldStatus:       domain.StatusOnTime,
		NewStatus:       domain.StatusDelayed,
		NewDelayMinutes: &delay,
		NewReason:       "Roadworks",
	})
	require.NoError(t, err)
	return entry
}

func TestChangeRepo_Append(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	route, err := r.Routes.Create(ctx, routeFixture())
	require.NoError(t, err)
	author := uuid.New()

	got, err := r.Changes.Append(ctx, domain.ChangeEntry{
		Action:    domain.ActionRouteCreated,
		RouteID:   route.ID,
		ChangedBy: &author,
		Note:      "Route created in manager panel.",
		NewStatus: domain.StatusOnTime,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, domain.ActionRouteCreated, got.Action)
	assert.Nil(t, got.JourneyID, "route-level events carry no journey")
	require.NotNil(t, got.ChangedBy)
	assert.Equal(t, author, *got.ChangedBy)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestChangeRepo_ListByRoute_NewestFirst(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	route, journey := createRouteWithJourney(t, r)

	first, err := r.Changes.Append(ctx, domain.ChangeEntry{
		Action: domain.ActionRouteCreated, RouteID: route.ID, Note: "Route created in manager panel.",
	})
	require.NoError(t, err)
	second := appendJourneyUpdate(t, r, route, journey, "Status updated in manager panel.")

	got, err := r.Changes.ListByRoute(ctx, route.ID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestChangeRepo_History_RouteFilter(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	routeA, err := r.Routes.Create(ctx, routeFixture())
	require.NoError(t, err)
	other := routeFixture()
	other.Code = "Z99"
	routeB, err := r.Routes.Create(ctx, other)
	require.NoError(t, err)

	_, err = r.Changes.Append(ctx, domain.ChangeEntry{Action: domain.ActionRouteCreated, RouteID: routeA.ID})
	require.NoError(t, err)
	_, err = r.Changes.Append(ctx, domain.ChangeEntry{Action: domain.ActionRouteCreated, RouteID: routeB.ID})
	require.NoError(t, err)

	f := domain.HistoryFilter{RouteID: &routeA.ID}
	total, err := r.Changes.CountHistory(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	got, err := r.Changes.ListHistory(ctx, f, domain.PaginationParams{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, routeA.ID, got[0].Route.ID)
	assert.Equal(t, routeA.Code, got[0].Route.Code, "route must be joined in")
}

func TestChangeRepo_History_DateFilterPrefersJourneyServiceDate(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	route, journey := createRouteWithJourney(t, r)
	appendJourneyUpdate(t, r, route, journey, "Status updated in manager panel.")

	// A window around the journey's service date matches the entry even
	// though created_at is "now" — the service date wins when a journey is
	// linked.
	from := serviceDate.AddDate(0, 0, -1)
	to := serviceDate.AddDate(0, 0, 1)
	f := domain.HistoryFilter{DateFrom: &from, DateTo: &to}

	total, err := r.Changes.CountHistory(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	got, err := r.Changes.ListHistory(ctx, f, domain.PaginationParams{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].JourneyServiceDate)
	assert.True(t, got[0].JourneyServiceDate.Equal(serviceDate))
}

func TestChangeRepo_History_DateFilterFallsBackToCreatedAt(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	route, err := r.Routes.Create(ctx, routeFixture())
	require.NoError(t, err)
	_, err = r.Changes.Append(ctx, domain.ChangeEntry{Action: domain.ActionRouteCreated, RouteID: route.ID})
	require.NoError(t, err)

	// Route-level events carry no journey; their created_at date applies.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -1)
	to := today.AddDate(0, 0, 1)
	f := domain.HistoryFilter{DateFrom: &from, DateTo: &to}

	total, err := r.Changes.CountHistory(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// A window well in the past must exclude it.
	oldFrom := today.AddDate(-1, 0, 0)
	oldTo := today.AddDate(-1, 0, 7)
	total, err = r.Changes.CountHistory(ctx, domain.HistoryFilter{DateFrom: &oldFrom, DateTo: &oldTo})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestChangeRepo_History_TextQuery(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	route, err := r.Routes.Create(ctx, routeFixture())
	require.NoError(t, err)
	_, err = r.Changes.Append(ctx, domain.ChangeEntry{
		Action: domain.ActionRouteCreated, RouteID: route.ID, Note: "Route created in manager panel.",
	})
	require.NoError(t, err)

	cases := []struct {
		name  string
		query string
		want  int64
	}{
		{"matches note", "manager panel", 1},
		{"matches route code case-insensitively", "j81", 1},
		{"matches destination", "berlin", 1},
		{"matches action", "route_created", 1},
		{"no match", "does-not-exist", 0},
		{"like metacharacters are literal", "100%", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total, err := r.Changes.CountHistory(ctx, domain.HistoryFilter{Query: tc.query})
			require.NoError(t, err)
			assert.Equal(t, tc.want, total)
		})
	}
}

func TestChangeRepo_History_Pagination(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	route, err := r.Routes.Create(ctx, routeFixture())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = r.Changes.Append(ctx, domain.ChangeEntry{Action: domain.ActionRouteCreated, RouteID: route.ID})
		require.NoError(t, err)
	}

	page1, err := r.Changes.ListHistory(ctx, domain.HistoryFilter{}, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	page3, err := r.Changes.ListHistory(ctx, domain.HistoryFilter{}, domain.PaginationParams{Page: 3, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, page1, 2)
	assert.Len(t, page3, 1)
}
