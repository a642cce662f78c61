package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyscoaches/ops-board/internal/domain"
)

func TestJournalRepo_GetOrCreateForDate(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := r.Journals.GetOrCreateForDate(ctx, userID, serviceDate)
	require.NoError(t, err)
	assert.Empty(t, first.Content, "a fresh journal starts empty")
	assert.True(t, first.EntryDate.Equal(serviceDate))

	// Second call on the same day returns the same row, not a new one.
	second, err := r.Journals.GetOrCreateForDate(ctx, userID, serviceDate)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// A different user gets their own journal for the same day.
	other, err := r.Journals.GetOrCreateForDate(ctx, uuid.New(), serviceDate)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestJournalRepo_UpdateContent_Verbatim(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	journal, err := r.Journals.GetOrCreateForDate(ctx, uuid.New(), serviceDate)
	require.NoError(t, err)

	// Leading/trailing whitespace must survive storage untouched.
	content := "  morning shift notes\n\n  - bus 12 late\n\t"
	got, err := r.Journals.UpdateContent(ctx, journal.ID, content)

	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
	assert.True(t, got.UpdatedAt.After(journal.UpdatedAt) || got.UpdatedAt.Equal(journal.UpdatedAt))
}

func TestJournalRepo_UpdateContent_NotFound(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	_, err := r.Journals.UpdateContent(ctx, uuid.New(), "anything")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJournalRepo_Revisions(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	userID := uuid.New()

	journal, err := r.Journals.GetOrCreateForDate(ctx, userID, serviceDate)
	require.NoError(t, err)

	for _, content := range []string{"v1", "v1 plus more", "v1 plus more, final"} {
		_, err := r.Journals.AppendRevision(ctx, domain.JournalRevision{
			JournalID: journal.ID,
			SavedBy:   &userID,
			Content:   content,
		})
		require.NoError(t, err)
	}

	got, err := r.Journals.ListRevisions(ctx, journal.ID)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "v1 plus more, final", got[0].Content, "newest first")
	assert.Equal(t, "v1", got[2].Content)
	for _, rev := range got {
		assert.False(t, rev.SavedAt.IsZero())
	}
}

func TestJournalRepo_ListByUser(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	userID := uuid.New()

	// Three days of journals, one carrying a revision and a searchable word.
	for i := 0; i < 3; i++ {
		day := serviceDate.AddDate(0, 0, -i)
		journal, err := r.Journals.GetOrCreateForDate(ctx, userID, day)
		require.NoError(t, err)
		_, err = r.Journals.UpdateContent(ctx, journal.ID, fmt.Sprintf("notes for day %d", i))
		require.NoError(t, err)
		if i == 1 {
			_, err = r.Journals.UpdateContent(ctx, journal.ID, "the depot inspection happened")
			require.NoError(t, err)
			_, err = r.Journals.AppendRevision(ctx, domain.JournalRevision{JournalID: journal.ID, Content: "the depot inspection happened"})
			require.NoError(t, err)
		}
	}

	total, err := r.Journals.CountByUser(ctx, userID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	got, err := r.Journals.ListByUser(ctx, userID, "", domain.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].EntryDate.After(got[1].EntryDate), "newest entry date first")
	assert.Equal(t, 0, got[0].RevisionCount)
	assert.Equal(t, 1, got[1].RevisionCount)

	// Case-insensitive content filter.
	total, err = r.Journals.CountByUser(ctx, userID, "DEPOT")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	filtered, err := r.Journals.ListByUser(ctx, userID, "DEPOT", domain.PaginationParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Contains(t, filtered[0].Content, "depot inspection")
}

func TestJournalRepo_ListByUser_IsolatedPerUser(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	mine := uuid.New()
	theirs := uuid.New()
	_, err := r.Journals.GetOrCreateForDate(ctx, mine, serviceDate)
	require.NoError(t, err)
	_, err = r.Journals.GetOrCreateForDate(ctx, theirs, serviceDate)
	require.NoError(t, err)

	got, err := r.Journals.ListByUser(ctx, mine, "", domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine, got[0].UserID)
}
