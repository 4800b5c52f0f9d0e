package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

func setupRepo(t *testing.T) ports.QuestionRepository {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewQuestionRepository(db)
}

func newQuestion(text string, pubDate time.Time, choices ...string) *domain.Question {
	q := &domain.Question{ID: uuid.New(), Text: text, PubDate: pubDate}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{ID: uuid.New(), QuestionID: q.ID, Text: c})
	}
	return q
}

func TestListPublished(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	old := newQuestion("Past question 1.", now.AddDate(0, 0, -30))
	recent := newQuestion("Past question 2.", now.AddDate(0, 0, -5))
	future := newQuestion("Future question.", now.AddDate(0, 0, 30))
	exact := newQuestion("Right now.", now)
	for _, q := range []*domain.Question{old, future, recent, exact} {
		require.NoError(t, repo.Create(ctx, q))
	}

	list, err := repo.ListPublished(ctx, now, 5)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, exact.ID, list[0].ID)
	assert.Equal(t, recent.ID, list[1].ID)
	assert.Equal(t, old.ID, list[2].ID)
	assert.True(t, list[2].PubDate.Equal(old.PubDate))
}

func TestListPublishedTiesKeepInsertionOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Now()

	var ids []uuid.UUID
	for i := 0; i < 6; i++ {
		q := newQuestion("Tie", now.Add(-time.Minute))
		require.NoError(t, repo.Create(ctx, q))
		ids = append(ids, q.ID)
	}

	list, err := repo.ListPublished(ctx, now, 5)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i := range list {
		assert.Equal(t, ids[i], list[i].ID)
	}
}

func TestPubDateAcrossTimeZones(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	saoPaulo := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	// 10:00 BRT is 13:00 UTC, one hour in the future.
	q := newQuestion("Later today", time.Date(2024, 3, 10, 10, 0, 0, 0, saoPaulo))
	require.NoError(t, repo.Create(ctx, q))

	list, err := repo.ListPublished(ctx, now, 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIncrementVotes(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	q := newQuestion("Tabs or spaces?", time.Now(), "Tabs", "Spaces")
	other := newQuestion("Vim or Emacs?", time.Now(), "Vim")
	require.NoError(t, repo.Create(ctx, q))
	require.NoError(t, repo.Create(ctx, other))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.IncrementVotes(ctx, q.ID, q.Choices[1].ID)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	ok, err := repo.IncrementVotes(ctx, q.ID, other.Choices[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Choices[0].Votes)
	assert.Equal(t, int64(20), got.Choices[1].Votes)
}

func TestUpdateAndDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	q := newQuestion("Before", time.Now(), "Keep", "Drop")
	require.NoError(t, repo.Create(ctx, q))
	for i := 0; i < 2; i++ {
		_, err := repo.IncrementVotes(ctx, q.ID, q.Choices[0].ID)
		require.NoError(t, err)
	}

	q.Text = "After"
	kept := q.Choices[0]
	kept.Text = "Kept"
	kept.Votes = 99
	require.NoError(t, repo.Update(ctx, q, []ports.ChoiceChange{
		{Op: ports.ChoiceUpdate, Choice: kept},
		{Op: ports.ChoiceDelete, Choice: q.Choices[1]},
		{Op: ports.ChoiceAdd, Choice: domain.Choice{ID: uuid.New(), Text: "Added"}},
	}))

	got, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Text)
	require.Len(t, got.Choices, 2)
	assert.Equal(t, "Kept", got.Choices[0].Text)
	assert.Equal(t, int64(2), got.Choices[0].Votes, "update must not touch the tally")
	assert.Equal(t, "Added", got.Choices[1].Text)

	require.NoError(t, repo.Delete(ctx, q.ID))
	_, err = repo.GetByID(ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, q.ID), domain.ErrQuestionNotFound)
}

func TestSearch(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newQuestion("Favourite course?", now.AddDate(0, 0, -2))))
	require.NoError(t, repo.Create(ctx, newQuestion("Best COURSE director", now.AddDate(0, -3, 0))))
	require.NoError(t, repo.Create(ctx, newQuestion("Unrelated", now)))

	found, err := repo.Search(ctx, ports.SearchFilter{Query: "course"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	require.NoError(t, repo.Create(ctx, newQuestion("Ñandú o Émeu?", now.AddDate(-1, 0, 0))))
	for _, query := range []string{"émeu", "ÉMEU", "ñandú"} {
		found, err = repo.Search(ctx, ports.SearchFilter{Query: query})
		require.NoError(t, err)
		require.Len(t, found, 1, query)
		assert.Equal(t, "Ñandú o Émeu?", found[0].Text)
	}

	found, err = repo.Search(ctx, ports.SearchFilter{Query: "50%_"})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = repo.Search(ctx, ports.SearchFilter{
		From:     now.AddDate(0, 0, -7),
		To:       now.AddDate(0, 0, 1),
		HasRange: true,
		Limit:    1,
		Offset:   1,
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Favourite course?", found[0].Text)
}
