package postgres

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

func newQuestion(text string, pubDate time.Time, choices ...string) *domain.Question {
	q := &domain.Question{ID: uuid.New(), Text: text, PubDate: pubDate}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{ID: uuid.New(), QuestionID: q.ID, Text: c})
	}
	return q
}

func TestQuestionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("list published excludes future and orders newest first", func(t *testing.T) {
		resetTables(t, db)

		old := newQuestion("Old", now.AddDate(0, 0, -30))
		recent := newQuestion("Recent", now.AddDate(0, 0, -5))
		future := newQuestion("Future", now.AddDate(0, 0, 30))
		for _, q := range []*domain.Question{old, future, recent} {
			require.NoError(t, repo.Create(ctx, q))
		}

		list, err := repo.ListPublished(ctx, now, 5)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, recent.ID, list[0].ID)
		assert.Equal(t, old.ID, list[1].ID)
	})

	t.Run("list published caps and keeps insertion order on ties", func(t *testing.T) {
		resetTables(t, db)

		var ids []uuid.UUID
		for i := 0; i < 7; i++ {
			q := newQuestion("Same time", now.Add(-time.Hour))
			require.NoError(t, repo.Create(ctx, q))
			ids = append(ids, q.ID)
		}

		list, err := repo.ListPublished(ctx, now, 5)
		require.NoError(t, err)
		require.Len(t, list, 5)
		for i, q := range list {
			assert.Equal(t, ids[i], q.ID)
		}
	})

	t.Run("get by id returns choices in insertion order", func(t *testing.T) {
		resetTables(t, db)

		q := newQuestion("What's up?", now, "Not much", "The sky", "Just hacking again")
		require.NoError(t, repo.Create(ctx, q))

		got, err := repo.GetByID(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, "What's up?", got.Text)
		assert.True(t, got.PubDate.Equal(now))
		require.Len(t, got.Choices, 3)
		assert.Equal(t, "Not much", got.Choices[0].Text)
		assert.Equal(t, "Just hacking again", got.Choices[2].Text)

		_, err = repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})

	t.Run("increment votes is atomic", func(t *testing.T) {
		resetTables(t, db)

		q := newQuestion("Tabs or spaces?", now, "Tabs", "Spaces")
		require.NoError(t, repo.Create(ctx, q))

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.IncrementVotes(ctx, q.ID, q.Choices[0].ID)
				assert.NoError(t, err)
				assert.True(t, ok)
			}()
		}
		wg.Wait()

		got, err := repo.GetByID(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), got.Choices[0].Votes)
		assert.Equal(t, int64(0), got.Choices[1].Votes)
	})

	t.Run("increment votes rejects a choice of another question", func(t *testing.T) {
		resetTables(t, db)

		a := newQuestion("A", now, "A1")
		b := newQuestion("B", now, "B1")
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))

		ok, err := repo.IncrementVotes(ctx, a.ID, b.Choices[0].ID)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.Choices[0].Votes)
	})

	t.Run("update applies inline choice changes", func(t *testing.T) {
		resetTables(t, db)

		q := newQuestion("Before", now, "Keep", "Drop")
		require.NoError(t, repo.Create(ctx, q))
		for i := 0; i < 3; i++ {
			_, err := repo.IncrementVotes(ctx, q.ID, q.Choices[0].ID)
			require.NoError(t, err)
		}

		q.Text = "After"
		kept := q.Choices[0]
		kept.Text = "Kept"
		kept.Votes = 99
		changes := []ports.ChoiceChange{
			{Op: ports.ChoiceUpdate, Choice: kept},
			{Op: ports.ChoiceDelete, Choice: q.Choices[1]},
			{Op: ports.ChoiceAdd, Choice: domain.Choice{ID: uuid.New(), Text: "New"}},
		}
		require.NoError(t, repo.Update(ctx, q, changes))

		got, err := repo.GetByID(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", got.Text)
		require.Len(t, got.Choices, 2)
		assert.Equal(t, "Kept", got.Choices[0].Text)
		assert.Equal(t, int64(3), got.Choices[0].Votes, "update must not touch the tally")
		assert.Equal(t, "New", got.Choices[1].Text)

		err = repo.Update(ctx, newQuestion("Missing", now), nil)
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})

	t.Run("delete cascades to choices", func(t *testing.T) {
		resetTables(t, db)

		q := newQuestion("Doomed", now, "X", "Y")
		require.NoError(t, repo.Create(ctx, q))
		require.NoError(t, repo.Delete(ctx, q.ID))

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM choices WHERE question_id = $1", q.ID).Scan(&count))
		assert.Equal(t, 0, count)

		assert.ErrorIs(t, repo.Delete(ctx, q.ID), domain.ErrQuestionNotFound)
	})

	t.Run("search filters by text and pub_date range", func(t *testing.T) {
		resetTables(t, db)

		require.NoError(t, repo.Create(ctx, newQuestion("Favourite course?", now.AddDate(0, 0, -2))))
		require.NoError(t, repo.Create(ctx, newQuestion("Best COURSE director", now.AddDate(0, 0, -40))))
		require.NoError(t, repo.Create(ctx, newQuestion("100% sure?", now.AddDate(0, 0, -1))))

		found, err := repo.Search(ctx, ports.SearchFilter{Query: "course", Limit: 10})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		found, err = repo.Search(ctx, ports.SearchFilter{
			Query:    "course",
			From:     now.AddDate(0, 0, -7),
			To:       now.AddDate(0, 0, 1),
			HasRange: true,
			Limit:    10,
		})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Favourite course?", found[0].Text)

		found, err = repo.Search(ctx, ports.SearchFilter{Query: "%", Limit: 10})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "100% sure?", found[0].Text)
	})
}
