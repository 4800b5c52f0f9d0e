package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
}

// createQuestion stores a question published the given number of days from
// the clock's now (negative for the past).
func createQuestion(t *testing.T, repo *memory.QuestionRepository, clock *fixedClock, text string, days int, choices ...string) *domain.Question {
	t.Helper()

	q := &domain.Question{Text: text, PubDate: clock.now.AddDate(0, 0, days)}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{Text: c})
	}
	require.NoError(t, repo.Create(context.Background(), q))
	return q
}
