package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecentWindow is how far back a question still counts as recently published.
const RecentWindow = 24 * time.Hour

// MaxTextLength bounds question and choice text, in characters.
const MaxTextLength = 200

type Question struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"question_text"`
	PubDate   time.Time `json:"pub_date"`
	Choices   []Choice  `json:"choices"`
	CreatedAt time.Time `json:"created_at"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"choice_text"`
	Votes      int64     `json:"votes"`
}

// WasPublishedRecently reports whether the question was published within
// the last 24 hours relative to now. Future questions are never recent.
func (q *Question) WasPublishedRecently(now time.Time) bool {
	if q.PubDate.After(now) {
		return false
	}
	return q.PubDate.After(now.Add(-RecentWindow))
}

// IsPublished reports whether the question is visible to the public at now.
func (q *Question) IsPublished(now time.Time) bool {
	return !q.PubDate.After(now)
}

// Choice returns the choice with the given id, if it belongs to the question.
func (q *Question) Choice(id uuid.UUID) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// TotalVotes sums the tallies of every choice.
func (q *Question) TotalVotes() int64 {
	var total int64
	for _, c := range q.Choices {
		total += c.Votes
	}
	return total
}
