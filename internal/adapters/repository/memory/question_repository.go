package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// QuestionRepository keeps questions in process memory. It is used by tests
// and by the server when started with DATABASE_TYPE=memory.
type QuestionRepository struct {
	mu        sync.Mutex
	questions []*domain.Question
}

func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{}
}

var _ ports.QuestionRepository = (*QuestionRepository)(nil)

func (r *QuestionRepository) ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var published []*domain.Question
	for _, q := range r.questions {
		if q.IsPublished(now) {
			published = append(published, q)
		}
	}
	sortNewestFirst(published)

	if limit > 0 && len(published) > limit {
		published = published[:limit]
	}
	return cloneAll(published), nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, _ := r.find(id)
	if q == nil {
		return nil, domain.ErrQuestionNotFound
	}
	return clone(q), nil
}

func (r *QuestionRepository) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := strings.ToLower(filter.Query)
	var matched []*domain.Question
	for _, q := range r.questions {
		if query != "" && !strings.Contains(strings.ToLower(q.Text), query) {
			continue
		}
		if filter.HasRange && (q.PubDate.Before(filter.From) || !q.PubDate.Before(filter.To)) {
			continue
		}
		matched = append(matched, q)
	}
	sortNewestFirst(matched)

	if filter.Offset >= len(matched) {
		return []*domain.Question{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return cloneAll(matched), nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	for i := range question.Choices {
		if question.Choices[i].ID == uuid.Nil {
			question.Choices[i].ID = uuid.New()
		}
		question.Choices[i].QuestionID = question.ID
	}

	r.questions = append(r.questions, clone(question))
	return nil
}

func (r *QuestionRepository) Update(ctx context.Context, question *domain.Question, changes []ports.ChoiceChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, _ := r.find(question.ID)
	if stored == nil {
		return domain.ErrQuestionNotFound
	}

	stored.Text = question.Text
	stored.PubDate = question.PubDate

	for _, change := range changes {
		switch change.Op {
		case ports.ChoiceAdd:
			c := change.Choice
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			c.QuestionID = stored.ID
			stored.Choices = append(stored.Choices, c)
		case ports.ChoiceUpdate:
			for i := range stored.Choices {
				if stored.Choices[i].ID == change.Choice.ID {
					stored.Choices[i].Text = change.Choice.Text
				}
			}
		case ports.ChoiceDelete:
			kept := stored.Choices[:0]
			for _, c := range stored.Choices {
				if c.ID != change.Choice.ID {
					kept = append(kept, c)
				}
			}
			stored.Choices = kept
		}
	}
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, idx := r.find(id)
	if idx < 0 {
		return domain.ErrQuestionNotFound
	}
	r.questions = append(r.questions[:idx], r.questions[idx+1:]...)
	return nil
}

func (r *QuestionRepository) IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, _ := r.find(questionID)
	if q == nil {
		return false, nil
	}
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			q.Choices[i].Votes++
			return true, nil
		}
	}
	return false, nil
}

func (r *QuestionRepository) find(id uuid.UUID) (*domain.Question, int) {
	for i, q := range r.questions {
		if q.ID == id {
			return q, i
		}
	}
	return nil, -1
}

// sortNewestFirst orders by pub_date descending. The sort is stable so
// questions sharing a pub_date keep insertion order.
func sortNewestFirst(questions []*domain.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].PubDate.After(questions[j].PubDate)
	})
}

func clone(q *domain.Question) *domain.Question {
	c := *q
	c.Choices = append([]domain.Choice(nil), q.Choices...)
	return &c
}

func cloneAll(questions []*domain.Question) []*domain.Question {
	out := make([]*domain.Question, 0, len(questions))
	for _, q := range questions {
		out = append(out, clone(q))
	}
	return out
}
