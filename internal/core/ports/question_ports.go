package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

// QuestionRepository is the storage collaborator. Implementations must make
// IncrementVotes a single atomic add at the storage layer.
type QuestionRepository interface {
	// ListPublished returns up to limit questions with pub_date <= now,
	// newest first, ties in insertion order.
	ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error)
	// GetByID returns the question with its choices regardless of pub_date.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	Search(ctx context.Context, filter SearchFilter) ([]*domain.Question, error)
	Create(ctx context.Context, question *domain.Question) error
	Update(ctx context.Context, question *domain.Question, changes []ChoiceChange) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementVotes adds one vote to the choice if it belongs to the
	// question. It reports false when no such choice exists.
	IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) (bool, error)
}

type SearchFilter struct {
	Query string
	// From and To bound pub_date as [From, To) when HasRange is set.
	From     time.Time
	To       time.Time
	HasRange bool
	Limit    int
	Offset   int
}

type ChoiceOp int

const (
	ChoiceAdd ChoiceOp = iota
	ChoiceUpdate
	ChoiceDelete
)

// ChoiceChange is one inline choice row applied together with a question update.
type ChoiceChange struct {
	Op     ChoiceOp
	Choice domain.Choice
}

type QuestionService interface {
	// Index returns the latest published questions.
	Index(ctx context.Context) ([]*domain.Question, error)
	Detail(ctx context.Context, id string) (*domain.Question, error)
	Results(ctx context.Context, id string) (*domain.Question, error)
}

// Clock supplies the current time. It is read on every request.
type Clock interface {
	Now() time.Time
}
