package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

// ChoiceInput is one inline choice row of the admin form. Vote counts are
// not part of it.
type ChoiceInput struct {
	ID     string
	Text   string
	Delete bool
}

type SaveQuestionInput struct {
	Text    string
	PubDate *time.Time
	Choices []ChoiceInput
}

type ListQuestionsInput struct {
	Page    int
	Query   string
	PubDate string
}

type AdminService interface {
	List(ctx context.Context, input ListQuestionsInput) ([]domain.AdminQuestionRow, error)
	// Blank returns the template for a new question.
	Blank(ctx context.Context) (*domain.Question, error)
	Get(ctx context.Context, id string) (*domain.AdminQuestionRow, error)
	Create(ctx context.Context, input SaveQuestionInput) (*domain.Question, error)
	Update(ctx context.Context, id string, input SaveQuestionInput) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}
