package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// IndexLimit caps the number of questions on the public index.
const IndexLimit = 5

type questionService struct {
	repo  ports.QuestionRepository
	clock ports.Clock
}

func NewQuestionService(repo ports.QuestionRepository, clock ports.Clock) ports.QuestionService {
	return &questionService{
		repo:  repo,
		clock: clock,
	}
}

func (s *questionService) Index(ctx context.Context) ([]*domain.Question, error) {
	questions, err := s.repo.ListPublished(ctx, s.clock.Now(), IndexLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published questions: %w", err)
	}
	return questions, nil
}

func (s *questionService) Detail(ctx context.Context, id string) (*domain.Question, error) {
	return publishedQuestion(ctx, s.repo, s.clock, id)
}

func (s *questionService) Results(ctx context.Context, id string) (*domain.Question, error) {
	return publishedQuestion(ctx, s.repo, s.clock, id)
}

// publishedQuestion loads a question and hides it when its pub_date is still
// in the future, so unpublished content cannot be reached by id.
func publishedQuestion(ctx context.Context, repo ports.QuestionRepository, clock ports.Clock, id string) (*domain.Question, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return nil, err
	}

	question, err := repo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !question.IsPublished(clock.Now()) {
		return nil, domain.ErrQuestionNotFound
	}
	return question, nil
}

func parseQuestionID(id string) (uuid.UUID, error) {
	questionID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrQuestionNotFound, domain.ErrInvalidQuestionID)
	}
	return questionID, nil
}
