package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type voteService struct {
	repo  ports.QuestionRepository
	clock ports.Clock
}

func NewVoteService(repo ports.QuestionRepository, clock ports.Clock) ports.VoteService {
	return &voteService{
		repo:  repo,
		clock: clock,
	}
}

func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (*domain.Question, error) {
	question, err := publishedQuestion(ctx, s.repo, s.clock, input.QuestionID)
	if err != nil {
		return nil, err
	}

	choiceID, err := uuid.Parse(input.ChoiceID)
	if err != nil {
		return question, domain.ErrNoChoiceSelected
	}
	if _, ok := question.Choice(choiceID); !ok {
		return question, domain.ErrNoChoiceSelected
	}

	incremented, err := s.repo.IncrementVotes(ctx, question.ID, choiceID)
	if err != nil {
		return nil, err
	}
	// The choice may have been removed by an admin since it was loaded.
	if !incremented {
		return question, domain.ErrNoChoiceSelected
	}

	return question, nil
}
