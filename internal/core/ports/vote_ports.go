package ports

import (
	"context"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type VoteInput struct {
	QuestionID string
	// ChoiceID is empty when the form was submitted without a selection.
	ChoiceID string
}

type VoteService interface {
	// Vote records one vote. It returns domain.ErrNoChoiceSelected together
	// with the question when the choice is missing or foreign, so the caller
	// can re-render the detail page.
	Vote(ctx context.Context, input VoteInput) (*domain.Question, error)
}
