package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const adminPageSize = 10

type adminService struct {
	repo  ports.QuestionRepository
	clock ports.Clock
}

func NewAdminService(repo ports.QuestionRepository, clock ports.Clock) ports.AdminService {
	return &adminService{
		repo:  repo,
		clock: clock,
	}
}

func (s *adminService) List(ctx context.Context, input ports.ListQuestionsInput) ([]domain.AdminQuestionRow, error) {
	filter, err := domain.ParsePubDateFilter(input.PubDate)
	if err != nil {
		return nil, err
	}

	page := input.Page
	if page < 1 {
		page = 1
	}

	now := s.clock.Now()
	search := ports.SearchFilter{
		Query:  strings.TrimSpace(input.Query),
		Limit:  adminPageSize,
		Offset: (page - 1) * adminPageSize,
	}
	search.From, search.To, search.HasRange = filter.Range(now)

	questions, err := s.repo.Search(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}

	rows := make([]domain.AdminQuestionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, domain.AdminQuestionRow{
			Question:             *q,
			WasPublishedRecently: q.WasPublishedRecently(now),
		})
	}
	return rows, nil
}

func (s *adminService) Blank(ctx context.Context) (*domain.Question, error) {
	return &domain.Question{
		PubDate: s.clock.Now(),
		Choices: blankChoices(),
	}, nil
}

func (s *adminService) Get(ctx context.Context, id string) (*domain.AdminQuestionRow, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return nil, err
	}

	question, err := s.repo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	row := &domain.AdminQuestionRow{
		Question:             *question,
		WasPublishedRecently: question.WasPublishedRecently(s.clock.Now()),
	}
	row.Choices = append(row.Choices, blankChoices()...)
	return row, nil
}

func (s *adminService) Create(ctx context.Context, input ports.SaveQuestionInput) (*domain.Question, error) {
	if err := validateQuestion(input); err != nil {
		return nil, err
	}

	question := &domain.Question{
		ID:        uuid.New(),
		Text:      strings.TrimSpace(input.Text),
		PubDate:   *input.PubDate,
		CreatedAt: s.clock.Now(),
	}

	for _, c := range input.Choices {
		text := strings.TrimSpace(c.Text)
		if c.Delete || text == "" {
			continue
		}
		if err := checkLength("choice text", text); err != nil {
			return nil, err
		}
		question.Choices = append(question.Choices, domain.Choice{
			ID:         uuid.New(),
			QuestionID: question.ID,
			Text:       text,
		})
	}

	if err := s.repo.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *adminService) Update(ctx context.Context, id string, input ports.SaveQuestionInput) (*domain.Question, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return nil, err
	}
	if err := validateQuestion(input); err != nil {
		return nil, err
	}

	question, err := s.repo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	question.Text = strings.TrimSpace(input.Text)
	question.PubDate = *input.PubDate

	changes, err := choiceChanges(question, input.Choices)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, question, changes); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, questionID)
}

func (s *adminService) Delete(ctx context.Context, id string) error {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, questionID)
}

func validateQuestion(input ports.SaveQuestionInput) error {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return fmt.Errorf("%w: question text is required", domain.ErrInvalidQuestion)
	}
	if err := checkLength("question text", text); err != nil {
		return err
	}
	if input.PubDate == nil || input.PubDate.IsZero() {
		return fmt.Errorf("%w: pub_date is required", domain.ErrInvalidQuestion)
	}
	return nil
}

func choiceChanges(question *domain.Question, inputs []ports.ChoiceInput) ([]ports.ChoiceChange, error) {
	var changes []ports.ChoiceChange
	for _, c := range inputs {
		text := strings.TrimSpace(c.Text)

		if c.ID == "" {
			if c.Delete || text == "" {
				continue
			}
			if err := checkLength("choice text", text); err != nil {
				return nil, err
			}
			changes = append(changes, ports.ChoiceChange{
				Op: ports.ChoiceAdd,
				Choice: domain.Choice{
					ID:         uuid.New(),
					QuestionID: question.ID,
					Text:       text,
				},
			})
			continue
		}

		choiceID, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid choice id %q", domain.ErrInvalidQuestion, c.ID)
		}
		existing, ok := question.Choice(choiceID)
		if !ok {
			return nil, fmt.Errorf("%w: choice %s does not belong to question", domain.ErrInvalidQuestion, choiceID)
		}

		if c.Delete {
			changes = append(changes, ports.ChoiceChange{Op: ports.ChoiceDelete, Choice: existing})
			continue
		}
		if text == "" {
			return nil, fmt.Errorf("%w: choice text is required", domain.ErrInvalidQuestion)
		}
		if err := checkLength("choice text", text); err != nil {
			return nil, err
		}
		// Only the text is editable; the tally belongs to the vote operation.
		existing.Text = text
		changes = append(changes, ports.ChoiceChange{Op: ports.ChoiceUpdate, Choice: existing})
	}
	return changes, nil
}

func checkLength(field, text string) error {
	if utf8.RuneCountInString(text) > domain.MaxTextLength {
		return fmt.Errorf("%w: %s exceeds %d characters", domain.ErrInvalidQuestion, field, domain.MaxTextLength)
	}
	return nil
}

func blankChoices() []domain.Choice {
	return make([]domain.Choice, domain.ExtraChoiceSlots)
}
