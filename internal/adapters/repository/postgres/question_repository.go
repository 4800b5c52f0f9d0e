package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const questionColumns = `id, question_text, pub_date, created_at`

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) ports.QuestionRepository {
	return &questionRepository{
		db: db,
	}
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE pub_date <= $1
		ORDER BY pub_date DESC, seq ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(ctx, rows)
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE id = $1
	`

	var q domain.Question
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.Text, &q.PubDate, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	choices, err := r.fetchChoices(ctx, []uuid.UUID{q.ID})
	if err != nil {
		return nil, err
	}
	q.Choices = choices[q.ID]

	return &q, nil
}

func (r *questionRepository) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Question, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Query != "" {
		args = append(args, "%"+escapeLike(filter.Query)+"%")
		conds = append(conds, fmt.Sprintf("question_text ILIKE $%d", len(args)))
	}
	if filter.HasRange {
		args = append(args, filter.From, filter.To)
		conds = append(conds, fmt.Sprintf("pub_date >= $%d AND pub_date < $%d", len(args)-1, len(args)))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + questionColumns + " FROM questions")
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY pub_date DESC, seq ASC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	args = append(args, filter.Offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(ctx, rows)
}

func (r *questionRepository) Create(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryQuestion := `
		INSERT INTO questions (id, question_text, pub_date)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err = tx.QueryRowContext(ctx, queryQuestion, question.ID, question.Text, question.PubDate).Scan(&question.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}

	if err := insertChoices(ctx, tx, question.ID, question.Choices); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *questionRepository) Update(ctx context.Context, question *domain.Question, changes []ports.ChoiceChange) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE questions SET question_text = $2, pub_date = $3 WHERE id = $1`,
		question.ID, question.Text, question.PubDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrQuestionNotFound
	}

	var added []domain.Choice
	for _, change := range changes {
		switch change.Op {
		case ports.ChoiceAdd:
			added = append(added, change.Choice)
		case ports.ChoiceUpdate:
			_, err = tx.ExecContext(ctx,
				`UPDATE choices SET choice_text = $3 WHERE id = $1 AND question_id = $2`,
				change.Choice.ID, question.ID, change.Choice.Text,
			)
		case ports.ChoiceDelete:
			_, err = tx.ExecContext(ctx,
				`DELETE FROM choices WHERE id = $1 AND question_id = $2`,
				change.Choice.ID, question.ID,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to apply choice change: %w", err)
		}
	}

	if err := insertChoices(ctx, tx, question.ID, added); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// IncrementVotes lets postgres perform the read-modify-write so concurrent
// votes on the same choice are never lost.
func (r *questionRepository) IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) (bool, error) {
	query := `
		UPDATE choices
		SET votes = votes + 1
		WHERE id = $1 AND question_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, choiceID, questionID)
	if err != nil {
		return false, fmt.Errorf("failed to increment votes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to increment votes: %w", err)
	}
	return n == 1, nil
}

func insertChoices(ctx context.Context, tx *sql.Tx, questionID uuid.UUID, choices []domain.Choice) error {
	if len(choices) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO choices (id, question_id, choice_text, votes)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range choices {
		if _, err := stmt.ExecContext(ctx, c.ID, questionID, c.Text, c.Votes); err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}
	return nil
}

func (r *questionRepository) scanQuestions(ctx context.Context, rows *sql.Rows) ([]*domain.Question, error) {
	questions := []*domain.Question{}
	var ids []uuid.UUID
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.PubDate, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, &q)
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	if len(ids) == 0 {
		return questions, nil
	}

	choices, err := r.fetchChoices(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		q.Choices = choices[q.ID]
	}
	return questions, nil
}

func (r *questionRepository) fetchChoices(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]domain.Choice, error) {
	ids := make([]string, len(questionIDs))
	for i, id := range questionIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT id, question_id, choice_text, votes
		FROM choices
		WHERE question_id = ANY($1::uuid[])
		ORDER BY seq ASC
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get choices: %w", err)
	}
	defer rows.Close()

	choices := make(map[uuid.UUID][]domain.Choice, len(questionIDs))
	for rows.Next() {
		var c domain.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices[c.QuestionID] = append(choices[c.QuestionID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating choices: %w", err)
	}
	return choices, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
