package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

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
		WHERE pub_date <= ?
		ORDER BY pub_date DESC, rowid ASC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, formatTime(now), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(ctx, rows)
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = ?`

	q, err := scanQuestion(r.db.QueryRowContext(ctx, query, id.String()))
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
	return q, nil
}

func (r *questionRepository) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Question, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Query != "" {
		conds = append(conds, lowerFunc+`(question_text) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Query))+"%")
	}
	if filter.HasRange {
		conds = append(conds, "pub_date >= ? AND pub_date < ?")
		args = append(args, formatTime(filter.From), formatTime(filter.To))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + questionColumns + " FROM questions")
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY pub_date DESC, rowid ASC")
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	defer rows.Close()

	return r.scanQuestions(ctx, rows)
}

func (r *questionRepository) Create(ctx context.Context, question *domain.Question) error {
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO questions (id, question_text, pub_date, created_at) VALUES (?, ?, ?, ?)`,
		question.ID.String(), question.Text, formatTime(question.PubDate), formatTime(question.CreatedAt),
	)
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
		`UPDATE questions SET question_text = ?, pub_date = ? WHERE id = ?`,
		question.Text, formatTime(question.PubDate), question.ID.String(),
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
				`UPDATE choices SET choice_text = ? WHERE id = ? AND question_id = ?`,
				change.Choice.Text, change.Choice.ID.String(), question.ID.String(),
			)
		case ports.ChoiceDelete:
			_, err = tx.ExecContext(ctx,
				`DELETE FROM choices WHERE id = ? AND question_id = ?`,
				change.Choice.ID.String(), question.ID.String(),
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
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM choices WHERE question_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete choices: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id.String())
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

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *questionRepository) IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE choices SET votes = votes + 1 WHERE id = ? AND question_id = ?`,
		choiceID.String(), questionID.String(),
	)
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

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO choices (id, question_id, choice_text, votes) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare choice statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range choices {
		if _, err := stmt.ExecContext(ctx, c.ID.String(), questionID.String(), c.Text, c.Votes); err != nil {
			return fmt.Errorf("failed to insert choice: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var (
		q                  domain.Question
		pubDate, createdAt string
	)
	if err := row.Scan(&q.ID, &q.Text, &pubDate, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if q.PubDate, err = parseTime(pubDate); err != nil {
		return nil, err
	}
	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) scanQuestions(ctx context.Context, rows *sql.Rows) ([]*domain.Question, error) {
	questions := []*domain.Question{}
	var ids []uuid.UUID
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
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
	placeholders := make([]string, len(questionIDs))
	args := make([]any, len(questionIDs))
	for i, id := range questionIDs {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	query := `
		SELECT id, question_id, choice_text, votes
		FROM choices
		WHERE question_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, args...)
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

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
