package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"alba-quiz-service/internal/app"
	"alba-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionStore reads the question bank from Postgres with plain SQL over a
// pgx pool. Options and the canonical answer live in JSONB columns.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

const questionColumns = `id, type, category, prompt, options, answer, explanation, difficulty, created_at, created_by`

func (s *QuestionStore) Find(ctx context.Context, filter app.QuestionFilter) ([]domain.Question, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + questionColumns + ` FROM questions`)

	conds := []string{}
	args := []interface{}{}
	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		conds = append(conds, `category = $`+strconv.Itoa(len(args)))
	}
	if filter.Difficulty != nil {
		args = append(args, string(*filter.Difficulty))
		conds = append(conds, `difficulty = $`+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}
	sb.WriteString(` ORDER BY created_at, id`)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func (s *QuestionStore) FindByID(ctx context.Context, id string) (domain.Question, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	question, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// Insert adds a question to the bank, ignoring duplicates; used by the seed
// command.
func (s *QuestionStore) Insert(ctx context.Context, q domain.Question) error {
	var options []byte
	if q.Options != nil {
		var err error
		options, err = json.Marshal(q.Options)
		if err != nil {
			return err
		}
	}
	answer, err := json.Marshal(q.Answer)
	if err != nil {
		return err
	}
	var createdBy *string
	if q.CreatedBy != "" {
		createdBy = &q.CreatedBy
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO questions (`+questionColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (id) DO NOTHING`,
		q.ID, string(q.Type), string(q.Category), q.Prompt, options, answer,
		q.Explanation, string(q.Difficulty), q.CreatedAt, createdBy)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// Count reports the size of the bank; the seed command skips seeding when it
// is non-zero.
func (s *QuestionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var (
		q          domain.Question
		qType      string
		category   string
		difficulty string
		options    []byte
		answer     []byte
		createdBy  *string
		createdAt  time.Time
	)
	err := row.Scan(&q.ID, &qType, &category, &q.Prompt, &options, &answer,
		&q.Explanation, &difficulty, &createdAt, &createdBy)
	if err != nil {
		return domain.Question{}, err
	}
	q.Type = domain.QuestionType(qType)
	q.Category = domain.Category(category)
	q.Difficulty = domain.Difficulty(difficulty)
	q.CreatedAt = createdAt
	if createdBy != nil {
		q.CreatedBy = *createdBy
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return domain.Question{}, fmt.Errorf("unmarshal options: %w", err)
		}
	}
	if err := json.Unmarshal(answer, &q.Answer); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal answer: %w", err)
	}
	return q, nil
}
