package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alba-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:qz"`

	ID          string          `bun:"id,pk"`
	UserID      string          `bun:"user_id"`
	Mode        string          `bun:"mode"`
	QuestionIDs json.RawMessage `bun:"question_ids,type:jsonb"`
	StartTime   time.Time       `bun:"start_time"`
	EndTime     *time.Time      `bun:"end_time"`
	Status      string          `bun:"status"`
	Answers     json.RawMessage `bun:"answers,type:jsonb"`
	Score       *int            `bun:"score"`
	Percentage  *float64        `bun:"percentage"`
}

// QuizStore persists quiz sessions with bun; the question list and answers
// ride in JSONB columns, document-style.
type QuizStore struct {
	db *bun.DB
}

func NewQuizStore(db *bun.DB) *QuizStore {
	return &QuizStore{db: db}
}

func (s *QuizStore) Insert(ctx context.Context, quiz domain.Quiz) error {
	row, err := toQuizRow(quiz)
	if err != nil {
		return err
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) FindByID(ctx context.Context, id string) (domain.Quiz, error) {
	row := new(quizRow)
	err := s.db.NewSelect().Model(row).Where("qz.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("find quiz: %w", err)
	}
	return fromQuizRow(*row)
}

func (s *QuizStore) SaveAnswers(ctx context.Context, id string, answers []domain.Answer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	res, err := s.db.NewUpdate().
		Model((*quizRow)(nil)).
		Set("answers = ?", string(data)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save answers: %w", err)
	}
	return requireRow(res, domain.ErrQuizNotFound)
}

func (s *QuizStore) Finalize(ctx context.Context, id string, endTime time.Time, score int, percentage float64) error {
	res, err := s.db.NewUpdate().
		Model((*quizRow)(nil)).
		Set("end_time = ?", endTime).
		Set("status = ?", string(domain.StatusCompleted)).
		Set("score = ?", score).
		Set("percentage = ?", percentage).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("finalize quiz: %w", err)
	}
	return requireRow(res, domain.ErrQuizNotFound)
}

func requireRow(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

func toQuizRow(quiz domain.Quiz) (quizRow, error) {
	ids, err := json.Marshal(quiz.Questions)
	if err != nil {
		return quizRow{}, err
	}
	answers, err := json.Marshal(quiz.Answers)
	if err != nil {
		return quizRow{}, err
	}
	return quizRow{
		ID:          quiz.ID,
		UserID:      quiz.UserID,
		Mode:        string(quiz.Mode),
		QuestionIDs: ids,
		StartTime:   quiz.StartTime,
		EndTime:     quiz.EndTime,
		Status:      string(quiz.Status),
		Answers:     answers,
		Score:       quiz.Score,
		Percentage:  quiz.Percentage,
	}, nil
}

func fromQuizRow(row quizRow) (domain.Quiz, error) {
	quiz := domain.Quiz{
		ID:         row.ID,
		UserID:     row.UserID,
		Mode:       domain.QuizMode(row.Mode),
		StartTime:  row.StartTime,
		EndTime:    row.EndTime,
		Status:     domain.QuizStatus(row.Status),
		Score:      row.Score,
		Percentage: row.Percentage,
		Answers:    []domain.Answer{},
	}
	if err := json.Unmarshal(row.QuestionIDs, &quiz.Questions); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal question ids: %w", err)
	}
	if len(row.Answers) > 0 {
		if err := json.Unmarshal(row.Answers, &quiz.Answers); err != nil {
			return domain.Quiz{}, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	return quiz, nil
}
