package postgres

import (
	"context"
	"fmt"
	"time"

	"alba-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

type progressRow struct {
	bun.BaseModel `bun:"table:user_progress,alias:up"`

	UserID       string    `bun:"user_id,pk"`
	QuestionID   string    `bun:"question_id,pk"`
	IsCorrect    bool      `bun:"is_correct"`
	Attempts     int       `bun:"attempts"`
	LastAnswered time.Time `bun:"last_answered"`
	TimeSpent    *int      `bun:"time_spent"`
}

// ProgressStore keeps the per-(user, question) natural-key table. The upsert
// is a single conditional INSERT … ON CONFLICT so concurrent answers to the
// same question cannot lose an attempt increment.
type ProgressStore struct {
	db *bun.DB
}

func NewProgressStore(db *bun.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) Upsert(ctx context.Context, record domain.ProgressRecord) error {
	row := progressRow{
		UserID:       record.UserID,
		QuestionID:   record.QuestionID,
		IsCorrect:    record.IsCorrect,
		Attempts:     1,
		LastAnswered: record.LastAnswered,
		TimeSpent:    record.TimeSpent,
	}
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (user_id, question_id) DO UPDATE").
		Set("is_correct = EXCLUDED.is_correct").
		Set("last_answered = EXCLUDED.last_answered").
		Set("time_spent = EXCLUDED.time_spent").
		Set("attempts = up.attempts + 1").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) IncorrectQuestionIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	q := s.db.NewSelect().
		Model((*progressRow)(nil)).
		Column("question_id").
		Where("up.user_id = ?", userID).
		Where("NOT up.is_correct").
		Order("last_answered")
	if limit > 0 {
		q = q.Limit(limit)
	}

	ids := []string{}
	if err := q.Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("incorrect question ids: %w", err)
	}
	return ids, nil
}

func (s *ProgressStore) CategoryStats(ctx context.Context, userID string) (map[domain.Category]domain.CategoryStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.category,
		       count(*) AS total,
		       count(*) FILTER (WHERE up.is_correct) AS correct
		FROM user_progress up
		JOIN questions q ON q.id = up.question_id
		WHERE up.user_id = ?
		GROUP BY q.category`, userID)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[domain.Category]domain.CategoryStat)
	for rows.Next() {
		var (
			category string
			total    int
			correct  int
		)
		if err := rows.Scan(&category, &total, &correct); err != nil {
			return nil, err
		}
		stats[domain.Category(category)] = domain.CategoryStat{Correct: correct, Total: total}
	}
	return stats, rows.Err()
}
