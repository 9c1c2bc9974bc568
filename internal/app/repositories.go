package app

import (
	"context"
	"time"

	"alba-quiz-service/internal/domain"
)

// QuestionFilter narrows a question lookup. Zero values mean "no filter".
type QuestionFilter struct {
	Category   *domain.Category
	Difficulty *domain.Difficulty
	Limit      int
}

// QuestionRepository abstracts the read-only question bank.
type QuestionRepository interface {
	Find(ctx context.Context, filter QuestionFilter) ([]domain.Question, error)
	FindByID(ctx context.Context, id string) (domain.Question, error)
}

// QuizRepository persists quiz session documents. SaveAnswers replaces the
// answer list wholesale and Finalize patches the completion fields; neither
// guards against concurrent writers for the same quiz id — a single user is
// expected to drive one quiz sequentially.
type QuizRepository interface {
	Insert(ctx context.Context, quiz domain.Quiz) error
	FindByID(ctx context.Context, id string) (domain.Quiz, error)
	SaveAnswers(ctx context.Context, id string, answers []domain.Answer) error
	Finalize(ctx context.Context, id string, endTime time.Time, score int, percentage float64) error
}

// UserRepository persists user documents with their embedded stats.
type UserRepository interface {
	Insert(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateStats(ctx context.Context, id string, stats domain.UserStats, progress domain.CategoryProgress) error
}

// ProgressRepository tracks per-(user, question) outcomes. Upsert must be an
// atomic insert-or-increment keyed on (user_id, question_id); pushing that
// into the store closes the find-then-write race a naive implementation has.
type ProgressRepository interface {
	Upsert(ctx context.Context, record domain.ProgressRecord) error
	IncorrectQuestionIDs(ctx context.Context, userID string, limit int) ([]string, error)
	CategoryStats(ctx context.Context, userID string) (map[domain.Category]domain.CategoryStat, error)
}
