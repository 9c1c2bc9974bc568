package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QuestionType discriminates how a question's canonical answer is encoded.
type QuestionType string

const (
	TypeMultiple QuestionType = "multiple"
	TypeBoolean  QuestionType = "boolean"
	TypeEssay    QuestionType = "essay"
)

// Category is the closed set of topic tags for the question bank.
type Category string

const (
	CategoryPersonajes Category = "personajes"
	CategoryTemas      Category = "temas"
	CategorySimbolismo Category = "simbolismo"
)

// Categories lists every known category in a fixed order.
func Categories() []Category {
	return []Category{CategoryPersonajes, CategoryTemas, CategorySimbolismo}
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuizMode controls question selection and scoring weight.
type QuizMode string

const (
	ModePractice QuizMode = "practice"
	ModeExam     QuizMode = "exam"
	ModeReview   QuizMode = "review"
)

type QuizStatus string

const (
	StatusInProgress QuizStatus = "in_progress"
	StatusCompleted  QuizStatus = "completed"
	// StatusAbandoned exists in the schema but no transition sets it.
	StatusAbandoned QuizStatus = "abandoned"
)

// AnswerValue carries an answer as raw JSON: an option index, a boolean, or
// free text, depending on the question type. Coercions are lenient about
// string-encoded values since clients send whatever their form widget holds.
type AnswerValue struct {
	raw json.RawMessage
}

func IndexAnswer(i int) AnswerValue {
	return AnswerValue{raw: json.RawMessage(strconv.Itoa(i))}
}

func BoolAnswer(b bool) AnswerValue {
	return AnswerValue{raw: json.RawMessage(strconv.FormatBool(b))}
}

func TextAnswer(s string) AnswerValue {
	data, _ := json.Marshal(s)
	return AnswerValue{raw: data}
}

func (v AnswerValue) IsZero() bool { return len(v.raw) == 0 }

// Index coerces the value to an option index.
func (v AnswerValue) Index() (int, error) {
	var i int
	if err := json.Unmarshal(v.raw, &i); err == nil {
		return i, nil
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not an option index", ErrInvalidAnswer, string(v.raw))
}

// Bool coerces the value to a boolean verdict.
func (v AnswerValue) Bool() (bool, error) {
	var b bool
	if err := json.Unmarshal(v.raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, nil
		}
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidAnswer, string(v.raw))
}

// Text returns the value as free text, falling back to the raw encoding for
// non-string payloads.
func (v AnswerValue) Text() string {
	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		return s
	}
	return string(v.raw)
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// Question is immutable once seeded; the core only reads it.
type Question struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Category    Category     `json:"category"`
	Prompt      string       `json:"question"`
	Options     []string     `json:"options,omitempty"`
	Answer      AnswerValue  `json:"correct_answer"`
	Explanation string       `json:"explanation"`
	Difficulty  Difficulty   `json:"difficulty"`
	CreatedAt   time.Time    `json:"created_at"`
	CreatedBy   string       `json:"created_by,omitempty"`
}

// Answer is one submitted answer inside a quiz.
type Answer struct {
	QuestionID string      `json:"question_id"`
	UserAnswer AnswerValue `json:"user_answer"`
	IsCorrect  bool        `json:"is_correct"`
	TimeSpent  *int        `json:"time_spent,omitempty"`
}

// Quiz is a single quiz session. Answers are append-only; submitting the
// same question twice appends a second entry rather than overwriting, so a
// misbehaving client can double-count a question in the final score.
type Quiz struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Mode       QuizMode   `json:"mode"`
	Questions  []string   `json:"questions"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Status     QuizStatus `json:"status"`
	Answers    []Answer   `json:"answers"`
	Score      *int       `json:"score,omitempty"`
	Percentage *float64   `json:"percentage,omitempty"`
}

// UserStats is the cumulative progress embedded in a user document. It is
// recomputed and replaced wholesale on each quiz finish.
type UserStats struct {
	TotalQuestions int   `json:"total_questions"`
	CorrectAnswers int   `json:"correct_answers"`
	Streak         int   `json:"streak"`
	BestStreak     int   `json:"best_streak"`
	Level          Level `json:"level"`
	XP             int   `json:"xp"`
}

// CategoryStat is a correct/total tally for one category.
type CategoryStat struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// CategoryProgress maps category tags to their running tallies. Keyed by
// Category so adding a category needs no new branch anywhere.
type CategoryProgress map[Category]CategoryStat

// Clone returns an independent copy; the progress updater never mutates its
// input in place.
func (p CategoryProgress) Clone() CategoryProgress {
	out := make(CategoryProgress, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// NewCategoryProgress returns zeroed buckets for every known category.
func NewCategoryProgress() CategoryProgress {
	out := make(CategoryProgress, len(Categories()))
	for _, c := range Categories() {
		out[c] = CategoryStat{}
	}
	return out
}

type User struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	CreatedAt        time.Time        `json:"created_at"`
	Stats            UserStats        `json:"stats"`
	CategoryProgress CategoryProgress `json:"category_progress"`
}

// ProgressRecord tracks the latest outcome per (user, question). It records
// recency, not history: correctness and timestamps are overwritten on every
// attempt while the attempt counter grows.
type ProgressRecord struct {
	UserID       string    `json:"user_id"`
	QuestionID   string    `json:"question_id"`
	IsCorrect    bool      `json:"is_correct"`
	Attempts     int       `json:"attempts"`
	LastAnswered time.Time `json:"last_answered"`
	TimeSpent    *int      `json:"time_spent,omitempty"`
}

// Results is the computed summary of a finished quiz.
type Results struct {
	QuizID             string                    `json:"quiz_id"`
	Mode               QuizMode                  `json:"mode"`
	Score              int                       `json:"score"`
	Total              int                       `json:"total"`
	Percentage         float64                   `json:"percentage"`
	TimeTaken          *int                      `json:"time_taken,omitempty"`
	CategoryBreakdown  map[Category]CategoryStat `json:"category_breakdown"`
	IncorrectQuestions []string                  `json:"incorrect_questions"`
}
