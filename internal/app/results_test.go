package app_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"alba-quiz-service/internal/app"
	"alba-quiz-service/internal/domain"
	"alba-quiz-service/internal/infra/memory"
)

func questionBank() *memory.QuestionStore {
	return memory.NewQuestionStore(
		domain.Question{ID: "q1", Type: domain.TypeMultiple, Category: domain.CategoryPersonajes, Answer: domain.IndexAnswer(1)},
		domain.Question{ID: "q2", Type: domain.TypeMultiple, Category: domain.CategoryPersonajes, Answer: domain.IndexAnswer(0)},
		domain.Question{ID: "q3", Type: domain.TypeBoolean, Category: domain.CategoryPersonajes, Answer: domain.BoolAnswer(true)},
		domain.Question{ID: "q4", Type: domain.TypeBoolean, Category: domain.CategoryTemas, Answer: domain.BoolAnswer(false)},
	)
}

func TestCalculateResultsEmptyQuiz(t *testing.T) {
	quiz := domain.Quiz{ID: "quiz-1", Mode: domain.ModePractice}

	results, err := app.CalculateResults(context.Background(), quiz, questionBank())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if results.Total != 0 || results.Score != 0 {
		t.Fatalf("expected zero totals, got %+v", results)
	}
	if results.Percentage != 0 {
		t.Fatalf("percentage must be 0 for an empty quiz, got %v", results.Percentage)
	}
}

func TestCalculateResultsBreakdownAndIncorrect(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(95 * time.Second)
	quiz := domain.Quiz{
		ID:        "quiz-1",
		Mode:      domain.ModeExam,
		Questions: []string{"q1", "q2", "q3", "q4"},
		StartTime: start,
		EndTime:   &end,
		Answers: []domain.Answer{
			{QuestionID: "q1", IsCorrect: true},
			{QuestionID: "q2", IsCorrect: false},
			{QuestionID: "q3", IsCorrect: true},
		},
	}

	results, err := app.CalculateResults(context.Background(), quiz, questionBank())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	if results.Score != 2 || results.Total != 4 {
		t.Fatalf("expected score 2/4, got %d/%d", results.Score, results.Total)
	}
	if results.Percentage != 50.0 {
		t.Fatalf("expected 50.0, got %v", results.Percentage)
	}
	if results.TimeTaken == nil || *results.TimeTaken != 95 {
		t.Fatalf("expected time_taken 95, got %v", results.TimeTaken)
	}
	// q4 was never answered: no temas bucket.
	want := map[domain.Category]domain.CategoryStat{
		domain.CategoryPersonajes: {Correct: 2, Total: 3},
	}
	if !reflect.DeepEqual(results.CategoryBreakdown, want) {
		t.Fatalf("breakdown mismatch: got %+v", results.CategoryBreakdown)
	}
	if !reflect.DeepEqual(results.IncorrectQuestions, []string{"q2"}) {
		t.Fatalf("expected incorrect [q2], got %v", results.IncorrectQuestions)
	}
}

func TestCalculateResultsSingleCategoryAllCorrect(t *testing.T) {
	quiz := domain.Quiz{
		ID:        "quiz-1",
		Mode:      domain.ModePractice,
		Questions: []string{"q1", "q2", "q3"},
		StartTime: time.Now(),
		Answers: []domain.Answer{
			{QuestionID: "q1", IsCorrect: true},
			{QuestionID: "q2", IsCorrect: true},
			{QuestionID: "q3", IsCorrect: true},
		},
	}

	results, err := app.CalculateResults(context.Background(), quiz, questionBank())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	want := map[domain.Category]domain.CategoryStat{
		domain.CategoryPersonajes: {Correct: 3, Total: 3},
	}
	if !reflect.DeepEqual(results.CategoryBreakdown, want) {
		t.Fatalf("expected a single personajes bucket, got %+v", results.CategoryBreakdown)
	}
	if len(results.IncorrectQuestions) != 0 {
		t.Fatalf("expected no incorrect questions, got %v", results.IncorrectQuestions)
	}
}

func TestCalculateResultsRoundsToOneDecimal(t *testing.T) {
	quiz := domain.Quiz{
		ID:        "quiz-1",
		Questions: []string{"q1", "q2", "q3"},
		Answers: []domain.Answer{
			{QuestionID: "q1", IsCorrect: true},
		},
	}

	results, err := app.CalculateResults(context.Background(), quiz, questionBank())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if results.Percentage != 33.3 {
		t.Fatalf("expected 33.3, got %v", results.Percentage)
	}
}

func TestCalculateResultsIdempotent(t *testing.T) {
	end := time.Date(2025, 6, 1, 10, 2, 0, 0, time.UTC)
	quiz := domain.Quiz{
		ID:        "quiz-1",
		Mode:      domain.ModeReview,
		Questions: []string{"q1", "q4"},
		StartTime: end.Add(-2 * time.Minute),
		EndTime:   &end,
		Answers: []domain.Answer{
			{QuestionID: "q1", IsCorrect: false},
			{QuestionID: "q4", IsCorrect: true},
		},
	}

	first, err := app.CalculateResults(context.Background(), quiz, questionBank())
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	second, err := app.CalculateResults(context.Background(), quiz, questionBank())
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recomputation diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCalculateResultsSkipsVanishedQuestions(t *testing.T) {
	bank := questionBank()
	bank.Delete(context.Background(), "q2")

	quiz := domain.Quiz{
		ID:        "quiz-1",
		Questions: []string{"q1", "q2"},
		Answers: []domain.Answer{
			{QuestionID: "q1", IsCorrect: true},
			{QuestionID: "q2", IsCorrect: false},
		},
	}

	results, err := app.CalculateResults(context.Background(), quiz, bank)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	// q2 still counts toward score/total but is absent from the breakdown
	// and incorrect list because it no longer resolves.
	if results.Score != 1 || results.Total != 2 {
		t.Fatalf("expected 1/2, got %d/%d", results.Score, results.Total)
	}
	if len(results.IncorrectQuestions) != 0 {
		t.Fatalf("vanished question must not appear in incorrect list, got %v", results.IncorrectQuestions)
	}
	if _, ok := results.CategoryBreakdown[domain.CategoryPersonajes]; !ok {
		t.Fatalf("expected personajes bucket from q1")
	}
	if results.CategoryBreakdown[domain.CategoryPersonajes].Total != 1 {
		t.Fatalf("vanished question must not count in breakdown: %+v", results.CategoryBreakdown)
	}
}
