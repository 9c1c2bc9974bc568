package app_test

import (
	"testing"

	"alba-quiz-service/internal/app"
	"alba-quiz-service/internal/domain"
)

func freshStats() domain.UserStats {
	return domain.UserStats{Level: domain.LevelPrincipiante}
}

func perfectPractice(score int) domain.Results {
	return domain.Results{
		Mode:       domain.ModePractice,
		Score:      score,
		Total:      score,
		Percentage: 100,
	}
}

func TestApplyResultsAccumulatesTotalsAndXP(t *testing.T) {
	stats, _ := app.ApplyResults(freshStats(), domain.NewCategoryProgress(), perfectPractice(5))

	if stats.TotalQuestions != 5 || stats.CorrectAnswers != 5 {
		t.Fatalf("expected totals 5/5, got %+v", stats)
	}
	if stats.XP != 50 {
		t.Fatalf("expected 50 xp, got %d", stats.XP)
	}
	if stats.Level != domain.LevelPrincipiante {
		t.Fatalf("50 xp must stay Principiante, got %s", stats.Level)
	}
}

func TestApplyResultsLevelFlipsExactlyAtThreshold(t *testing.T) {
	stats := freshStats()
	progress := domain.NewCategoryProgress()

	// 15 perfect five-question practice quizzes leave the user 50 xp short.
	for i := 0; i < 15; i++ {
		stats, progress = app.ApplyResults(stats, progress, perfectPractice(5))
	}
	if stats.XP != 750 || stats.Level != domain.LevelPrincipiante {
		t.Fatalf("expected 750 xp Principiante, got %d %s", stats.XP, stats.Level)
	}

	stats, _ = app.ApplyResults(stats, progress, perfectPractice(5))
	if stats.XP != 800 {
		t.Fatalf("expected exactly 800 xp, got %d", stats.XP)
	}
	if stats.Level != domain.LevelIntermedio {
		t.Fatalf("level must flip at exactly 800 xp, got %s", stats.Level)
	}
}

func TestApplyResultsStreakBoundaryInclusive(t *testing.T) {
	stats, _ := app.ApplyResults(freshStats(), domain.NewCategoryProgress(), domain.Results{
		Mode: domain.ModePractice, Score: 4, Total: 5, Percentage: 80.0,
	})
	if stats.Streak != 1 || stats.BestStreak != 1 {
		t.Fatalf("80.0 exactly must extend the streak, got %+v", stats)
	}

	stats, _ = app.ApplyResults(stats, domain.NewCategoryProgress(), domain.Results{
		Mode: domain.ModePractice, Score: 799, Total: 1000, Percentage: 79.9,
	})
	if stats.Streak != 0 {
		t.Fatalf("79.9 must reset the streak, got %d", stats.Streak)
	}
	if stats.BestStreak != 1 {
		t.Fatalf("best streak must survive a reset, got %d", stats.BestStreak)
	}
}

func TestApplyResultsExamDoublesXP(t *testing.T) {
	stats, _ := app.ApplyResults(freshStats(), domain.NewCategoryProgress(), domain.Results{
		Mode: domain.ModeExam, Score: 10, Total: 20, Percentage: 50,
	})
	if stats.XP != 200 {
		t.Fatalf("exam mode must double xp: expected 200, got %d", stats.XP)
	}
}

func TestApplyResultsMergesCategoryBuckets(t *testing.T) {
	progress := domain.CategoryProgress{
		domain.CategoryPersonajes: {Correct: 2, Total: 4},
		domain.CategoryTemas:      {Correct: 1, Total: 1},
	}
	results := domain.Results{
		Mode: domain.ModePractice, Score: 3, Total: 3, Percentage: 100,
		CategoryBreakdown: map[domain.Category]domain.CategoryStat{
			domain.CategoryPersonajes: {Correct: 3, Total: 3},
		},
	}

	_, merged := app.ApplyResults(freshStats(), progress, results)

	if merged[domain.CategoryPersonajes] != (domain.CategoryStat{Correct: 5, Total: 7}) {
		t.Fatalf("personajes bucket mismatch: %+v", merged[domain.CategoryPersonajes])
	}
	// Categories absent from the breakdown stay untouched.
	if merged[domain.CategoryTemas] != (domain.CategoryStat{Correct: 1, Total: 1}) {
		t.Fatalf("temas bucket must be untouched: %+v", merged[domain.CategoryTemas])
	}

	// The input map must not be mutated.
	if progress[domain.CategoryPersonajes] != (domain.CategoryStat{Correct: 2, Total: 4}) {
		t.Fatalf("input progress was mutated: %+v", progress[domain.CategoryPersonajes])
	}
}

func TestNextLevelXPTable(t *testing.T) {
	cases := map[domain.Level]int{
		domain.LevelPrincipiante: 800,
		domain.LevelIntermedio:   1500,
		domain.LevelAvanzado:     2000,
		domain.LevelExperto:      3000,
		domain.Level("???"):      3000,
	}
	for level, want := range cases {
		if got := domain.NextLevelXP(level); got != want {
			t.Fatalf("NextLevelXP(%s) = %d, want %d", level, got, want)
		}
	}
}
