package app

import "alba-quiz-service/internal/domain"

const (
	// goodQuizThreshold is the percentage at or above which a quiz extends
	// the streak. The boundary is inclusive: exactly 80.0 counts.
	goodQuizThreshold = 80.0

	xpPerCorrectAnswer = 10
	examXPMultiplier   = 2
)

// ApplyResults folds quiz results into a user's cumulative stats and
// category progress, returning new values for the caller to persist. Inputs
// are never mutated.
func ApplyResults(stats domain.UserStats, progress domain.CategoryProgress, results domain.Results) (domain.UserStats, domain.CategoryProgress) {
	updated := stats
	merged := progress.Clone()

	updated.TotalQuestions += results.Total
	updated.CorrectAnswers += results.Score

	if results.Percentage >= goodQuizThreshold {
		updated.Streak++
		if updated.Streak > updated.BestStreak {
			updated.BestStreak = updated.Streak
		}
	} else {
		updated.Streak = 0
	}

	gained := results.Score * xpPerCorrectAnswer
	if results.Mode == domain.ModeExam {
		gained *= examXPMultiplier
	}
	updated.XP += gained
	updated.Level = domain.LevelForXP(updated.XP)

	for category, bucket := range results.CategoryBreakdown {
		current := merged[category]
		current.Correct += bucket.Correct
		current.Total += bucket.Total
		merged[category] = current
	}

	return updated, merged
}
