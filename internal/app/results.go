package app

import (
	"context"
	"errors"
	"math"

	"alba-quiz-service/internal/domain"
)

// QuestionLookup is the single capability the aggregator needs; it is
// satisfied by any QuestionRepository.
type QuestionLookup interface {
	FindByID(ctx context.Context, id string) (domain.Question, error)
}

// CalculateResults computes the summary for a quiz. It is pure given the
// quiz and the lookup, and idempotent: recomputing from the same stored
// answers yields the same output, so it also serves already-finished
// quizzes.
//
// Total counts the originally assigned questions, not the answers — a user
// who finished early is still scored against the full assignment. Answers
// whose question id no longer resolves are skipped from the breakdown and
// the incorrect list.
func CalculateResults(ctx context.Context, quiz domain.Quiz, questions QuestionLookup) (domain.Results, error) {
	total := len(quiz.Questions)

	score := 0
	for _, ans := range quiz.Answers {
		if ans.IsCorrect {
			score++
		}
	}

	percentage := 0.0
	if total > 0 {
		percentage = round1(float64(score) / float64(total) * 100)
	}

	var timeTaken *int
	if quiz.EndTime != nil {
		secs := int(quiz.EndTime.Sub(quiz.StartTime).Seconds())
		timeTaken = &secs
	}

	breakdown := make(map[domain.Category]domain.CategoryStat)
	incorrect := []string{}
	for _, ans := range quiz.Answers {
		question, err := questions.FindByID(ctx, ans.QuestionID)
		if errors.Is(err, domain.ErrQuestionNotFound) {
			continue
		}
		if err != nil {
			return domain.Results{}, err
		}

		bucket := breakdown[question.Category]
		bucket.Total++
		if ans.IsCorrect {
			bucket.Correct++
		} else {
			incorrect = append(incorrect, ans.QuestionID)
		}
		breakdown[question.Category] = bucket
	}

	return domain.Results{
		QuizID:             quiz.ID,
		Mode:               quiz.Mode,
		Score:              score,
		Total:              total,
		Percentage:         percentage,
		TimeTaken:          timeTaken,
		CategoryBreakdown:  breakdown,
		IncorrectQuestions: incorrect,
	}, nil
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
