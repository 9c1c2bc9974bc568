package app

import (
	"context"
	"errors"

	"alba-quiz-service/internal/domain"
)

const (
	examQuestionCount   = 20
	reviewQuestionLimit = 15
)

// generateQuestions selects the questions populating a new quiz. Empty
// results are valid at this layer; the caller decides how to surface them.
func (s *QuizService) generateQuestions(ctx context.Context, mode domain.QuizMode, userID string, filter QuestionFilter) ([]domain.Question, error) {
	switch mode {
	case domain.ModeExam:
		// Exam ignores filters: a uniform sample without replacement from
		// the whole bank, or the whole bank when it is smaller.
		all, err := s.questions.Find(ctx, QuestionFilter{})
		if err != nil {
			return nil, err
		}
		return s.sample(all, examQuestionCount), nil

	case domain.ModeReview:
		ids, err := s.progress.IncorrectQuestionIDs(ctx, userID, reviewQuestionLimit)
		if err != nil {
			return nil, err
		}
		questions := make([]domain.Question, 0, len(ids))
		for _, id := range ids {
			question, err := s.questions.FindByID(ctx, id)
			if errors.Is(err, domain.ErrQuestionNotFound) {
				// Question was removed since the user last missed it.
				continue
			}
			if err != nil {
				return nil, err
			}
			questions = append(questions, question)
		}
		return questions, nil

	default:
		return s.questions.Find(ctx, filter)
	}
}

// sample draws up to n questions uniformly without replacement.
func (s *QuizService) sample(pool []domain.Question, n int) []domain.Question {
	picked := make([]domain.Question, len(pool))
	copy(picked, pool)

	s.rndMu.Lock()
	s.rnd.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	s.rndMu.Unlock()

	if n < len(picked) {
		picked = picked[:n]
	}
	return picked
}
