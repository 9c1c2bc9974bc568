package app

import "alba-quiz-service/internal/domain"

// CheckAnswer returns the correctness verdict for a submitted answer,
// dispatched on the question type. Essay answers are always marked correct:
// there is no automated grading, the nominal verdict only exists so a score
// can still be computed.
func CheckAnswer(question domain.Question, submitted domain.AnswerValue) (bool, error) {
	switch question.Type {
	case domain.TypeBoolean:
		want, err := question.Answer.Bool()
		if err != nil {
			return false, err
		}
		got, err := submitted.Bool()
		if err != nil {
			return false, err
		}
		return got == want, nil
	case domain.TypeMultiple:
		want, err := question.Answer.Index()
		if err != nil {
			return false, err
		}
		got, err := submitted.Index()
		if err != nil {
			return false, err
		}
		return got == want, nil
	default:
		return true, nil
	}
}
