package memory

import (
	"context"
	"sync"
	"time"

	"alba-quiz-service/internal/domain"
)

// QuizStore keeps quiz sessions in a map.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizStore() *QuizStore {
	return &QuizStore{quizzes: make(map[string]domain.Quiz)}
}

func (s *QuizStore) Insert(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *QuizStore) FindByID(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizStore) SaveAnswers(_ context.Context, id string, answers []domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.ErrQuizNotFound
	}
	quiz.Answers = append([]domain.Answer(nil), answers...)
	s.quizzes[id] = quiz
	return nil
}

func (s *QuizStore) Finalize(_ context.Context, id string, endTime time.Time, score int, percentage float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.ErrQuizNotFound
	}
	end := endTime
	quiz.EndTime = &end
	quiz.Status = domain.StatusCompleted
	quiz.Score = &score
	quiz.Percentage = &percentage
	s.quizzes[id] = quiz
	return nil
}
