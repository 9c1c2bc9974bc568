package memory

import (
	"context"
	"errors"
	"sync"

	"alba-quiz-service/internal/app"
	"alba-quiz-service/internal/domain"
)

// ProgressStore keeps per-(user, question) records. The upsert is atomic
// under the store mutex, mirroring the conditional-upsert contract the
// Postgres implementation provides with ON CONFLICT.
type ProgressStore struct {
	questions app.QuestionRepository

	mu      sync.RWMutex
	order   map[string][]string                         // userID -> question ids, first-answer order
	records map[string]map[string]domain.ProgressRecord // userID -> questionID -> record
}

func NewProgressStore(questions app.QuestionRepository) *ProgressStore {
	return &ProgressStore{
		questions: questions,
		order:     make(map[string][]string),
		records:   make(map[string]map[string]domain.ProgressRecord),
	}
}

func (s *ProgressStore) Upsert(_ context.Context, record domain.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byQuestion, ok := s.records[record.UserID]
	if !ok {
		byQuestion = make(map[string]domain.ProgressRecord)
		s.records[record.UserID] = byQuestion
	}

	if existing, ok := byQuestion[record.QuestionID]; ok {
		existing.IsCorrect = record.IsCorrect
		existing.LastAnswered = record.LastAnswered
		existing.TimeSpent = record.TimeSpent
		existing.Attempts++
		byQuestion[record.QuestionID] = existing
		return nil
	}

	record.Attempts = 1
	byQuestion[record.QuestionID] = record
	s.order[record.UserID] = append(s.order[record.UserID], record.QuestionID)
	return nil
}

func (s *ProgressStore) IncorrectQuestionIDs(_ context.Context, userID string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	for _, questionID := range s.order[userID] {
		record := s.records[userID][questionID]
		if record.IsCorrect {
			continue
		}
		ids = append(ids, questionID)
		if limit > 0 && len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func (s *ProgressStore) CategoryStats(ctx context.Context, userID string) (map[domain.Category]domain.CategoryStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[domain.Category]domain.CategoryStat)
	for _, questionID := range s.order[userID] {
		record := s.records[userID][questionID]
		question, err := s.questions.FindByID(ctx, questionID)
		if errors.Is(err, domain.ErrQuestionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		bucket := stats[question.Category]
		bucket.Total++
		if record.IsCorrect {
			bucket.Correct++
		}
		stats[question.Category] = bucket
	}
	return stats, nil
}
