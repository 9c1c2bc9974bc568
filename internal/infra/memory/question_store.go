package memory

import (
	"context"
	"sync"

	"alba-quiz-service/internal/app"
	"alba-quiz-service/internal/domain"
)

// QuestionStore is an in-memory question bank. Find reflects insertion
// order, which is the "store order" practice mode relies on.
type QuestionStore struct {
	mu        sync.RWMutex
	order     []string
	questions map[string]domain.Question
}

func NewQuestionStore(questions ...domain.Question) *QuestionStore {
	s := &QuestionStore{questions: make(map[string]domain.Question)}
	for _, q := range questions {
		s.add(q)
	}
	return s
}

func (s *QuestionStore) add(q domain.Question) {
	if _, ok := s.questions[q.ID]; !ok {
		s.order = append(s.order, q.ID)
	}
	s.questions[q.ID] = q
}

func (s *QuestionStore) Insert(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(q)
	return nil
}

func (s *QuestionStore) Find(_ context.Context, filter app.QuestionFilter) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Question{}
	for _, id := range s.order {
		q := s.questions[id]
		if filter.Category != nil && q.Category != *filter.Category {
			continue
		}
		if filter.Difficulty != nil && q.Difficulty != *filter.Difficulty {
			continue
		}
		out = append(out, q)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *QuestionStore) FindByID(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.questions[id]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

// Delete removes a question; review mode must skip ids that no longer
// resolve, and tests exercise that path through here.
func (s *QuestionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.questions, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
