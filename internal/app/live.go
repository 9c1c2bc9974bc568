package app

import (
	"sync"
	"time"
)

// AnswerEvent is pushed to live subscribers after each submitted answer.
type AnswerEvent struct {
	QuizID     string    `json:"quizId"`
	QuestionID string    `json:"questionId"`
	Correct    bool      `json:"correct"`
	Answered   int       `json:"answered"`
	Total      int       `json:"total"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// LiveTracker fans answer events out to per-quiz subscribers. It is purely
// in-process; a restart drops all subscriptions.
type LiveTracker struct {
	mu          sync.Mutex
	subscribers map[string]map[chan AnswerEvent]struct{}
}

func NewLiveTracker() *LiveTracker {
	return &LiveTracker{
		subscribers: make(map[string]map[chan AnswerEvent]struct{}),
	}
}

// Subscribe returns a channel receiving events for one quiz. The caller must
// invoke the returned cancel function to avoid leaks.
func (t *LiveTracker) Subscribe(quizID string) (<-chan AnswerEvent, func()) {
	ch := make(chan AnswerEvent, 8)

	t.mu.Lock()
	set, ok := t.subscribers[quizID]
	if !ok {
		set = make(map[chan AnswerEvent]struct{})
		t.subscribers[quizID] = set
	}
	set[ch] = struct{}{}
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		set, ok := t.subscribers[quizID]
		if !ok {
			return
		}
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
		}
		if len(set) == 0 {
			delete(t.subscribers, quizID)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of its quiz. Slow consumers
// have their oldest pending event dropped rather than blocking the caller.
func (t *LiveTracker) Publish(event AnswerEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ch := range t.subscribers[event.QuizID] {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
