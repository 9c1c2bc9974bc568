package app_test

import (
	"testing"
	"time"

	"alba-quiz-service/internal/app"
)

func TestLiveTrackerFanOut(t *testing.T) {
	tracker := app.NewLiveTracker()

	first, cancelFirst := tracker.Subscribe("quiz-1")
	second, cancelSecond := tracker.Subscribe("quiz-1")
	other, cancelOther := tracker.Subscribe("quiz-2")
	defer cancelFirst()
	defer cancelSecond()
	defer cancelOther()

	tracker.Publish(app.AnswerEvent{QuizID: "quiz-1", QuestionID: "q1", Correct: true})

	for _, ch := range []<-chan app.AnswerEvent{first, second} {
		select {
		case event := <-ch:
			if event.QuestionID != "q1" {
				t.Fatalf("unexpected event %+v", event)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber did not receive the event")
		}
	}

	select {
	case event := <-other:
		t.Fatalf("quiz-2 subscriber must not see quiz-1 events, got %+v", event)
	default:
	}
}

func TestLiveTrackerDropsStaleForSlowSubscriber(t *testing.T) {
	tracker := app.NewLiveTracker()

	ch, cancel := tracker.Subscribe("quiz-1")
	defer cancel()

	// Overfill the buffer without draining. Publish must not block and the
	// newest event must survive.
	for i := 0; i < 20; i++ {
		tracker.Publish(app.AnswerEvent{QuizID: "quiz-1", Answered: i + 1})
	}

	var last app.AnswerEvent
	for {
		select {
		case event := <-ch:
			last = event
			continue
		default:
		}
		break
	}
	if last.Answered != 20 {
		t.Fatalf("expected the newest event to survive, got %+v", last)
	}
}

func TestLiveTrackerCancelIsIdempotent(t *testing.T) {
	tracker := app.NewLiveTracker()

	ch, cancel := tracker.Subscribe("quiz-1")
	cancel()
	cancel()

	if _, open := <-ch; open {
		t.Fatalf("channel must be closed after cancel")
	}

	// Publishing after the last subscriber left must not panic.
	tracker.Publish(app.AnswerEvent{QuizID: "quiz-1"})
}
