package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"alba-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// QuizService contains the quiz lifecycle use cases: start, answer, finish,
// results. Stores are injected so the whole core runs against in-memory
// fakes in tests.
type QuizService struct {
	questions QuestionRepository
	quizzes   QuizRepository
	users     UserRepository
	progress  ProgressRepository
	live      *LiveTracker

	now   func() time.Time
	newID func() string

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizService(questions QuestionRepository, quizzes QuizRepository, users UserRepository, progress ProgressRepository, live *LiveTracker) *QuizService {
	return NewQuizServiceWithClock(questions, quizzes, users, progress, live, time.Now)
}

// NewQuizServiceWithClock is for deterministic timestamps in tests.
func NewQuizServiceWithClock(questions QuestionRepository, quizzes QuizRepository, users UserRepository, progress ProgressRepository, live *LiveTracker, now func() time.Time) *QuizService {
	return &QuizService{
		questions: questions,
		quizzes:   quizzes,
		users:     users,
		progress:  progress,
		live:      live,
		now:       now,
		newID:     uuid.NewString,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartQuizInput carries the mode plus the optional practice-mode filters.
type StartQuizInput struct {
	Mode          domain.QuizMode
	Category      *domain.Category
	Difficulty    *domain.Difficulty
	QuestionCount int
}

type StartedQuiz struct {
	QuizID    string            `json:"quiz_id"`
	Questions []domain.Question `json:"questions"`
	StartTime time.Time         `json:"start_time"`
}

// AnswerSubmission is one raw answer from the client.
type AnswerSubmission struct {
	QuestionID string
	UserAnswer domain.AnswerValue
	TimeSpent  *int
}

// AnswerFeedback tells the client whether it was right; the explanation is
// only revealed in practice mode.
type AnswerFeedback struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

// StartQuiz selects questions for the requested mode, persists a new quiz
// session and returns it. Filters yielding nothing surface ErrNoQuestions.
func (s *QuizService) StartQuiz(ctx context.Context, userID string, input StartQuizInput) (StartedQuiz, error) {
	questions, err := s.generateQuestions(ctx, input.Mode, userID, QuestionFilter{
		Category:   input.Category,
		Difficulty: input.Difficulty,
		Limit:      input.QuestionCount,
	})
	if err != nil {
		return StartedQuiz{}, err
	}
	if len(questions) == 0 {
		return StartedQuiz{}, domain.ErrNoQuestions
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	quiz := domain.Quiz{
		ID:        s.newID(),
		UserID:    userID,
		Mode:      input.Mode,
		Questions: ids,
		StartTime: s.now().UTC(),
		Status:    domain.StatusInProgress,
		Answers:   []domain.Answer{},
	}
	if err := s.quizzes.Insert(ctx, quiz); err != nil {
		return StartedQuiz{}, err
	}

	return StartedQuiz{
		QuizID:    quiz.ID,
		Questions: questions,
		StartTime: quiz.StartTime,
	}, nil
}

// SubmitAnswer scores one answer, appends it to the quiz, and upserts the
// per-question progress record.
func (s *QuizService) SubmitAnswer(ctx context.Context, quizID, userID string, submission AnswerSubmission) (AnswerFeedback, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, userID)
	if err != nil {
		return AnswerFeedback{}, err
	}

	question, err := s.questions.FindByID(ctx, submission.QuestionID)
	if err != nil {
		return AnswerFeedback{}, err
	}

	correct, err := CheckAnswer(question, submission.UserAnswer)
	if err != nil {
		return AnswerFeedback{}, err
	}

	quiz.Answers = append(quiz.Answers, domain.Answer{
		QuestionID: submission.QuestionID,
		UserAnswer: submission.UserAnswer,
		IsCorrect:  correct,
		TimeSpent:  submission.TimeSpent,
	})
	if err := s.quizzes.SaveAnswers(ctx, quiz.ID, quiz.Answers); err != nil {
		return AnswerFeedback{}, err
	}

	if err := s.progress.Upsert(ctx, domain.ProgressRecord{
		UserID:       userID,
		QuestionID:   submission.QuestionID,
		IsCorrect:    correct,
		Attempts:     1,
		LastAnswered: s.now().UTC(),
		TimeSpent:    submission.TimeSpent,
	}); err != nil {
		return AnswerFeedback{}, err
	}

	if s.live != nil {
		s.live.Publish(AnswerEvent{
			QuizID:     quiz.ID,
			QuestionID: submission.QuestionID,
			Correct:    correct,
			Answered:   len(quiz.Answers),
			Total:      len(quiz.Questions),
			UpdatedAt:  s.now().UTC(),
		})
	}

	feedback := AnswerFeedback{Correct: correct}
	if quiz.Mode == domain.ModePractice {
		feedback.Explanation = question.Explanation
	}
	return feedback, nil
}

// FinishQuiz finalizes the session and folds the results into the user's
// cumulative stats. There is no compensating transaction: if the stats write
// fails after the quiz was finalized the two documents diverge.
func (s *QuizService) FinishQuiz(ctx context.Context, quizID, userID string, endTime time.Time) (domain.Results, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, userID)
	if err != nil {
		return domain.Results{}, err
	}

	end := endTime.UTC()
	quiz.EndTime = &end
	quiz.Status = domain.StatusCompleted

	results, err := CalculateResults(ctx, quiz, s.questions)
	if err != nil {
		return domain.Results{}, err
	}

	if err := s.quizzes.Finalize(ctx, quiz.ID, end, results.Score, results.Percentage); err != nil {
		return domain.Results{}, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.Results{}, err
	}
	stats, categoryProgress := ApplyResults(user.Stats, user.CategoryProgress, results)
	if err := s.users.UpdateStats(ctx, userID, stats, categoryProgress); err != nil {
		return domain.Results{}, err
	}

	return results, nil
}

// Results recomputes the summary for a quiz from its stored answers.
func (s *QuizService) Results(ctx context.Context, quizID, userID string) (domain.Results, error) {
	quiz, err := s.ownedQuiz(ctx, quizID, userID)
	if err != nil {
		return domain.Results{}, err
	}
	return CalculateResults(ctx, quiz, s.questions)
}

// ListQuestions exposes filtered question lookup to the transport layer.
func (s *QuizService) ListQuestions(ctx context.Context, filter QuestionFilter) ([]domain.Question, error) {
	return s.questions.Find(ctx, filter)
}

func (s *QuizService) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	return s.questions.FindByID(ctx, id)
}

// WrongQuestions returns every question id the user most recently answered
// incorrectly.
func (s *QuizService) WrongQuestions(ctx context.Context, userID string) ([]string, error) {
	return s.progress.IncorrectQuestionIDs(ctx, userID, 0)
}

// SubscribeLive attaches a subscriber to a quiz's answer-event stream.
func (s *QuizService) SubscribeLive(ctx context.Context, quizID, userID string) (<-chan AnswerEvent, func(), error) {
	if _, err := s.ownedQuiz(ctx, quizID, userID); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.live.Subscribe(quizID)
	return ch, cancel, nil
}

// ownedQuiz loads a quiz and enforces ownership. A quiz owned by someone
// else reports the same ErrQuizNotFound as an absent one.
func (s *QuizService) ownedQuiz(ctx context.Context, quizID, userID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.UserID != userID {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// TopicProgress is one per-category row of the progress overview.
type TopicProgress struct {
	Name             string `json:"name"`
	Status           string `json:"status"`
	Progress         int    `json:"progress"`
	QuestionsTotal   int    `json:"questions_total"`
	QuestionsCorrect int    `json:"questions_correct"`
}

// CategoryStatView adds the derived percentage to a raw tally.
type CategoryStatView struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ProgressOverview is the per-user progress summary served to clients.
type ProgressOverview struct {
	Level         domain.Level                         `json:"level"`
	XP            int                                  `json:"xp"`
	NextLevelXP   int                                  `json:"next_level_xp"`
	Topics        []TopicProgress                      `json:"topics"`
	CategoryStats map[domain.Category]CategoryStatView `json:"category_stats"`
}

// ProgressSummary assembles the user's level, XP target, and per-topic
// progress rows from the progress store.
func (s *QuizService) ProgressSummary(ctx context.Context, userID string) (ProgressOverview, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return ProgressOverview{}, err
	}

	stats, err := s.progress.CategoryStats(ctx, userID)
	if err != nil {
		return ProgressOverview{}, err
	}

	views := make(map[domain.Category]CategoryStatView, len(stats))
	topics := []TopicProgress{}
	for _, category := range domain.Categories() {
		tally, ok := stats[category]
		if !ok {
			continue
		}
		pct := 0
		if tally.Total > 0 {
			pct = int(round1(float64(tally.Correct) / float64(tally.Total) * 100))
		}
		views[category] = CategoryStatView{Correct: tally.Correct, Total: tally.Total, Percentage: pct}

		if tally.Total == 0 {
			continue
		}
		status := "pending"
		switch {
		case pct >= 90:
			status = "completed"
		case pct >= 50:
			status = "in_progress"
		}
		topics = append(topics, TopicProgress{
			Name:             titleize(string(category)),
			Status:           status,
			Progress:         pct,
			QuestionsTotal:   tally.Total,
			QuestionsCorrect: tally.Correct,
		})
	}

	return ProgressOverview{
		Level:         user.Stats.Level,
		XP:            user.Stats.XP,
		NextLevelXP:   domain.NextLevelXP(user.Stats.Level),
		Topics:        topics,
		CategoryStats: views,
	}, nil
}

func titleize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
