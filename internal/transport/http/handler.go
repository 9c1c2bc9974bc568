package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"alba-quiz-service/internal/app"
	"alba-quiz-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Handler exposes the quiz lifecycle over JSON. Token issuance and
// verification live outside this service; callers identify themselves with
// the X-User-ID header set by the gateway.
type Handler struct {
	service  *app.QuizService
	validate *validator.Validate
}

func NewHandler(service *app.QuizService) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/quiz/start", h.startQuiz)
	mux.HandleFunc("POST /api/quiz/{id}/answer", h.submitAnswer)
	mux.HandleFunc("POST /api/quiz/{id}/finish", h.finishQuiz)
	mux.HandleFunc("GET /api/quiz/{id}/results", h.quizResults)
	mux.HandleFunc("GET /api/questions", h.listQuestions)
	mux.HandleFunc("GET /api/questions/{id}", h.getQuestion)
	mux.HandleFunc("GET /api/users/progress", h.userProgress)
	mux.HandleFunc("GET /api/users/wrong-questions", h.wrongQuestions)
}

type quizStartRequest struct {
	Mode          string  `json:"mode" validate:"required,oneof=practice exam review"`
	Category      *string `json:"category" validate:"omitempty,oneof=personajes temas simbolismo"`
	Difficulty    *string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	QuestionCount int     `json:"question_count" validate:"omitempty,min=1,max=50"`
}

type answerSubmitRequest struct {
	QuestionID string             `json:"question_id" validate:"required"`
	UserAnswer domain.AnswerValue `json:"user_answer"`
	TimeSpent  *int               `json:"time_spent" validate:"omitempty,min=0"`
}

type quizFinishRequest struct {
	EndTime time.Time `json:"end_time" validate:"required"`
}

// questionView strips the canonical answer and explanation from a question
// before it leaves the service.
type questionView struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Category   string   `json:"category"`
	Question   string   `json:"question"`
	Options    []string `json:"options,omitempty"`
	Difficulty string   `json:"difficulty"`
}

type quizStartResponse struct {
	QuizID    string         `json:"quiz_id"`
	Questions []questionView `json:"questions"`
	StartTime time.Time      `json:"start_time"`
}

func (h *Handler) startQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req quizStartRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := app.StartQuizInput{
		Mode:          domain.QuizMode(req.Mode),
		QuestionCount: req.QuestionCount,
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		input.Category = &category
	}
	if req.Difficulty != nil {
		difficulty := domain.Difficulty(*req.Difficulty)
		input.Difficulty = &difficulty
	}

	started, err := h.service.StartQuiz(r.Context(), userID, input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]questionView, len(started.Questions))
	for i, q := range started.Questions {
		views[i] = toQuestionView(q)
	}
	writeJSON(w, http.StatusOK, quizStartResponse{
		QuizID:    started.QuizID,
		Questions: views,
		StartTime: started.StartTime,
	})
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req answerSubmitRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.UserAnswer.IsZero() {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "user_answer is required"})
		return
	}

	feedback, err := h.service.SubmitAnswer(r.Context(), r.PathValue("id"), userID, app.AnswerSubmission{
		QuestionID: req.QuestionID,
		UserAnswer: req.UserAnswer,
		TimeSpent:  req.TimeSpent,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

func (h *Handler) finishQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req quizFinishRequest
	if !h.decode(w, r, &req) {
		return
	}

	results, err := h.service.FinishQuiz(r.Context(), r.PathValue("id"), userID, req.EndTime)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) quizResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	results, err := h.service.Results(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	filter := app.QuestionFilter{}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category := domain.Category(raw)
		filter.Category = &category
	}
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		difficulty := domain.Difficulty(raw)
		filter.Difficulty = &difficulty
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	questions, err := h.service.ListQuestions(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	views := make([]questionView, len(questions))
	for i, q := range questions {
		views[i] = toQuestionView(q)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.GetQuestion(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuestionView(question))
}

func (h *Handler) userProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	overview, err := h.service.ProgressSummary(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) wrongQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	ids, err := h.service.WrongQuestions(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "missing X-User-ID header"})
		return "", false
	}
	return userID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
		return false
	}
	return true
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNoQuestions):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: err.Error()})
	case errors.Is(err, domain.ErrInvalidAnswer):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func toQuestionView(q domain.Question) questionView {
	return questionView{
		ID:         q.ID,
		Type:       string(q.Type),
		Category:   string(q.Category),
		Question:   q.Prompt,
		Options:    q.Options,
		Difficulty: string(q.Difficulty),
	}
}
