package http

import (
	"log"
	"net/http"

	"alba-quiz-service/internal/app"
	"github.com/gorilla/websocket"
)

// WSHandler streams per-answer events for an in-progress quiz so a client
// can render a live score ticker while the user works through the questions.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ServeWS upgrades the request and forwards answer events until the client
// disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	if quizID == "" || userID == "" {
		http.Error(w, "missing quizId or userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel, err := h.service.SubscribeLive(r.Context(), quizID, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: map[string]string{"message": err.Error()}})
		return
	}
	defer cancel()

	// Written before the writer goroutine starts so the connection only ever
	// has one concurrent writer.
	if err := conn.WriteJSON(outboundMessage{Type: "subscribed", Payload: map[string]string{"quizId": quizID}}); err != nil {
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for event := range updates {
			if err := conn.WriteJSON(outboundMessage{Type: "answer", Payload: event}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Inbound traffic is ignored; the read loop only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	<-writerDone
}
