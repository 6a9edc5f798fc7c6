package intake

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	sessionservice "github.com/hzhao-dev/triagecare/backend/internal/service/session"
)

// WebSocketHandler runs the interactive intake conversation over one
// websocket connection: the client answers, the server pushes the next
// question or the final result.
type WebSocketHandler struct {
	sessions *sessionservice.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket intake handler.
func NewWebSocketHandler(sessions *sessionservice.Service) *WebSocketHandler {
	return &WebSocketHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the websocket route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/sessions/{sessionID}", h.handleWebSocket)
}

type inboundFrame struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type answerFrame struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type outboundFrame struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] new intake connection for session=%s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	// Resume support: the client immediately learns where the session stands.
	h.sendState(conn, sess)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var frame inboundFrame
			if err := conn.ReadJSON(&frame); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[ws] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if frame.SessionID != "" && frame.SessionID != sessionID {
				h.sendError(conn, sessionID, "session mismatch")
				continue
			}

			h.handleFrame(ctx, conn, sessionID, &frame)
		}
	}
}

func (h *WebSocketHandler) handleFrame(ctx context.Context, conn *websocket.Conn, sessionID string, frame *inboundFrame) {
	switch frame.Type {
	case "answer":
		var payload answerFrame
		if err := json.Unmarshal(frame.Data, &payload); err != nil || payload.QuestionID == "" {
			h.sendError(conn, sessionID, "answer frame needs questionId and answer")
			return
		}

		sess, err := h.sessions.SubmitAnswer(ctx, sessionID, payload.QuestionID, payload.Answer)
		if err != nil {
			h.sendError(conn, sessionID, sessionErrorMessage(err))
			return
		}
		h.sendState(conn, sess)

	case "result":
		assessment, report, err := h.sessions.FinalResult(ctx, sessionID)
		if err != nil {
			h.sendError(conn, sessionID, sessionErrorMessage(err))
			return
		}
		h.send(conn, outboundFrame{
			Type:      "result",
			SessionID: sessionID,
			Data: finalResultResponse{
				Assessment:          assessment,
				Message:             report.Message,
				Progression:         report.Progression,
				Metrics:             report.Metrics,
				CandidateConditions: report.CandidateConditions,
			},
			Timestamp: time.Now().UnixMilli(),
		})

	case "ping":
		h.send(conn, outboundFrame{Type: "pong", SessionID: sessionID, Timestamp: time.Now().UnixMilli()})

	default:
		h.sendError(conn, sessionID, "unknown frame type")
	}
}

// sendState pushes the pending question while the session is active and the
// final result once it terminates.
func (h *WebSocketHandler) sendState(conn *websocket.Conn, sess *model.DiagnosticSession) {
	if sess.Status.Terminal() {
		data := map[string]interface{}{
			"status": sess.Status,
		}
		if sess.Assessment != nil {
			data["triageAssessment"] = sess.Assessment
		}
		h.send(conn, outboundFrame{
			Type:      "finalized",
			SessionID: sess.ID,
			Data:      data,
			Timestamp: time.Now().UnixMilli(),
		})
		return
	}

	h.send(conn, outboundFrame{
		Type:      "question",
		SessionID: sess.ID,
		Data: map[string]interface{}{
			"question":           sess.PendingQuestion,
			"questionsRemaining": sess.MaxQuestions - sess.QuestionsAsked,
		},
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *WebSocketHandler) send(conn *websocket.Conn, frame outboundFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, outboundFrame{
		Type:      "error",
		SessionID: sessionID,
		Data:      map[string]string{"error": message},
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

func sessionErrorMessage(err error) string {
	switch {
	case errors.Is(err, sessionservice.ErrSessionNotFound):
		return "session not found"
	case errors.Is(err, sessionservice.ErrInvalidTransition):
		return err.Error()
	case errors.Is(err, sessionservice.ErrVersionConflict):
		return "concurrent update, retry"
	case errors.Is(err, sessionservice.ErrSessionNotTerminal):
		return "session not finalized yet"
	default:
		return "internal error"
	}
}
