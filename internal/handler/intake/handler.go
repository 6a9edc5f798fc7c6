package intake

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hzhao-dev/triagecare/backend/internal/model/patient"
	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	sessionservice "github.com/hzhao-dev/triagecare/backend/internal/service/session"
	"github.com/hzhao-dev/triagecare/backend/pkg/utils"
)

// Handler exposes the diagnostic session flow over HTTP.
type Handler struct {
	sessions *sessionservice.Service
}

// New creates the intake handler.
func New(sessions *sessionservice.Service) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Post("/sessions/{sessionID}/answers", h.handleSubmitAnswer)
	r.Post("/sessions/{sessionID}/finalize", h.handleFinalize)
	r.Get("/sessions/{sessionID}/result", h.handleFinalResult)
}

type createSessionRequest struct {
	Symptoms string          `json:"symptoms"`
	Patient  patient.Profile `json:"patient"`
}

type sessionResponse struct {
	SessionID          string          `json:"sessionId"`
	Status             string          `json:"status"`
	Category           string          `json:"category,omitempty"`
	Question           *model.Question `json:"question"`
	QuestionsRemaining int             `json:"questionsRemaining"`
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Symptoms) == "" {
		utils.RespondError(w, http.StatusBadRequest, "symptoms is required")
		return
	}

	sess, err := h.sessions.Create(r.Context(), payload.Symptoms, payload.Patient)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, toSessionResponse(sess))
}

type submitAnswerRequest struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.QuestionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "questionId is required")
		return
	}

	sess, err := h.sessions.SubmitAnswer(r.Context(), sessionID, payload.QuestionID, payload.Answer)
	if err != nil {
		respondSessionError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.Finalize(r.Context(), sessionID)
	if err != nil {
		respondSessionError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, toSessionResponse(sess))
}

type finalResultResponse struct {
	Assessment          *model.Assessment        `json:"triageAssessment"`
	Message             model.ConsequenceMessage `json:"consequenceMessage"`
	Progression         model.RiskProgression    `json:"riskProgression"`
	Metrics             model.PersuasionMetrics  `json:"persuasionMetrics"`
	CandidateConditions []string                 `json:"candidateConditions,omitempty"`
}

func (h *Handler) handleFinalResult(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	assessment, report, err := h.sessions.FinalResult(r.Context(), sessionID)
	if err != nil {
		respondSessionError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, finalResultResponse{
		Assessment:          assessment,
		Message:             report.Message,
		Progression:         report.Progression,
		Metrics:             report.Metrics,
		CandidateConditions: report.CandidateConditions,
	})
}

func toSessionResponse(sess *model.DiagnosticSession) sessionResponse {
	return sessionResponse{
		SessionID:          sess.ID,
		Status:             string(sess.Status),
		Category:           sess.Category,
		Question:           sess.PendingQuestion,
		QuestionsRemaining: sess.MaxQuestions - sess.QuestionsAsked,
	}
}

// respondSessionError maps the service error taxonomy onto HTTP statuses.
// Version conflicts are retryable by the client; everything generative never
// reaches here.
func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, sessionservice.ErrInvalidTransition):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sessionservice.ErrVersionConflict):
		utils.RespondRetryableError(w, http.StatusConflict, "concurrent update, retry the request")
	case errors.Is(err, sessionservice.ErrSessionNotTerminal):
		utils.RespondError(w, http.StatusConflict, "session not finalized yet")
	default:
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
