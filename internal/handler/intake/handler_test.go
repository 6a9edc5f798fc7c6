package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	"github.com/hzhao-dev/triagecare/backend/internal/service/messaging"
	"github.com/hzhao-dev/triagecare/backend/internal/service/question"
	"github.com/hzhao-dev/triagecare/backend/internal/service/session"
	"github.com/hzhao-dev/triagecare/backend/internal/service/triage"
)

func newTestRouter() chi.Router {
	sessions := session.NewService(
		session.NewMemoryStore(),
		question.NewService(nil),
		triage.NewEngine(nil),
		messaging.NewService(nil),
	)
	r := chi.NewRouter()
	New(sessions).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateSession(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{
		"symptoms": "mild headache for 2 days",
		"patient":  map[string]any{"age": 25},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("missing session id")
	}
	if resp.Status != string(model.StatusActive) {
		t.Fatalf("status = %s, want ACTIVE", resp.Status)
	}
	if resp.Question == nil || resp.Question.Position != 1 {
		t.Fatalf("expected position-1 question, got %+v", resp.Question)
	}
	if resp.QuestionsRemaining != 5 {
		t.Fatalf("questions remaining = %d, want 5", resp.QuestionsRemaining)
	}
}

func TestCreateSessionMissingSymptoms(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{"symptoms": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnswerFlowToResult(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{
		"symptoms": "crushing chest pain radiating to my left arm",
		"patient":  map[string]any{"age": 58},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var sess sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Emergency wording in the answers finalizes after the two-answer minimum.
	answers := []string{"Center of chest", "It is getting worse and I have difficulty breathing"}
	for i, answer := range answers {
		rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/sessions/%s/answers", sess.SessionID), map[string]any{
			"questionId": sess.Question.ID,
			"answer":     answer,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %d status = %d, body %s", i+1, rec.Code, rec.Body)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
			t.Fatalf("decode answer %d: %v", i+1, err)
		}
	}

	if sess.Status != string(model.StatusEscalated) {
		t.Fatalf("status = %s, want ESCALATED", sess.Status)
	}
	if sess.Question != nil {
		t.Fatalf("terminal session still serves a question: %+v", sess.Question)
	}

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/sessions/%s/result", sess.SessionID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("result status = %d, body %s", rec.Code, rec.Body)
	}
	var result finalResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Assessment == nil || result.Assessment.Level != model.LevelEmergency {
		t.Fatalf("assessment = %+v, want emergency", result.Assessment)
	}
	if result.Message.PrimaryWarning == "" {
		t.Fatal("consequence message must be populated")
	}
}

func TestSubmitAnswerWrongQuestionConflicts(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{"symptoms": "mild headache for 2 days"})
	var sess sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/sessions/%s/answers", sess.SessionID), map[string]any{
		"questionId": "stale-question-id",
		"answer":     "whatever",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestSubmitAnswerUnknownSessionNotFound(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/sessions/no-such-session/answers", map[string]any{
		"questionId": "q1",
		"answer":     "a",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestFinalizeTooEarlyConflicts(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{"symptoms": "mild headache for 2 days"})
	var sess sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, r, http.MethodPost, fmt.Sprintf("/sessions/%s/finalize", sess.SessionID), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestResultBeforeFinalizeConflicts(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{"symptoms": "mild headache for 2 days"})
	var sess sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/sessions/%s/result", sess.SessionID), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}
