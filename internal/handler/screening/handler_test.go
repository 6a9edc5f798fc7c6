package screening

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
)

func doScreen(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	New().RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/screening/quick", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestQuickScreenEmergencyKeyword(t *testing.T) {
	rec := doScreen(t, `{"symptoms":"crushing chest pain and sweating","age":50}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var result model.ScreenResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.EmergencyDetected {
		t.Fatalf("expected emergency, got %+v", result)
	}
	if len(result.MatchedKeywords) == 0 {
		t.Fatal("matched keywords must be reported")
	}
}

func TestQuickScreenCalmSymptoms(t *testing.T) {
	rec := doScreen(t, `{"symptoms":"itchy rash on my forearm","age":30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var result model.ScreenResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.EmergencyDetected {
		t.Fatalf("calm symptoms flagged: %+v", result)
	}
	if result.Confidence != 0.8 {
		t.Fatalf("confidence = %.2f, want 0.8", result.Confidence)
	}
}

func TestQuickScreenAgeOptional(t *testing.T) {
	// Without an age the infant and elderly rules must stay off.
	rec := doScreen(t, `{"symptoms":"chest pain when I cough"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var result model.ScreenResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.EmergencyDetected {
		t.Fatalf("age rules leaked without an age: %+v", result)
	}
}

func TestQuickScreenMissingSymptoms(t *testing.T) {
	rec := doScreen(t, `{"age":40}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
