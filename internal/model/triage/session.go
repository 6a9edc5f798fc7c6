package triage

import (
	"strings"
	"time"

	"github.com/hzhao-dev/triagecare/backend/internal/model/patient"
)

// SessionStatus tracks the session lifecycle. Transitions only move forward:
// ACTIVE -> COMPLETED or ACTIVE -> ESCALATED, never back.
type SessionStatus string

const (
	StatusActive    SessionStatus = "ACTIVE"
	StatusCompleted SessionStatus = "COMPLETED"
	StatusEscalated SessionStatus = "ESCALATED"
)

// Terminal reports whether the status admits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusEscalated
}

// ConfidencePoint is one entry in the session's confidence timeline.
type ConfidencePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// DiagnosticSession is the stateful record of one symptom-intake
// conversation. It is owned by the session service and mutated only through
// its record-answer and finalize operations; everyone else gets copies.
type DiagnosticSession struct {
	ID                 string            `json:"id"`
	InitialSymptoms    string            `json:"initialSymptoms"`
	Category           string            `json:"category"`
	Status             SessionStatus     `json:"status"`
	QuestionsAsked     int               `json:"questionsAsked"`
	MaxQuestions       int               `json:"maxQuestions"`
	Answers            []QuestionAnswer  `json:"answers"`
	PendingQuestion    *Question         `json:"pendingQuestion,omitempty"`
	ConfidenceTimeline []ConfidencePoint `json:"confidenceTimeline,omitempty"`
	Patient            patient.Profile   `json:"patient"`
	CreatedAt          time.Time         `json:"createdAt"`

	// Set once by finalize; re-finalizing returns these stored values.
	Assessment *Assessment `json:"assessment,omitempty"`
	Report     *Report     `json:"report,omitempty"`

	// Version backs the optimistic single-writer-per-session guarantee.
	Version int64 `json:"version"`
}

// DefaultMaxQuestions caps the structured question sequence.
const DefaultMaxQuestions = 5

// Clone returns a deep copy so callers cannot mutate stored state.
func (s *DiagnosticSession) Clone() *DiagnosticSession {
	out := *s
	out.Answers = append([]QuestionAnswer(nil), s.Answers...)
	out.ConfidenceTimeline = append([]ConfidencePoint(nil), s.ConfidenceTimeline...)
	if s.PendingQuestion != nil {
		q := *s.PendingQuestion
		q.Options = append([]string(nil), s.PendingQuestion.Options...)
		out.PendingQuestion = &q
	}
	return &out
}

// AnswerText joins the free-text content of all recorded answers, used by
// the quick emergency screen and the triage engine.
func (s *DiagnosticSession) AnswerText() string {
	var parts []string
	for _, a := range s.Answers {
		if a.AnswerValue != "" {
			parts = append(parts, a.AnswerValue)
		}
	}
	return strings.Join(parts, " ")
}
