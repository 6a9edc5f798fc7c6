package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hzhao-dev/triagecare/backend/internal/analysis/redflag"
	"github.com/hzhao-dev/triagecare/backend/internal/analysis/symptom"
	"github.com/hzhao-dev/triagecare/backend/internal/model/patient"
	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	"github.com/hzhao-dev/triagecare/backend/internal/service/messaging"
	"github.com/hzhao-dev/triagecare/backend/internal/service/question"
	"github.com/hzhao-dev/triagecare/backend/internal/service/triage"
)

var (
	// ErrInvalidTransition covers answers submitted out of order, answers to
	// terminal sessions, and premature finalize calls.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrSessionNotTerminal is returned when the final result is requested
	// before the session finalizes.
	ErrSessionNotTerminal = errors.New("session not finalized yet")
)

// minQuestionsBeforeFinalize guarantees every session asks at least this many
// questions before any early termination.
const minQuestionsBeforeFinalize = 2

// Service owns the diagnostic session lifecycle: it is the only writer of
// session state, serialized per session by the store's version check.
type Service struct {
	store     Store
	questions *question.Service
	engine    *triage.Engine
	messaging *messaging.Service
	now       func() time.Time
}

// NewService wires the state machine to its collaborators.
func NewService(store Store, questions *question.Service, engine *triage.Engine, msg *messaging.Service) *Service {
	return &Service{
		store:     store,
		questions: questions,
		engine:    engine,
		messaging: msg,
		now:       time.Now,
	}
}

// Create categorizes the symptoms, opens an ACTIVE session, and attaches the
// position-1 question.
func (s *Service) Create(ctx context.Context, symptoms string, profile patient.Profile) (*model.DiagnosticSession, error) {
	category := symptom.Categorize(symptoms)
	now := s.now().UTC()

	sess := &model.DiagnosticSession{
		ID:              uuid.NewString(),
		InitialSymptoms: symptoms,
		Category:        string(category),
		Status:          model.StatusActive,
		MaxQuestions:    model.DefaultMaxQuestions,
		Patient:         profile,
		CreatedAt:       now,
		ConfidenceTimeline: []model.ConfidencePoint{
			{Timestamp: now, Score: initialConfidence},
		},
	}

	sess.PendingQuestion = s.questions.Next(ctx, category, 1, nil, profile)

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	log.Printf("[session] created session=%s category=%s", sess.ID, sess.Category)
	return sess.Clone(), nil
}

// Get returns a copy of the session.
func (s *Service) Get(ctx context.Context, id string) (*model.DiagnosticSession, error) {
	return s.store.Get(ctx, id)
}

// SubmitAnswer records an answer for the next expected position. Out-of-order
// submissions and answers to terminal sessions are rejected with
// ErrInvalidTransition, never silently reordered. When the session should not
// continue it finalizes in the same write.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, questionID, answer string) (*model.DiagnosticSession, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Status.Terminal() {
		return nil, fmt.Errorf("%w: session %s is %s", ErrInvalidTransition, sessionID, sess.Status)
	}
	pending := sess.PendingQuestion
	if pending == nil {
		return nil, fmt.Errorf("%w: no question awaiting an answer", ErrInvalidTransition)
	}
	if pending.ID != questionID {
		return nil, fmt.Errorf("%w: expected answer for question %s at position %d", ErrInvalidTransition, pending.ID, pending.Position)
	}

	before := lastConfidence(sess)
	sess.Answers = append(sess.Answers, model.QuestionAnswer{
		QuestionID:       pending.ID,
		Position:         pending.Position,
		QuestionText:     pending.Text,
		QuestionType:     pending.Type,
		Options:          pending.Options,
		AnswerValue:      answer,
		ConfidenceBefore: before,
		ConfidenceAfter:  s.nextConfidence(sess, before, answer),
	})
	sess.QuestionsAsked++
	sess.ConfidenceTimeline = append(sess.ConfidenceTimeline, model.ConfidencePoint{
		Timestamp: s.now().UTC(),
		Score:     sess.Answers[len(sess.Answers)-1].ConfidenceAfter,
	})

	if s.shouldContinue(sess) {
		sess.PendingQuestion = s.questions.Next(ctx, symptom.Category(sess.Category), sess.QuestionsAsked+1, sess.Answers, sess.Patient)
	} else {
		sess.PendingQuestion = nil
		s.finalizeLocked(ctx, sess)
	}

	if err := s.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// shouldContinue keeps asking until max questions, with one exception: after
// the minimum of two answers, an emergency hit on the cumulative answer text
// triggers early finalize. The screen deliberately excludes the initial
// symptoms: those are assessed in full at finalize, and re-screening them
// here would terminate every alarming complaint at exactly two answers.
func (s *Service) shouldContinue(sess *model.DiagnosticSession) bool {
	if sess.QuestionsAsked >= sess.MaxQuestions {
		return false
	}
	if sess.QuestionsAsked >= minQuestionsBeforeFinalize {
		screen := redflag.QuickScreen(sess.AnswerText(), sess.Patient.Age)
		if screen.EmergencyDetected {
			log.Printf("[session] early finalize for session=%s after %d answers: %v",
				sess.ID, sess.QuestionsAsked, screen.MatchedKeywords)
			return false
		}
	}
	return true
}

// Finalize runs the triage engine and messaging generator for a session with
// at least the minimum answers. Idempotent: a terminal session returns its
// stored results without recomputation.
func (s *Service) Finalize(ctx context.Context, sessionID string) (*model.DiagnosticSession, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Status.Terminal() {
		return sess, nil
	}
	if sess.QuestionsAsked < minQuestionsBeforeFinalize {
		return nil, fmt.Errorf("%w: finalize requires at least %d answers, have %d",
			ErrInvalidTransition, minQuestionsBeforeFinalize, sess.QuestionsAsked)
	}

	sess.PendingQuestion = nil
	s.finalizeLocked(ctx, sess)

	if err := s.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// finalizeLocked computes and stores the assessment and report on a session
// the caller is about to Put.
func (s *Service) finalizeLocked(ctx context.Context, sess *model.DiagnosticSession) {
	assessment := s.engine.Assess(ctx, sess.InitialSymptoms, sess.Answers, sess.Patient)
	report := s.messaging.Build(ctx, assessment, symptom.CandidateConditions(symptom.Category(sess.Category)))

	sess.Assessment = assessment
	sess.Report = report
	if assessment.EmergencyOverride {
		sess.Status = model.StatusEscalated
	} else {
		sess.Status = model.StatusCompleted
	}

	log.Printf("[session] finalized session=%s level=%s override=%t degraded=%t",
		sess.ID, assessment.Level, assessment.EmergencyOverride, assessment.Degraded)
}

// FinalResult returns the stored assessment and report of a terminal session.
func (s *Service) FinalResult(ctx context.Context, sessionID string) (*model.Assessment, *model.Report, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !sess.Status.Terminal() || sess.Assessment == nil || sess.Report == nil {
		return nil, nil, ErrSessionNotTerminal
	}
	return sess.Assessment, sess.Report, nil
}

const initialConfidence = 0.2

// nextConfidence grows assessment certainty with each answer, faster when the
// quick screen already sees emergency signals in the collected answers.
func (s *Service) nextConfidence(sess *model.DiagnosticSession, before float64, answer string) float64 {
	after := before + 0.12
	screen := redflag.QuickScreen(sess.AnswerText()+" "+answer, sess.Patient.Age)
	if screen.EmergencyDetected {
		after += 0.08
	}
	if after > 0.95 {
		after = 0.95
	}
	return after
}

func lastConfidence(sess *model.DiagnosticSession) float64 {
	if n := len(sess.ConfidenceTimeline); n > 0 {
		return sess.ConfidenceTimeline[n-1].Score
	}
	return initialConfidence
}
