package question

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hzhao-dev/triagecare/backend/internal/analysis/symptom"
	"github.com/hzhao-dev/triagecare/backend/internal/model/patient"
	"github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	"github.com/hzhao-dev/triagecare/backend/internal/service/ai"
)

// typeForPosition pins each slot of the structured sequence to one question
// type. The model is never trusted to choose the type.
var typeForPosition = map[int]triage.QuestionType{
	1: triage.TypeSingleChoice,
	2: triage.TypeText,
	3: triage.TypeMultipleChoice,
	4: triage.TypeScale,
	5: triage.TypeText,
}

// TypeForPosition exposes the slot binding for validation elsewhere.
func TypeForPosition(position int) (triage.QuestionType, bool) {
	t, ok := typeForPosition[position]
	return t, ok
}

// Service produces the next structured question, model-first with a
// deterministic per-category fallback table.
type Service struct {
	gen ai.Generator
}

// NewService accepts a nil generator; the service then always serves the
// deterministic table.
func NewService(gen ai.Generator) *Service {
	return &Service{gen: gen}
}

// Next returns the question for the given slot, or nil once position exceeds
// the sequence length. The deterministic path is idempotent for a given
// (category, position).
func (s *Service) Next(ctx context.Context, category symptom.Category, position int, answers []triage.QuestionAnswer, profile patient.Profile) *triage.Question {
	requiredType, ok := typeForPosition[position]
	if !ok {
		return nil
	}

	if s.gen == nil {
		return s.fromTable(category, position)
	}

	return ai.Attempt("question",
		func() (*triage.Question, error) {
			return s.generate(ctx, category, position, requiredType, answers, profile)
		},
		func() *triage.Question {
			return s.fromTable(category, position)
		},
	)
}

// generatedQuestion is the loosely-typed JSON shape requested from the model.
type generatedQuestion struct {
	Question     string   `json:"question"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
}

func (s *Service) generate(ctx context.Context, category symptom.Category, position int, requiredType triage.QuestionType, answers []triage.QuestionAnswer, profile patient.Profile) (*triage.Question, error) {
	raw, err := s.gen.Generate(ctx, questionSystemPrompt, buildQuestionQuery(category, position, requiredType, answers, profile))
	if err != nil {
		return nil, err
	}

	jsonText, err := ai.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload generatedQuestion
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, fmt.Errorf("malformed question json: %w", err)
	}

	text := strings.TrimSpace(payload.Question)
	if text == "" {
		return nil, fmt.Errorf("model returned empty question text")
	}

	options := cleanOptions(payload.Options)
	if requiresOptions(requiredType) && len(options) < 2 {
		return nil, fmt.Errorf("choice question needs at least 2 options, got %d", len(options))
	}
	if !requiresOptions(requiredType) {
		options = nil
	}

	return &triage.Question{
		ID:       uuid.NewString(),
		Position: position,
		Text:     text,
		Type:     requiredType, // pinned regardless of what the model claimed
		Options:  options,
	}, nil
}

func (s *Service) fromTable(category symptom.Category, position int) *triage.Question {
	table, ok := fallbackQuestions[category]
	if !ok {
		table = fallbackQuestions[symptom.Default]
	}

	entry := table[position-1]
	return &triage.Question{
		ID:       uuid.NewString(),
		Position: position,
		Text:     entry.text,
		Type:     typeForPosition[position],
		Options:  append([]string(nil), entry.options...),
	}
}

func requiresOptions(t triage.QuestionType) bool {
	return t == triage.TypeSingleChoice || t == triage.TypeMultipleChoice
}

func cleanOptions(options []string) []string {
	var out []string
	for _, o := range options {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
