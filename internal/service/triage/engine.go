package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hzhao-dev/triagecare/backend/internal/analysis/agerisk"
	"github.com/hzhao-dev/triagecare/backend/internal/analysis/redflag"
	"github.com/hzhao-dev/triagecare/backend/internal/analysis/symptom"
	"github.com/hzhao-dev/triagecare/backend/internal/model/patient"
	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	"github.com/hzhao-dev/triagecare/backend/internal/service/ai"
)

// Engine combines deterministic red-flag and age-risk signals with a
// generative urgency assessment into one auditable decision.
type Engine struct {
	gen ai.Generator
}

// NewEngine accepts a nil generator; assessment then always runs the
// conservative fallback base.
func NewEngine(gen ai.Generator) *Engine {
	return &Engine{gen: gen}
}

// Assess produces the combined assessment. It never fails: every generative
// problem degrades to the conservative base and the combination rule still
// applies on top.
func (e *Engine) Assess(ctx context.Context, symptoms string, answers []model.QuestionAnswer, profile patient.Profile) *model.Assessment {
	var freeText []string
	for _, a := range answers {
		if a.AnswerValue != "" {
			freeText = append(freeText, a.AnswerValue)
		}
	}

	flags := redflag.Detect(symptoms, freeText)
	flagLevel := redflag.MaxUrgency(flags)

	var riskFactors []model.RiskFactor
	if factor := agerisk.Evaluate(symptom.Categorize(symptoms), profile.Age); factor != nil {
		riskFactors = append(riskFactors, *factor)
	}

	base := e.generativeBase(ctx, symptoms, answers, profile)

	return combine(base, flags, flagLevel, riskFactors)
}

// generativeAssessment is the model's contribution before combination.
type generativeAssessment struct {
	level           model.Level
	confidence      float64
	timeUrgency     string
	reasoning       string
	riskFactors     []model.RiskFactor
	recommendations []string
	degraded        bool
}

func (e *Engine) generativeBase(ctx context.Context, symptoms string, answers []model.QuestionAnswer, profile patient.Profile) generativeAssessment {
	if e.gen == nil {
		return conservativeBase(symptoms)
	}

	return ai.Attempt("triage",
		func() (generativeAssessment, error) {
			return e.generate(ctx, symptoms, answers, profile)
		},
		func() generativeAssessment {
			return conservativeBase(symptoms)
		},
	)
}

// assessmentPayload is the loosely-typed JSON requested from the model.
// Every field is optional; missing values get deterministic defaults.
type assessmentPayload struct {
	TriageLevel     string   `json:"triage_level"`
	ConfidenceScore float64  `json:"confidence_score"`
	TimeUrgency     string   `json:"time_urgency"`
	Reasoning       string   `json:"reasoning"`
	RiskFactors     []string `json:"risk_factors"`
	Recommendations []string `json:"recommendations"`
	RedFlags        []string `json:"red_flags"`
}

func (e *Engine) generate(ctx context.Context, symptoms string, answers []model.QuestionAnswer, profile patient.Profile) (generativeAssessment, error) {
	raw, err := e.gen.Generate(ctx, assessmentSystemPrompt, buildAssessmentQuery(symptoms, answers, profile))
	if err != nil {
		return generativeAssessment{}, err
	}

	jsonText, err := ai.ExtractJSON(raw)
	if err != nil {
		return generativeAssessment{}, err
	}

	var payload assessmentPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return generativeAssessment{}, fmt.Errorf("malformed assessment json: %w", err)
	}

	level, ok := model.ParseLevel(strings.ToLower(strings.TrimSpace(payload.TriageLevel)))
	if !ok {
		level = model.LevelSoon
	}

	confidence := payload.ConfidenceScore
	if confidence <= 0 {
		confidence = 0.6
	}
	if confidence > 1 {
		confidence = 1
	}

	out := generativeAssessment{
		level:           level,
		confidence:      confidence,
		timeUrgency:     strings.TrimSpace(payload.TimeUrgency),
		reasoning:       strings.TrimSpace(payload.Reasoning),
		recommendations: payload.Recommendations,
	}
	for _, rf := range payload.RiskFactors {
		if trimmed := strings.TrimSpace(rf); trimmed != "" {
			out.riskFactors = append(out.riskFactors, model.RiskFactor{
				FactorType:  "model",
				Severity:    0.5,
				Description: trimmed,
				Weight:      0.5,
			})
		}
	}
	return out, nil
}

// concerningWords drives the conservative fallback when the model is
// unreachable: any hit escalates the base level to urgent.
var concerningWords = []string{
	"severe", "intense", "unbearable", "worst", "crushing", "blood",
	"faint", "collapse", "numb", "breathing",
}

// conservativeBase is the total-failure path. Confidence is deliberately
// capped low to signal degraded quality.
func conservativeBase(symptoms string) generativeAssessment {
	level := model.LevelSoon
	lowered := strings.ToLower(symptoms)
	for _, word := range concerningWords {
		if strings.Contains(lowered, word) {
			level = model.LevelUrgent
			break
		}
	}

	return generativeAssessment{
		level:       level,
		confidence:  0.5 * 0.6,
		timeUrgency: defaultTimeUrgency(level),
		reasoning:   "assessment degraded: generative model unavailable, keyword heuristic applied",
		recommendations: []string{
			"have your symptoms reviewed by a clinician",
			"seek immediate care if symptoms worsen",
		},
		degraded: true,
	}
}

// combine applies the monotonic-escalation rule: red flags can only raise the
// generative level, never lower it.
func combine(base generativeAssessment, flags []model.RedFlag, flagLevel model.Level, ageFactors []model.RiskFactor) *model.Assessment {
	finalLevel := model.MaxLevel(base.level, flagLevel)
	override := flagLevel.Ordinal() > base.level.Ordinal()

	confidence := base.confidence
	if override && len(flags) > 0 && confidence < 0.9 {
		confidence = 0.9
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	riskFactors := append([]model.RiskFactor(nil), ageFactors...)
	for _, rf := range base.riskFactors {
		if !containsDescription(riskFactors, rf.Description) {
			riskFactors = append(riskFactors, rf)
		}
	}

	reasoning := base.reasoning
	if override {
		reasoning = strings.TrimSpace(reasoning + fmt.Sprintf(" | escalated to %s by rule-based red flags", finalLevel))
	}

	timeUrgency := base.timeUrgency
	if timeUrgency == "" || override {
		timeUrgency = defaultTimeUrgency(finalLevel)
	}

	recommendations := base.recommendations
	if len(recommendations) == 0 {
		recommendations = defaultRecommendations(finalLevel)
	}

	return &model.Assessment{
		Level:             finalLevel,
		ConfidenceScore:   confidence,
		TimeUrgency:       timeUrgency,
		RiskFactors:       riskFactors,
		RedFlags:          flags,
		Reasoning:         reasoning,
		EmergencyOverride: override,
		Recommendations:   recommendations,
		Degraded:          base.degraded,
	}
}

func containsDescription(factors []model.RiskFactor, description string) bool {
	for _, f := range factors {
		if f.Description == description {
			return true
		}
	}
	return false
}

func defaultTimeUrgency(level model.Level) string {
	switch level {
	case model.LevelEmergency:
		return "immediately"
	case model.LevelUrgent:
		return "within hours"
	case model.LevelSoon:
		return "within a few days"
	default:
		return "at your convenience"
	}
}

func defaultRecommendations(level model.Level) []string {
	switch level {
	case model.LevelEmergency:
		return []string{"call emergency services now", "do not drive yourself"}
	case model.LevelUrgent:
		return []string{"visit urgent care or an emergency department today"}
	case model.LevelSoon:
		return []string{"book an appointment with your doctor this week"}
	default:
		return []string{"monitor your symptoms and book a routine visit if they persist"}
	}
}
