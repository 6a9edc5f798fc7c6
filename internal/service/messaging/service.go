package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	"github.com/hzhao-dev/triagecare/backend/internal/service/ai"
)

// Service turns a finalized assessment plus candidate conditions into
// persuasive, risk-calibrated messaging. Model-first; deterministic templates
// produce an equally complete report when generation fails.
type Service struct {
	gen ai.Generator
}

// NewService accepts a nil generator for deterministic-only operation.
func NewService(gen ai.Generator) *Service {
	return &Service{gen: gen}
}

// riskBucket collapses the four triage levels into three tones; soon folds
// into the routine tone.
func riskBucket(level model.Level) string {
	switch level {
	case model.LevelEmergency:
		return "emergency"
	case model.LevelUrgent:
		return "urgent"
	default:
		return "routine"
	}
}

// Build produces the complete report. Never returns a partial object.
func (s *Service) Build(ctx context.Context, assessment *model.Assessment, conditions []string) *model.Report {
	bucket := riskBucket(assessment.Level)

	var message model.ConsequenceMessage
	var progression model.RiskProgression
	if s.gen == nil {
		message, progression = fromTemplates(bucket, assessment, conditions)
	} else {
		type generated struct {
			message     model.ConsequenceMessage
			progression model.RiskProgression
		}
		result := ai.Attempt("messaging",
			func() (generated, error) {
				m, p, err := s.generate(ctx, bucket, assessment, conditions)
				return generated{message: m, progression: p}, err
			},
			func() generated {
				m, p := fromTemplates(bucket, assessment, conditions)
				return generated{message: m, progression: p}
			},
		)
		message, progression = result.message, result.progression
	}

	return &model.Report{
		CandidateConditions: conditions,
		Message:             message,
		Progression:         progression,
		Metrics:             computeMetrics(assessment, bucket),
	}
}

// messagePayload is the loosely-typed JSON requested from the model.
type messagePayload struct {
	PrimaryWarning   string   `json:"primary_warning"`
	Timeframe        string   `json:"timeframe"`
	EscalationRisks  []string `json:"escalation_risks"`
	OpportunityCost  string   `json:"opportunity_cost"`
	SocialProof      string   `json:"social_proof"`
	RegretPrevention string   `json:"regret_prevention"`
	ActionBenefit    string   `json:"action_benefit"`
	ImmediateRisk    string   `json:"immediate_risk"`
	ShortTermRisk    string   `json:"short_term_risk"`
	LongTermRisk     string   `json:"long_term_risk"`
	PreventionWindow string   `json:"prevention_window"`
}

func (s *Service) generate(ctx context.Context, bucket string, assessment *model.Assessment, conditions []string) (model.ConsequenceMessage, model.RiskProgression, error) {
	raw, err := s.gen.Generate(ctx, messagingSystemPrompt, buildMessagingQuery(bucket, assessment, conditions))
	if err != nil {
		return model.ConsequenceMessage{}, model.RiskProgression{}, err
	}

	jsonText, err := ai.ExtractJSON(raw)
	if err != nil {
		return model.ConsequenceMessage{}, model.RiskProgression{}, err
	}

	var payload messagePayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return model.ConsequenceMessage{}, model.RiskProgression{}, fmt.Errorf("malformed messaging json: %w", err)
	}

	// Missing fields come from the templates so the caller always receives a
	// complete object.
	tmplMsg, tmplProg := fromTemplates(bucket, assessment, conditions)

	message := model.ConsequenceMessage{
		PrimaryWarning:   orDefault(payload.PrimaryWarning, tmplMsg.PrimaryWarning),
		Timeframe:        orDefault(payload.Timeframe, tmplMsg.Timeframe),
		EscalationRisks:  payload.EscalationRisks,
		OpportunityCost:  orDefault(payload.OpportunityCost, tmplMsg.OpportunityCost),
		SocialProof:      orDefault(payload.SocialProof, tmplMsg.SocialProof),
		RegretPrevention: orDefault(payload.RegretPrevention, tmplMsg.RegretPrevention),
		ActionBenefit:    orDefault(payload.ActionBenefit, tmplMsg.ActionBenefit),
	}
	if len(message.EscalationRisks) == 0 {
		message.EscalationRisks = tmplMsg.EscalationRisks
	}

	progression := model.RiskProgression{
		Immediate:        orDefault(payload.ImmediateRisk, tmplProg.Immediate),
		ShortTerm:        orDefault(payload.ShortTermRisk, tmplProg.ShortTerm),
		LongTerm:         orDefault(payload.LongTermRisk, tmplProg.LongTerm),
		PreventionWindow: orDefault(payload.PreventionWindow, tmplProg.PreventionWindow),
	}

	return message, progression, nil
}

// computeMetrics derives the persuasion calibration from the assessment
// itself; the model has no say here.
func computeMetrics(assessment *model.Assessment, bucket string) model.PersuasionMetrics {
	urgencyScore := assessment.ConfidenceScore * float64(assessment.Level.Ordinal()) / 4.0

	fear := "low"
	switch {
	case urgencyScore > 0.8:
		fear = "high"
	case urgencyScore > 0.6:
		fear = "medium"
	}

	return model.PersuasionMetrics{
		UrgencyScore:       urgencyScore,
		FearAppealStrength: fear,
		MessageType:        bucket + "_care_persuasion",
		ExpectedConversion: 0.35 + 0.5*urgencyScore,
	}
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
