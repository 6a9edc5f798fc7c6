package messaging_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	"github.com/hzhao-dev/triagecare/backend/internal/service/messaging"
)

type fakeGen struct {
	response string
	err      error
}

func (f *fakeGen) Generate(_ context.Context, _, _ string) (string, error) {
	return f.response, f.err
}

func assessment(level model.Level, confidence float64) *model.Assessment {
	return &model.Assessment{
		Level:           level,
		ConfidenceScore: confidence,
		TimeUrgency:     "within hours",
		Reasoning:       "test assessment",
	}
}

func requireComplete(t *testing.T, report *model.Report) {
	t.Helper()
	msg := report.Message
	if msg.PrimaryWarning == "" || msg.Timeframe == "" || msg.OpportunityCost == "" ||
		msg.SocialProof == "" || msg.RegretPrevention == "" || msg.ActionBenefit == "" {
		t.Fatalf("incomplete consequence message: %+v", msg)
	}
	if len(msg.EscalationRisks) == 0 {
		t.Fatal("escalation risks must not be empty")
	}
	prog := report.Progression
	if prog.Immediate == "" || prog.ShortTerm == "" || prog.LongTerm == "" || prog.PreventionWindow == "" {
		t.Fatalf("incomplete risk progression: %+v", prog)
	}
}

func TestBuildTemplateReportIsComplete(t *testing.T) {
	svc := messaging.NewService(nil)

	for _, level := range []model.Level{model.LevelRoutine, model.LevelSoon, model.LevelUrgent, model.LevelEmergency} {
		report := svc.Build(context.Background(), assessment(level, 0.8), []string{"angina"})
		requireComplete(t, report)
	}
}

func TestBuildFallbackOnGeneratorError(t *testing.T) {
	svc := messaging.NewService(&fakeGen{err: errors.New("provider down")})

	report := svc.Build(context.Background(), assessment(model.LevelUrgent, 0.75), []string{"appendicitis", "gastritis"})
	requireComplete(t, report)
	if !strings.Contains(report.Message.PrimaryWarning, "appendicitis") {
		t.Fatalf("template warning should reference candidate conditions: %q", report.Message.PrimaryWarning)
	}
}

func TestBuildFillsMissingGeneratedFields(t *testing.T) {
	// The model returns only a warning; everything else comes from templates.
	svc := messaging.NewService(&fakeGen{response: `{"primary_warning":"See a doctor today."}`})

	report := svc.Build(context.Background(), assessment(model.LevelUrgent, 0.7), nil)
	requireComplete(t, report)
	if report.Message.PrimaryWarning != "See a doctor today." {
		t.Fatalf("generated warning dropped: %q", report.Message.PrimaryWarning)
	}
}

func TestSoonFoldsIntoRoutineTone(t *testing.T) {
	svc := messaging.NewService(nil)

	report := svc.Build(context.Background(), assessment(model.LevelSoon, 0.7), nil)
	if report.Metrics.MessageType != "routine_care_persuasion" {
		t.Fatalf("message type = %s, want routine_care_persuasion", report.Metrics.MessageType)
	}
}

func TestMetricsDerivation(t *testing.T) {
	svc := messaging.NewService(nil)

	// emergency at 0.9 confidence: urgency = 0.9 * 4/4 = 0.9 -> high fear.
	report := svc.Build(context.Background(), assessment(model.LevelEmergency, 0.9), nil)
	m := report.Metrics
	if math.Abs(m.UrgencyScore-0.9) > 1e-9 {
		t.Fatalf("urgency score = %.3f, want 0.9", m.UrgencyScore)
	}
	if m.FearAppealStrength != "high" {
		t.Fatalf("fear appeal = %s, want high", m.FearAppealStrength)
	}
	if m.MessageType != "emergency_care_persuasion" {
		t.Fatalf("message type = %s", m.MessageType)
	}
	if math.Abs(m.ExpectedConversion-(0.35+0.5*0.9)) > 1e-9 {
		t.Fatalf("expected conversion = %.3f", m.ExpectedConversion)
	}

	// routine at 0.8 confidence: urgency = 0.8 * 1/4 = 0.2 -> low fear.
	report = svc.Build(context.Background(), assessment(model.LevelRoutine, 0.8), nil)
	if report.Metrics.FearAppealStrength != "low" {
		t.Fatalf("fear appeal = %s, want low", report.Metrics.FearAppealStrength)
	}

	// urgent at 0.95 confidence: urgency = 0.7125 -> medium fear.
	report = svc.Build(context.Background(), assessment(model.LevelUrgent, 0.95), nil)
	if report.Metrics.FearAppealStrength != "medium" {
		t.Fatalf("fear appeal = %s, want medium", report.Metrics.FearAppealStrength)
	}
}

func TestCandidateConditionsCapAtFour(t *testing.T) {
	svc := messaging.NewService(nil)
	conditions := []string{"one", "two", "three", "four", "five"}

	report := svc.Build(context.Background(), assessment(model.LevelUrgent, 0.7), conditions)
	if strings.Contains(report.Message.PrimaryWarning, "five") {
		t.Fatalf("template must reference at most four conditions: %q", report.Message.PrimaryWarning)
	}
	if !strings.Contains(report.Message.PrimaryWarning, "four") {
		t.Fatalf("first four conditions expected in warning: %q", report.Message.PrimaryWarning)
	}
}
