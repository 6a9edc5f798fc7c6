package triage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hzhao-dev/triagecare/backend/internal/model/patient"
	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
	"github.com/hzhao-dev/triagecare/backend/internal/service/triage"
)

type fakeGen struct {
	response string
	err      error
}

func (f *fakeGen) Generate(_ context.Context, _, _ string) (string, error) {
	return f.response, f.err
}

func TestAssessRedFlagOverridesRoutineModel(t *testing.T) {
	// The model tries to downplay a textbook cardiac presentation.
	gen := &fakeGen{response: `{"triage_level":"routine","confidence_score":0.8,"reasoning":"probably muscular"}`}
	engine := triage.NewEngine(gen)

	a := engine.Assess(context.Background(), "crushing chest pain radiating to my left arm", nil, patient.Profile{Age: 58})

	if a.Level != model.LevelEmergency {
		t.Fatalf("level = %s, want emergency", a.Level)
	}
	if !a.EmergencyOverride {
		t.Fatal("red flags above the model level must set EmergencyOverride")
	}
	if a.ConfidenceScore < 0.9 {
		t.Fatalf("override confidence = %.2f, want >= 0.9", a.ConfidenceScore)
	}
	if len(a.RedFlags) == 0 {
		t.Fatal("expected cardiovascular red flags")
	}
}

func TestAssessAgreementIsNotOverride(t *testing.T) {
	gen := &fakeGen{response: `{"triage_level":"emergency","confidence_score":0.85}`}
	engine := triage.NewEngine(gen)

	a := engine.Assess(context.Background(), "crushing chest pain and shortness of breath", nil, patient.Profile{Age: 60})

	if a.Level != model.LevelEmergency {
		t.Fatalf("level = %s, want emergency", a.Level)
	}
	// Flags match but do not exceed the model level, so this is agreement.
	if a.EmergencyOverride {
		t.Fatal("override must only fire when flags strictly exceed the model level")
	}
	if a.ConfidenceScore != 0.85 {
		t.Fatalf("confidence = %.2f, want the model's 0.85", a.ConfidenceScore)
	}
}

func TestAssessMildCaseStaysAtModelLevel(t *testing.T) {
	gen := &fakeGen{response: `{"triage_level":"soon","confidence_score":0.7,"time_urgency":"within a few days"}`}
	engine := triage.NewEngine(gen)

	a := engine.Assess(context.Background(), "mild headache for 2 days", nil, patient.Profile{Age: 25})

	if a.Level != model.LevelSoon {
		t.Fatalf("level = %s, want soon", a.Level)
	}
	if a.EmergencyOverride {
		t.Fatal("no red flags, no override")
	}
	if len(a.RiskFactors) != 0 {
		t.Fatalf("age 25 headache must not add risk factors, got %+v", a.RiskFactors)
	}
	if a.Degraded {
		t.Fatal("successful generation must not be marked degraded")
	}
}

func TestAssessGeneratorFailureDegrades(t *testing.T) {
	engine := triage.NewEngine(&fakeGen{err: errors.New("provider down")})

	a := engine.Assess(context.Background(), "stomach ache after dinner", nil, patient.Profile{Age: 30})

	if !a.Degraded {
		t.Fatal("fallback assessment must be marked degraded")
	}
	if a.Level != model.LevelSoon {
		t.Fatalf("calm symptoms fall back to soon, got %s", a.Level)
	}
	if a.ConfidenceScore != 0.3 {
		t.Fatalf("fallback confidence = %.2f, want 0.30", a.ConfidenceScore)
	}
}

func TestAssessFallbackKeywordEscalatesToUrgent(t *testing.T) {
	engine := triage.NewEngine(nil)

	a := engine.Assess(context.Background(), "unbearable back spasms since yesterday", nil, patient.Profile{Age: 40})

	if a.Level != model.LevelUrgent {
		t.Fatalf("concerning wording must raise the fallback base to urgent, got %s", a.Level)
	}
	if !a.Degraded {
		t.Fatal("nil generator always yields a degraded assessment")
	}
}

func TestAssessMalformedModelOutputStillCombines(t *testing.T) {
	// Garbage output degrades the base, but red flags still escalate on top.
	engine := triage.NewEngine(&fakeGen{response: "I think you should see a doctor."})

	a := engine.Assess(context.Background(), "sudden worst headache of my life", nil, patient.Profile{Age: 35})

	if a.Level != model.LevelEmergency {
		t.Fatalf("neurological red flag must force emergency, got %s", a.Level)
	}
	if !a.EmergencyOverride {
		t.Fatal("expected override on top of the degraded base")
	}
	if a.ConfidenceScore < 0.9 {
		t.Fatalf("override floor must apply even to degraded bases, got %.2f", a.ConfidenceScore)
	}
}

func TestAssessConfidenceAlwaysInRange(t *testing.T) {
	responses := []string{
		`{"triage_level":"routine","confidence_score":17}`,
		`{"triage_level":"urgent","confidence_score":-3}`,
		`{"triage_level":"nonsense","confidence_score":0}`,
	}
	for _, resp := range responses {
		engine := triage.NewEngine(&fakeGen{response: resp})
		a := engine.Assess(context.Background(), "mild cough", nil, patient.Profile{Age: 20})
		if a.ConfidenceScore < 0 || a.ConfidenceScore > 1 {
			t.Fatalf("response %q: confidence %.2f out of [0,1]", resp, a.ConfidenceScore)
		}
	}
}

func TestAssessUnknownLevelDefaultsToSoon(t *testing.T) {
	engine := triage.NewEngine(&fakeGen{response: `{"triage_level":"critical","confidence_score":0.9}`})

	a := engine.Assess(context.Background(), "itchy rash on my arm", nil, patient.Profile{Age: 28})

	if a.Level != model.LevelSoon {
		t.Fatalf("unparseable level defaults to soon, got %s", a.Level)
	}
}

func TestAssessAgeRiskFactorIncluded(t *testing.T) {
	gen := &fakeGen{response: `{"triage_level":"urgent","confidence_score":0.75,"risk_factors":["smoker"]}`}
	engine := triage.NewEngine(gen)

	a := engine.Assess(context.Background(), "chest tightness when climbing stairs", nil, patient.Profile{Age: 70})

	var haveAge, haveModel bool
	for _, rf := range a.RiskFactors {
		switch rf.FactorType {
		case "age":
			haveAge = true
		case "model":
			haveModel = true
		}
	}
	if !haveAge {
		t.Fatalf("age 70 chest pain must contribute an age risk factor, got %+v", a.RiskFactors)
	}
	if !haveModel {
		t.Fatalf("model risk factors must be merged in, got %+v", a.RiskFactors)
	}
}
