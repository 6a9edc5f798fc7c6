package triage

import (
	"fmt"
	"strings"

	"github.com/hzhao-dev/triagecare/backend/internal/model/patient"
	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
)

const assessmentSystemPrompt = "You are a medical triage assistant. Assess the urgency of the patient's situation. " +
	"Return only a JSON object with fields: triage_level (one of routine/soon/urgent/emergency), confidence_score (0-1), " +
	"time_urgency (short human phrase), reasoning (string), risk_factors (array of strings), recommendations (array of strings), " +
	"red_flags (array of strings). No text outside the JSON."

func buildAssessmentQuery(symptoms string, answers []model.QuestionAnswer, profile patient.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Initial symptoms: %s\n", symptoms)
	fmt.Fprintf(&b, "Patient age: %d\n", profile.Age)
	if profile.Gender != "" {
		fmt.Fprintf(&b, "Gender: %s\n", profile.Gender)
	}
	if len(profile.KnownConditions) > 0 {
		fmt.Fprintf(&b, "Known conditions: %s\n", strings.Join(profile.KnownConditions, ", "))
	}

	if len(answers) > 0 {
		b.WriteString("Structured interview:\n")
		for _, a := range answers {
			fmt.Fprintf(&b, "- %s -> %s\n", a.QuestionText, a.AnswerValue)
		}
	}

	b.WriteString("Assess and respond as JSON.")
	return b.String()
}
