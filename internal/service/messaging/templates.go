package messaging

import (
	"fmt"
	"strings"

	model "github.com/hzhao-dev/triagecare/backend/internal/model/triage"
)

const messagingSystemPrompt = "You write motivating, truthful health messaging encouraging a patient to seek care at the right urgency. " +
	"Return only a JSON object with fields: primary_warning, timeframe, escalation_risks (array of strings), opportunity_cost, " +
	"social_proof, regret_prevention, action_benefit, immediate_risk, short_term_risk, long_term_risk, prevention_window. " +
	"Never exaggerate beyond the stated urgency. No text outside the JSON."

func buildMessagingQuery(bucket string, assessment *model.Assessment, conditions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Urgency bucket: %s (triage level %s, confidence %.2f)\n", bucket, assessment.Level, assessment.ConfidenceScore)
	fmt.Fprintf(&b, "Recommended timing: %s\n", assessment.TimeUrgency)
	if len(conditions) > 0 {
		fmt.Fprintf(&b, "Candidate conditions to reference (at most 4): %s\n", strings.Join(conditions, ", "))
	}
	if assessment.Reasoning != "" {
		fmt.Fprintf(&b, "Assessment reasoning: %s\n", assessment.Reasoning)
	}
	b.WriteString("Compose the messaging as JSON.")
	return b.String()
}

// conditionPhrase names up to four candidate conditions for substitution into
// the deterministic templates.
func conditionPhrase(conditions []string) string {
	if len(conditions) == 0 {
		return "a condition that needs medical review"
	}
	if len(conditions) > 4 {
		conditions = conditions[:4]
	}
	if len(conditions) == 1 {
		return conditions[0]
	}
	return strings.Join(conditions[:len(conditions)-1], ", ") + " or " + conditions[len(conditions)-1]
}

// fromTemplates renders the deterministic per-bucket messaging. Always
// complete; this is the floor the generative path falls back to.
func fromTemplates(bucket string, assessment *model.Assessment, conditions []string) (model.ConsequenceMessage, model.RiskProgression) {
	phrase := conditionPhrase(conditions)

	switch bucket {
	case "emergency":
		return model.ConsequenceMessage{
				PrimaryWarning:   fmt.Sprintf("Your symptoms match patterns seen with %s. This needs emergency evaluation now.", phrase),
				Timeframe:        "immediately",
				EscalationRisks:  []string{"permanent damage from delayed treatment", "rapid deterioration without monitoring"},
				OpportunityCost:  "Every hour of delay narrows the treatment options available to you.",
				SocialProof:      "People with these symptoms who sought emergency care quickly had significantly better outcomes.",
				RegretPrevention: "Being checked and cleared is never a mistake; missing an emergency can be.",
				ActionBenefit:    "Emergency teams can rule out the dangerous causes within hours.",
			}, model.RiskProgression{
				Immediate:        "risk of rapid deterioration in the next hours",
				ShortTerm:        "complications that become harder to treat within days",
				LongTerm:         "lasting damage if the underlying cause goes untreated",
				PreventionWindow: "the next few hours",
			}
	case "urgent":
		return model.ConsequenceMessage{
				PrimaryWarning:   fmt.Sprintf("Your answers suggest %s may be involved. A clinician should see you today.", phrase),
				Timeframe:        "within hours, today",
				EscalationRisks:  []string{"progression to an emergency", "longer recovery from delayed treatment"},
				OpportunityCost:  "Problems caught today are usually simpler and cheaper to treat than next week.",
				SocialProof:      "Most patients with similar symptoms who were seen the same day avoided hospital admission.",
				RegretPrevention: "A same-day visit takes an hour; an avoidable complication can take months.",
				ActionBenefit:    "Urgent care can start treatment today and stop this from getting worse.",
			}, model.RiskProgression{
				Immediate:        "discomfort likely to persist or intensify today",
				ShortTerm:        "meaningful risk of worsening over the coming days",
				LongTerm:         "possible chronic issues if the cause is left untreated",
				PreventionWindow: "the next 24 hours",
			}
	default:
		return model.ConsequenceMessage{
				PrimaryWarning:   fmt.Sprintf("Your symptoms could relate to %s. A routine visit will give you clarity.", phrase),
				Timeframe:        "within the next few days",
				EscalationRisks:  []string{"a treatable cause quietly progressing", "unnecessary worry from not knowing"},
				OpportunityCost:  "An early appointment is short; untangling a neglected condition later is not.",
				SocialProof:      "Patients who follow up on persistent symptoms early report faster recoveries.",
				RegretPrevention: "Booking now means you will not look back wishing you had acted sooner.",
				ActionBenefit:    "A quick check-up can confirm it is minor and give you a plan.",
			}, model.RiskProgression{
				Immediate:        "no immediate danger expected",
				ShortTerm:        "symptoms may linger without a diagnosis",
				LongTerm:         "small risk of a treatable condition progressing unnoticed",
				PreventionWindow: "the coming week",
			}
	}
}
