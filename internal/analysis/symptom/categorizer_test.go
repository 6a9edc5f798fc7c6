package symptom_test

import (
	"testing"

	"github.com/hzhao-dev/triagecare/backend/internal/analysis/symptom"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		text string
		want symptom.Category
	}{
		{"crushing chest pain radiating to my left arm", symptom.ChestPain},
		{"I have a pounding headache since yesterday", symptom.Headache},
		{"sharp pain in my belly after eating", symptom.AbdominalPain},
		{"running a fever and chills all night", symptom.Fever},
		{"my knee feels weird", symptom.Default},
		{"", symptom.Default},
	}

	for _, tc := range cases {
		if got := symptom.Categorize(tc.text); got != tc.want {
			t.Fatalf("Categorize(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestCategorizePriorityOrder(t *testing.T) {
	// Chest pain outranks fever when both match.
	if got := symptom.Categorize("fever and chest pain"); got != symptom.ChestPain {
		t.Fatalf("expected chest_pain to win priority, got %s", got)
	}
}

func TestCandidateConditionsDefaultSharesChestPain(t *testing.T) {
	def := symptom.CandidateConditions(symptom.Default)
	chest := symptom.CandidateConditions(symptom.ChestPain)

	if len(def) == 0 || len(def) != len(chest) {
		t.Fatalf("default conditions should mirror chest_pain: %v vs %v", def, chest)
	}
	for i := range def {
		if def[i] != chest[i] {
			t.Fatalf("default conditions diverge at %d: %s vs %s", i, def[i], chest[i])
		}
	}
}
