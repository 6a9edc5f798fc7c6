package redflag

import (
	"strings"

	"github.com/hzhao-dev/triagecare/backend/internal/model/triage"
)

// quickKeywords is the direct-hit set for the low-latency screen. These are
// the same concerns as dangerPatterns; the screen just skips fuzzy matching.
var quickKeywords = []string{
	"crushing chest pain",
	"cannot speak",
	"can't speak",
	"blue lips",
	"not breathing",
	"difficulty breathing",
	"unconscious",
	"unresponsive",
	"severe bleeding",
	"seizure",
	"stroke",
	"overdose",
}

var infantKeywords = []string{"fever", "breathing", "crying"}

// QuickScreen runs the fast emergency pre-check. age < 0 means unknown and
// disables the age rules. Fail-safe: any internal panic yields an emergency
// result with low confidence rather than an error.
func QuickScreen(symptoms string, age int) (result triage.ScreenResult) {
	defer func() {
		if r := recover(); r != nil {
			result = triage.ScreenResult{
				EmergencyDetected: true,
				Confidence:        0.2,
				Note:              "screening error; seek in-person evaluation",
			}
		}
	}()

	normalized := strings.ToLower(symptoms)

	var matched []string
	for _, keyword := range quickKeywords {
		if strings.Contains(normalized, keyword) {
			matched = append(matched, keyword)
		}
	}

	if age >= 0 && age < 2 {
		for _, keyword := range infantKeywords {
			if strings.Contains(normalized, keyword) {
				matched = append(matched, "infant:"+keyword)
			}
		}
	}
	if age > 75 && strings.Contains(normalized, "chest pain") {
		matched = append(matched, "elderly:chest pain")
	}

	if len(matched) == 0 {
		return triage.ScreenResult{EmergencyDetected: false, Confidence: 0.8}
	}

	confidence := 0.7 + 0.1*float64(len(matched))
	if confidence > 0.95 {
		confidence = 0.95
	}

	return triage.ScreenResult{
		EmergencyDetected: true,
		Confidence:        confidence,
		MatchedKeywords:   matched,
		Note:              "emergency indicators present; call emergency services if symptoms are active",
	}
}
