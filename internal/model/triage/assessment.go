package triage

// RiskFactor is a weighted contributor to overall risk, distinct from a red
// flag: it raises concern without naming a specific danger pattern.
type RiskFactor struct {
	FactorType  string  `json:"factorType"`
	Severity    float64 `json:"severity"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

// RedFlag is a detected symptom pattern strongly associated with an urgent or
// emergency category.
type RedFlag struct {
	SymptomPattern string `json:"symptomPattern"`
	Category       string `json:"category"`
	UrgencyLevel   Level  `json:"urgencyLevel"`
	Reasoning      string `json:"reasoning"`
}

// Assessment is the combined triage decision. It is created once per session
// finalize and immutable thereafter.
type Assessment struct {
	Level             Level        `json:"level"`
	ConfidenceScore   float64      `json:"confidenceScore"`
	TimeUrgency       string       `json:"timeUrgency"`
	RiskFactors       []RiskFactor `json:"riskFactors,omitempty"`
	RedFlags          []RedFlag    `json:"redFlags,omitempty"`
	Reasoning         string       `json:"reasoning"`
	EmergencyOverride bool         `json:"emergencyOverride"`
	Recommendations   []string     `json:"recommendations,omitempty"`
	Degraded          bool         `json:"degraded,omitempty"`
}

// ScreenResult is the outcome of the quick emergency screen.
type ScreenResult struct {
	EmergencyDetected bool     `json:"emergencyDetected"`
	Confidence        float64  `json:"confidence"`
	MatchedKeywords   []string `json:"matchedKeywords,omitempty"`
	Note              string   `json:"note,omitempty"`
}
