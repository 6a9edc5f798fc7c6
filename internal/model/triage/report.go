package triage

// ConsequenceMessage is the persuasive, risk-calibrated messaging shown to
// the patient after finalize. Derived view: always regenerable from the
// assessment plus the candidate-condition list, never a source of truth.
type ConsequenceMessage struct {
	PrimaryWarning   string   `json:"primaryWarning"`
	Timeframe        string   `json:"timeframe"`
	EscalationRisks  []string `json:"escalationRisks,omitempty"`
	OpportunityCost  string   `json:"opportunityCost"`
	SocialProof      string   `json:"socialProof"`
	RegretPrevention string   `json:"regretPrevention"`
	ActionBenefit    string   `json:"actionBenefit"`
}

// RiskProgression describes how risk evolves if the patient delays care.
type RiskProgression struct {
	Immediate        string `json:"immediate"`
	ShortTerm        string `json:"shortTerm"`
	LongTerm         string `json:"longTerm"`
	PreventionWindow string `json:"preventionWindow"`
}

// PersuasionMetrics quantifies how the messaging was calibrated.
type PersuasionMetrics struct {
	UrgencyScore       float64 `json:"urgencyScore"`
	FearAppealStrength string  `json:"fearAppealStrength"`
	MessageType        string  `json:"messageType"`
	ExpectedConversion float64 `json:"expectedConversion"`
}

// Report bundles the derived messaging views stored alongside the assessment
// when a session finalizes.
type Report struct {
	CandidateConditions []string           `json:"candidateConditions,omitempty"`
	Message             ConsequenceMessage `json:"message"`
	Progression         RiskProgression    `json:"progression"`
	Metrics             PersuasionMetrics  `json:"metrics"`
}
