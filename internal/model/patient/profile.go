package patient

// Profile is an immutable snapshot of the patient taken when a session is
// created. The engine never looks the patient up on its own; the caller
// supplies this by value.
type Profile struct {
	Age             int      `json:"age"`
	Gender          string   `json:"gender,omitempty"`
	KnownConditions []string `json:"knownConditions,omitempty"`
}
