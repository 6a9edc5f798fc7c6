package triage

// QuestionType constrains how a question is answered. Each slot in the
// structured sequence is bound to exactly one type.
type QuestionType string

const (
	TypeSingleChoice   QuestionType = "single_choice"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeText           QuestionType = "text"
	TypeScale          QuestionType = "scale"
	TypeYesNo          QuestionType = "yes_no"
)

// Question is one structured prompt in the 1..5 intake sequence.
type Question struct {
	ID       string       `json:"id"`
	Position int          `json:"position"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
}

// QuestionAnswer records an answered question. Answers are append-only
// children of a session and their position ordering is load-bearing: it
// decides which structured slot comes next.
type QuestionAnswer struct {
	QuestionID       string       `json:"questionId"`
	Position         int          `json:"position"`
	QuestionText     string       `json:"questionText"`
	QuestionType     QuestionType `json:"questionType"`
	Options          []string     `json:"options,omitempty"`
	AnswerValue      string       `json:"answerValue"`
	ConfidenceBefore float64      `json:"confidenceBefore"`
	ConfidenceAfter  float64      `json:"confidenceAfter"`
}
