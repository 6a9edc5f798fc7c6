package question

import (
	"fmt"
	"strings"

	"github.com/hzhao-dev/triagecare/backend/internal/analysis/symptom"
	"github.com/hzhao-dev/triagecare/backend/internal/model/patient"
	"github.com/hzhao-dev/triagecare/backend/internal/model/triage"
)

const questionSystemPrompt = "You are a clinical intake assistant composing ONE follow-up question for a patient. " +
	"Return only a JSON object with fields: question (string), question_type (string), options (array of strings; required for choice questions, at least 2 entries, omit otherwise). " +
	"No extra text outside the JSON."

var positionFocus = map[int]string{
	1: "the primary location or characteristic of the symptom (single choice)",
	2: "onset and duration (free text)",
	3: "quality and associated symptoms (multiple choice)",
	4: "severity on a 1-10 scale",
	5: "relevant history and risk factors (free text)",
}

func buildQuestionQuery(category symptom.Category, position int, requiredType triage.QuestionType, answers []triage.QuestionAnswer, profile patient.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symptom category: %s\n", category)
	fmt.Fprintf(&b, "Patient age: %d\n", profile.Age)
	if len(profile.KnownConditions) > 0 {
		fmt.Fprintf(&b, "Known conditions: %s\n", strings.Join(profile.KnownConditions, ", "))
	}
	fmt.Fprintf(&b, "Question position: %d of 5, focused on %s\n", position, positionFocus[position])
	fmt.Fprintf(&b, "Required question_type: %s\n", requiredType)

	if len(answers) > 0 {
		b.WriteString("Answers so far:\n")
		for _, a := range answers {
			fmt.Fprintf(&b, "- Q%d %q -> %q\n", a.Position, a.QuestionText, a.AnswerValue)
		}
	}

	b.WriteString("Compose the next question as JSON.")
	return b.String()
}
