package question

import "github.com/hzhao-dev/triagecare/backend/internal/analysis/symptom"

type tableEntry struct {
	text    string
	options []string
}

var scaleOptions = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

// fallbackQuestions holds the deterministic five-question sequence for every
// category. Slot order is fixed: location (single choice), onset (text),
// associated symptoms (multiple choice), severity (scale), history (text).
var fallbackQuestions = map[symptom.Category][5]tableEntry{
	symptom.ChestPain: {
		{text: "Where exactly do you feel the chest pain?", options: []string{"Center of chest", "Left side", "Right side", "Spreading to arm or jaw"}},
		{text: "When did the chest pain start, and has it been constant or coming and going?"},
		{text: "Which of these do you also have right now?", options: []string{"Shortness of breath", "Sweating", "Nausea", "Dizziness", "None of these"}},
		{text: "On a scale of 1 to 10, how severe is the pain right now?", options: scaleOptions},
		{text: "Do you have any history of heart problems, high blood pressure, or similar episodes before?"},
	},
	symptom.Headache: {
		{text: "Where is the headache located?", options: []string{"Whole head", "One side", "Forehead", "Back of head or neck"}},
		{text: "When did the headache begin, and did it come on gradually or suddenly?"},
		{text: "Which of these do you also have?", options: []string{"Nausea or vomiting", "Vision changes", "Light sensitivity", "Fever", "None of these"}},
		{text: "On a scale of 1 to 10, how intense is the headache?", options: scaleOptions},
		{text: "Do you get headaches often, and is this one different from your usual ones?"},
	},
	symptom.AbdominalPain: {
		{text: "Where in your abdomen is the pain strongest?", options: []string{"Upper abdomen", "Lower right", "Lower left", "All over"}},
		{text: "When did the pain start, and has it moved or changed since then?"},
		{text: "Which of these have you noticed?", options: []string{"Vomiting", "Diarrhea", "Fever", "Blood in stool", "None of these"}},
		{text: "On a scale of 1 to 10, how bad is the pain?", options: scaleOptions},
		{text: "Have you had recent changes in appetite, weight, or any abdominal surgery in the past?"},
	},
	symptom.Fever: {
		{text: "How would you describe your temperature?", options: []string{"Mild (under 38°C)", "Moderate (38-39°C)", "High (over 39°C)", "Not measured"}},
		{text: "When did the fever start, and has it responded to any medication?"},
		{text: "Which of these do you also have?", options: []string{"Rash", "Stiff neck", "Severe sore throat", "Trouble breathing", "None of these"}},
		{text: "On a scale of 1 to 10, how unwell do you feel overall?", options: scaleOptions},
		{text: "Have you traveled recently, been around sick people, or do you have a condition that weakens your immune system?"},
	},
	// Uncategorized symptoms borrow the chest-pain structure: the most
	// conservative sequence, so a vague complaint is never under-probed.
	symptom.Default: {
		{text: "Where is your main discomfort located?", options: []string{"Chest", "Head", "Abdomen", "Somewhere else"}},
		{text: "When did this start, and has it been getting better or worse?"},
		{text: "Which of these do you also have right now?", options: []string{"Shortness of breath", "Dizziness", "Nausea", "Sweating", "None of these"}},
		{text: "On a scale of 1 to 10, how severe does it feel?", options: scaleOptions},
		{text: "Do you have any ongoing medical conditions or has anything like this happened before?"},
	},
}
