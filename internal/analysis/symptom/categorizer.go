package symptom

import "strings"

// Category labels the coarse symptom family used to pick question structure
// and candidate conditions.
type Category string

const (
	ChestPain     Category = "chest_pain"
	Headache      Category = "headache"
	AbdominalPain Category = "abdominal_pain"
	Fever         Category = "fever"
	Default       Category = "default"
)

// categoryPriority fixes the evaluation order; the first category with a
// keyword hit wins.
var categoryPriority = []Category{ChestPain, Headache, AbdominalPain, Fever}

var keywordBuckets = map[Category][]string{
	ChestPain: {
		"chest pain", "chest tightness", "chest pressure", "heart", "palpitation",
		"tight chest", "pain in my chest", "crushing", "angina", "sternum",
	},
	Headache: {
		"headache", "head ache", "migraine", "head pain", "head hurts",
		"pressure in my head", "temple", "skull",
	},
	AbdominalPain: {
		"stomach", "abdominal", "abdomen", "belly", "tummy", "cramp",
		"gut", "nausea", "vomit", "diarrhea",
	},
	Fever: {
		"fever", "temperature", "chills", "hot and cold", "sweating", "feverish",
		"burning up",
	},
}

// Categorize maps free-text symptoms to a category. Pure function with no
// failure mode: text matching nothing returns Default, which downstream
// reuses the chest-pain question structure as the conservative choice.
func Categorize(text string) Category {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Default
	}

	for _, category := range categoryPriority {
		for _, keyword := range keywordBuckets[category] {
			if strings.Contains(normalized, keyword) {
				return category
			}
		}
	}
	return Default
}

// CandidateConditions lists the named conditions the messaging layer may
// reference for a category. Default shares the chest-pain list.
func CandidateConditions(c Category) []string {
	conditions := map[Category][]string{
		ChestPain:     {"acute coronary syndrome", "angina", "pulmonary embolism", "costochondritis"},
		Headache:      {"tension headache", "migraine", "cluster headache", "intracranial hypertension"},
		AbdominalPain: {"appendicitis", "gastritis", "gallstones", "bowel obstruction"},
		Fever:         {"viral infection", "bacterial infection", "sepsis", "influenza"},
	}
	if list, ok := conditions[c]; ok {
		return append([]string(nil), list...)
	}
	return append([]string(nil), conditions[ChestPain]...)
}
