package redflag

import (
	"fmt"
	"strings"

	"github.com/hzhao-dev/triagecare/backend/internal/model/triage"
)

// PatternCategory names one of the fixed danger-pattern families.
type PatternCategory string

const (
	Cardiovascular   PatternCategory = "cardiovascular"
	Neurological     PatternCategory = "neurological"
	Respiratory      PatternCategory = "respiratory"
	Gastrointestinal PatternCategory = "gastrointestinal"
	Trauma           PatternCategory = "trauma"
)

// matchThreshold is the share of a pattern's words that must appear in the
// text for the pattern to fire.
const matchThreshold = 0.6

// dangerPatterns is the single pattern table shared by the full red-flag scan
// and the quick emergency screen.
var dangerPatterns = map[PatternCategory][]string{
	Cardiovascular: {
		"crushing chest pain",
		"chest pain radiating arm",
		"chest pain left arm",
		"chest pressure shortness breath",
		"irregular heartbeat fainting",
	},
	Neurological: {
		"sudden severe headache",
		"worst headache of my life",
		"cannot speak clearly",
		"face drooping one side",
		"sudden weakness numbness",
		"loss of consciousness",
	},
	Respiratory: {
		"difficulty breathing",
		"cannot catch my breath",
		"blue lips",
		"gasping for air",
		"wheezing unable speak",
	},
	Gastrointestinal: {
		"vomiting blood",
		"black tarry stool",
		"severe abdominal pain rigid",
		"blood in stool",
	},
	Trauma: {
		"heavy bleeding will not stop",
		"head injury confusion",
		"deep wound",
		"broken bone through skin",
	},
}

// severityAdjectives are scanned over free-text answers; any hit synthesizes
// a generic red flag even when no pattern fires.
var severityAdjectives = []string{
	"severe", "crushing", "sudden", "unable to", "difficulty breathing",
}

// Detect scans the symptom text against every danger-pattern family and each
// free-text answer for severity adjectives. Pure and safe for concurrent use.
func Detect(symptoms string, answers []string) []triage.RedFlag {
	var flags []triage.RedFlag
	words := wordSet(symptoms)

	for _, category := range []PatternCategory{Cardiovascular, Neurological, Respiratory, Gastrointestinal, Trauma} {
		for _, pattern := range dangerPatterns[category] {
			if !fuzzyMatch(pattern, words) {
				continue
			}
			flags = append(flags, triage.RedFlag{
				SymptomPattern: pattern,
				Category:       string(category),
				UrgencyLevel:   urgencyFor(category),
				Reasoning:      fmt.Sprintf("symptom text matched %s danger pattern %q", category, pattern),
			})
		}
	}

	for _, answer := range answers {
		lowered := strings.ToLower(answer)
		for _, adjective := range severityAdjectives {
			if strings.Contains(lowered, adjective) {
				flags = append(flags, triage.RedFlag{
					SymptomPattern: adjective,
					Category:       "general",
					UrgencyLevel:   triage.LevelUrgent,
					Reasoning:      fmt.Sprintf("answer contains severity marker %q", adjective),
				})
				break
			}
		}
	}

	return flags
}

// MaxUrgency returns the highest urgency among the flags, or routine when the
// slice is empty.
func MaxUrgency(flags []triage.RedFlag) triage.Level {
	level := triage.LevelRoutine
	for _, f := range flags {
		level = triage.MaxLevel(level, f.UrgencyLevel)
	}
	return level
}

// urgencyFor ranks cardiovascular and neurological hits as emergencies; the
// remaining families as urgent.
func urgencyFor(category PatternCategory) triage.Level {
	if category == Cardiovascular || category == Neurological {
		return triage.LevelEmergency
	}
	return triage.LevelUrgent
}

// fuzzyMatch reports whether at least matchThreshold of the pattern's words
// appear in the text's word set.
func fuzzyMatch(pattern string, words map[string]struct{}) bool {
	patternWords := strings.Fields(strings.ToLower(pattern))
	if len(patternWords) == 0 {
		return false
	}

	hits := 0
	for _, w := range patternWords {
		if _, ok := words[w]; ok {
			hits++
		}
	}
	return float64(hits)/float64(len(patternWords)) >= matchThreshold
}

func wordSet(text string) map[string]struct{} {
	normalized := strings.ToLower(text)
	normalized = strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', ';', ':', '!', '?', '(', ')', '"', '\'':
			return ' '
		}
		return r
	}, normalized)

	words := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		words[w] = struct{}{}
	}
	return words
}
