package agerisk

import (
	"fmt"

	"github.com/hzhao-dev/triagecare/backend/internal/analysis/symptom"
	"github.com/hzhao-dev/triagecare/backend/internal/model/triage"
)

// riskThreshold is the multiplier above which a category/age pairing emits a
// risk factor.
const riskThreshold = 0.7

type bracket struct {
	maxAge     int // inclusive upper bound; the last bracket uses a sentinel
	multiplier float64
}

// brackets holds per-category age-risk multipliers. Rows are ordered by age
// and the final row covers everything above the previous bound.
var brackets = map[symptom.Category][]bracket{
	symptom.ChestPain: {
		{maxAge: 30, multiplier: 0.3},
		{maxAge: 45, multiplier: 0.55},
		{maxAge: 60, multiplier: 0.75},
		{maxAge: maxBracketAge, multiplier: 0.9},
	},
	symptom.Headache: {
		{maxAge: 40, multiplier: 0.3},
		{maxAge: 60, multiplier: 0.5},
		{maxAge: maxBracketAge, multiplier: 0.75},
	},
	symptom.AbdominalPain: {
		{maxAge: 12, multiplier: 0.75},
		{maxAge: 50, multiplier: 0.4},
		{maxAge: 70, multiplier: 0.6},
		{maxAge: maxBracketAge, multiplier: 0.8},
	},
	symptom.Fever: {
		{maxAge: 2, multiplier: 0.9},
		{maxAge: 12, multiplier: 0.5},
		{maxAge: 65, multiplier: 0.35},
		{maxAge: maxBracketAge, multiplier: 0.8},
	},
}

const maxBracketAge = 1 << 30

// Multiplier looks up the age-risk multiplier for a symptom category.
// Unknown categories fall back to the chest-pain table, the conservative
// default shared with the categorizer.
func Multiplier(category symptom.Category, age int) float64 {
	rows, ok := brackets[category]
	if !ok {
		rows = brackets[symptom.ChestPain]
	}
	for _, row := range rows {
		if age <= row.maxAge {
			return row.multiplier
		}
	}
	return rows[len(rows)-1].multiplier
}

// Evaluate emits a RiskFactor when the patient's age pushes the category
// multiplier above the threshold, nil otherwise. Pure function.
func Evaluate(category symptom.Category, age int) *triage.RiskFactor {
	multiplier := Multiplier(category, age)
	if multiplier <= riskThreshold {
		return nil
	}
	return &triage.RiskFactor{
		FactorType:  "age",
		Severity:    multiplier,
		Description: fmt.Sprintf("age %d raises %s risk (multiplier %.2f)", age, category, multiplier),
		Weight:      multiplier,
	}
}
