package core

import (
	"fmt"
	"strings"
)

// Stance identifies the perspective an opinion generator argues from.
// The set is closed.
type Stance string

const (
	// StanceProsecutor scores adversarially: low unless evidence is strong.
	StanceProsecutor Stance = "Prosecutor"
	// StanceDefense rewards effort and partial correctness.
	StanceDefense Stance = "Defense"
	// StanceTechLead weighs architecture quality and maintainability.
	StanceTechLead Stance = "TechLead"
)

// Score bounds shared by opinions and criterion results.
const (
	MinScore = 1
	MaxScore = 5
)

// AllStances returns the stances in registration order.
func AllStances() []Stance {
	return []Stance{StanceProsecutor, StanceDefense, StanceTechLead}
}

// Weight is the stance's influence on a criterion's weighted mean.
func (s Stance) Weight() float64 {
	switch s {
	case StanceTechLead:
		return 1.5
	default:
		return 1.0
	}
}

// Valid reports whether s belongs to the closed stance set.
func (s Stance) Valid() bool {
	switch s {
	case StanceProsecutor, StanceDefense, StanceTechLead:
		return true
	default:
		return false
	}
}

// ParseStance converts a case-insensitive name into a Stance.
func ParseStance(name string) (Stance, error) {
	for _, s := range AllStances() {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid stance: %s", name)
}

// Opinion is one generator's judgment of one criterion.
type Opinion struct {
	ID            string   `json:"id"`
	Judge         Stance   `json:"judge"`
	CriterionID   string   `json:"criterion_id"`
	Score         int      `json:"score"`
	Argument      string   `json:"argument"`
	CitedEvidence []string `json:"cited_evidence"`
	Confidence    float64  `json:"confidence"`
}

// ValidScore reports whether score lies in [MinScore, MaxScore].
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// ClampScore bounds a score to [MinScore, MaxScore].
func ClampScore(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
