package engine

import (
	"math"

	"tailorkit/internal/types"
)

// Scorer aggregates match results into the 0-100 ATS compatibility score
type Scorer struct{}

// NewScorer creates a scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes 100 * sum(weight*confidence) / sum(weight), clamped to
// [0,100]. A posting with no extracted requirements scores 100: there is
// nothing to fail.
func (s *Scorer) Score(matches []types.MatchResult) int {
	totalWeight := 0.0
	earned := 0.0
	for _, m := range matches {
		totalWeight += m.Requirement.Weight
		earned += m.Requirement.Weight * m.Confidence
	}
	if totalWeight == 0 {
		return 100
	}
	return clampScore(100 * earned / totalWeight)
}

// ProjectedScore recomputes the score assuming every suggestion lands at
// confidence 1.0 for its target requirement, without re-running the matcher.
// This is a deterministic estimate, not a second matching pass, and it will
// generally overestimate when two suggestions address overlapping evidence.
func (s *Scorer) ProjectedScore(matches []types.MatchResult, suggestions []types.EnhancementSuggestion) int {
	enhanced := make(map[string]bool, len(suggestions))
	for _, sug := range suggestions {
		enhanced[sug.RequirementID] = true
	}

	totalWeight := 0.0
	earned := 0.0
	for _, m := range matches {
		totalWeight += m.Requirement.Weight
		conf := m.Confidence
		if enhanced[m.Requirement.ID] {
			conf = 1.0
		}
		earned += m.Requirement.Weight * conf
	}
	if totalWeight == 0 {
		return 100
	}
	return clampScore(100 * earned / totalWeight)
}

func clampScore(v float64) int {
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
