package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tailorkit/internal/types"
)

func match(id string, weight, confidence float64) types.MatchResult {
	status := types.StatusMatched
	switch {
	case confidence == 0:
		status = types.StatusUnmatched
	case confidence < 0.6:
		status = types.StatusPartial
	}
	return types.MatchResult{
		Requirement: types.Requirement{ID: id, Weight: weight},
		Status:      status,
		Confidence:  confidence,
	}
}

func TestScore(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name    string
		matches []types.MatchResult
		want    int
	}{
		{
			name: "all matched",
			matches: []types.MatchResult{
				match("req-1", 1.0, 1.0),
				match("req-2", 0.5, 1.0),
			},
			want: 100,
		},
		{
			name: "one of three",
			matches: []types.MatchResult{
				match("req-1", 1.0, 1.0),
				match("req-2", 1.0, 0),
				match("req-3", 1.0, 0),
			},
			want: 33,
		},
		{
			name: "weights shift the mean",
			matches: []types.MatchResult{
				match("req-1", 1.0, 1.0),
				match("req-2", 0.5, 0),
			},
			want: 67, // 100 * 1.0 / 1.5
		},
		{
			name: "partial confidence counts proportionally",
			matches: []types.MatchResult{
				match("req-1", 1.0, 0.5),
			},
			want: 50,
		},
		{
			name:    "no requirements",
			matches: nil,
			want:    100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.matches))
		})
	}
}

func TestProjectedScore(t *testing.T) {
	s := NewScorer()

	matches := []types.MatchResult{
		match("req-1", 1.0, 1.0),
		match("req-2", 1.0, 0.4),
		match("req-3", 1.0, 0),
	}

	// No suggestions: projection equals the current score.
	assert.Equal(t, s.Score(matches), s.ProjectedScore(matches, nil))

	// A suggestion lifts its target to full confidence.
	suggestions := []types.EnhancementSuggestion{
		{RequirementID: "req-3", Kind: types.SuggestionNewBullet},
	}
	assert.Equal(t, 80, s.ProjectedScore(matches, suggestions)) // (1 + 0.4 + 1) / 3

	// Every gap addressed projects to a perfect score.
	suggestions = append(suggestions, types.EnhancementSuggestion{
		RequirementID: "req-2", Kind: types.SuggestionRewrite,
	})
	assert.Equal(t, 100, s.ProjectedScore(matches, suggestions))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-3))
	assert.Equal(t, 100, clampScore(100.4))
	assert.Equal(t, 67, clampScore(66.7))
}
