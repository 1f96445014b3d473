package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorkit/internal/lexicon"
	"tailorkit/internal/types"
)

func skillRequirement(id, text string) types.Requirement {
	return types.Requirement{
		ID:        id,
		Text:      text,
		Canonical: StemPhrase(text),
		Category:  types.CategorySkill,
		Weight:    1.0,
	}
}

func indexBullets(lex *lexicon.Lexicon, bullets ...string) *ResumeIndex {
	resume := &types.ResumeDocument{
		Sections: []types.Section{{
			Kind: types.SectionExperience,
			Experiences: []types.ExperienceEntry{{
				Title:   "Engineer",
				Bullets: bullets,
			}},
		}},
	}
	return NewIndexer(lex).Index(resume)
}

func TestMatchConfidenceBands(t *testing.T) {
	lex := lexicon.Default()
	m := NewMatcher(lex, DefaultThresholds(), 2)

	tests := []struct {
		name       string
		req        types.Requirement
		bullet     string
		wantStatus types.MatchStatus
		wantConf   float64
	}{
		{
			name:       "exact containment",
			req:        skillRequirement("req-1", "python"),
			bullet:     "Built services in Python",
			wantStatus: types.StatusMatched,
			wantConf:   1.0,
		},
		{
			name:       "exact phrase survives stemming",
			req:        skillRequirement("req-1", "data pipelines"),
			bullet:     "Operated streaming data pipeline jobs",
			wantStatus: types.StatusMatched,
			wantConf:   1.0,
		},
		{
			name:       "synonym containment",
			req:        skillRequirement("req-1", "kubernetes"),
			bullet:     "Managed k8s clusters in production",
			wantStatus: types.StatusMatched,
			wantConf:   0.9,
		},
		{
			name:       "fuzzy overlap above matched band",
			req:        skillRequirement("req-1", "unit testing"),
			bullet:     "Extensive testing of units",
			wantStatus: types.StatusMatched,
			wantConf:   2.0 / 3.0,
		},
		{
			name:       "fuzzy overlap in partial band",
			req:        skillRequirement("req-1", "unit testing"),
			bullet:     "Wrote unit and integration tests",
			wantStatus: types.StatusPartial,
			wantConf:   0.5,
		},
		{
			name:       "no overlap",
			req:        skillRequirement("req-1", "terraform"),
			bullet:     "Wrote unit and integration tests",
			wantStatus: types.StatusUnmatched,
			wantConf:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := indexBullets(lex, tt.bullet)
			results := m.Match(context.Background(), []types.Requirement{tt.req}, index)
			require.Len(t, results, 1)

			got := results[0]
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.InDelta(t, tt.wantConf, got.Confidence, 0.001)
			if tt.wantStatus == types.StatusUnmatched {
				assert.Nil(t, got.Primary)
			} else {
				require.NotNil(t, got.Primary)
				assert.Equal(t, tt.bullet, got.Primary.Text)
			}
		})
	}
}

func TestMatchSecondaryEvidenceCapped(t *testing.T) {
	lex := lexicon.Default()
	m := NewMatcher(lex, DefaultThresholds(), 2)

	index := indexBullets(lex,
		"Python services",
		"More Python services",
		"Python tooling",
		"Python scripts",
		"Python dashboards",
	)
	results := m.Match(context.Background(),
		[]types.Requirement{skillRequirement("req-1", "python")}, index)

	require.Len(t, results, 1)
	require.NotNil(t, results[0].Primary)
	assert.Len(t, results[0].Secondary, maxSecondaryEvidence)
}

func TestMatchResultsKeepExtractionOrder(t *testing.T) {
	lex := lexicon.Default()
	m := NewMatcher(lex, DefaultThresholds(), 4)

	index := indexBullets(lex, "Built services in Python and Docker")
	reqs := []types.Requirement{
		skillRequirement("req-1", "python"),
		skillRequirement("req-2", "terraform"),
		skillRequirement("req-3", "docker"),
	}

	// The worker pool must never reorder results relative to requirements.
	for range 20 {
		results := m.Match(context.Background(), reqs, index)
		require.Len(t, results, 3)
		assert.Equal(t, "req-1", results[0].Requirement.ID)
		assert.Equal(t, "req-2", results[1].Requirement.ID)
		assert.Equal(t, "req-3", results[2].Requirement.ID)
		assert.Equal(t, types.StatusMatched, results[0].Status)
		assert.Equal(t, types.StatusUnmatched, results[1].Status)
		assert.Equal(t, types.StatusMatched, results[2].Status)
	}
}

func TestJaccard(t *testing.T) {
	a := map[string]bool{"x": true, "y": true}
	b := map[string]bool{"y": true, "z": true}

	assert.InDelta(t, 1.0/3.0, jaccard(a, b), 0.001)
	assert.Equal(t, 0.0, jaccard(a, map[string]bool{}))
	assert.Equal(t, 1.0, jaccard(a, a))
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, containsPhrase("manag k8s cluster", "k8s"))
	assert.True(t, containsPhrase("data pipeline job", "data pipeline"))
	assert.False(t, containsPhrase("datastore pipeline", "data pipeline"))
	assert.False(t, containsPhrase("anything", ""))
}
