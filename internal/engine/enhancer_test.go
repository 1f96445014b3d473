package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorkit/internal/lexicon"
	"tailorkit/internal/types"
)

func unmatchedReq(id, text string, cat types.RequirementCategory, weight float64) types.MatchResult {
	return types.MatchResult{
		Requirement: types.Requirement{
			ID:        id,
			Text:      text,
			Canonical: StemPhrase(text),
			Category:  cat,
			Weight:    weight,
		},
		Status: types.StatusUnmatched,
	}
}

func TestSuggestAcknowledgesCredentialGaps(t *testing.T) {
	lex := lexicon.Default()
	e := NewEnhancer(lex, DefaultThresholds().Strong)
	index := indexBullets(lex, "Shipped backend services")

	matches := []types.MatchResult{
		unmatchedReq("req-1", "aws certified", types.CategoryCertification, 1.0),
		unmatchedReq("req-2", "5+ years experience", types.CategoryExperienceLevel, 1.0),
	}
	suggestions := e.Suggest(matches, index)

	require.Len(t, suggestions, 2)
	for _, s := range suggestions {
		assert.Equal(t, types.SuggestionAcknowledgeGap, s.Kind)
		assert.Empty(t, s.ProposedText)
		assert.Equal(t, -1, s.EntryIndex)
		assert.Equal(t, -1, s.BulletIndex)
	}
}

func TestSuggestRewritesAdjacentBullet(t *testing.T) {
	lex := lexicon.Default()
	e := NewEnhancer(lex, DefaultThresholds().Strong)
	index := indexBullets(lex, "Deployed container workloads to docker hosts")

	matches := []types.MatchResult{
		unmatchedReq("req-1", "docker", types.CategoryTool, 1.0),
	}
	suggestions := e.Suggest(matches, index)

	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, types.SuggestionRewrite, s.Kind)
	assert.Equal(t, types.SectionExperience, s.Section)
	assert.Equal(t, 0, s.EntryIndex)
	assert.Equal(t, 0, s.BulletIndex)
	assert.Contains(t, s.ProposedText, "docker")
	assert.Contains(t, s.ProposedText, "Deployed container workloads")
}

func TestSuggestNewBulletWhenNothingAdjacent(t *testing.T) {
	lex := lexicon.Default()
	e := NewEnhancer(lex, DefaultThresholds().Strong)
	index := indexBullets(lex, "Organized the annual offsite")

	matches := []types.MatchResult{
		unmatchedReq("req-1", "terraform", types.CategoryTool, 1.0),
	}
	suggestions := e.Suggest(matches, index)

	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, types.SuggestionNewBullet, s.Kind)
	assert.Equal(t, types.SectionExperience, s.Section)
	assert.Equal(t, 0, s.EntryIndex)
	assert.Equal(t, -1, s.BulletIndex)
	assert.Contains(t, s.ProposedText, "terraform")
}

func TestSuggestSkillsEntryWithoutExperience(t *testing.T) {
	lex := lexicon.Default()
	e := NewEnhancer(lex, DefaultThresholds().Strong)

	// Skills-only resume: no experience bullets to rewrite or extend.
	resume := &types.ResumeDocument{Sections: []types.Section{
		{Kind: types.SectionSkills, Entries: []string{"Python"}},
	}}
	index := NewIndexer(lex).Index(resume)

	matches := []types.MatchResult{
		unmatchedReq("req-1", "terraform", types.CategoryTool, 1.0),
	}
	suggestions := e.Suggest(matches, index)

	require.Len(t, suggestions, 1)
	assert.Equal(t, types.SuggestionNewBullet, suggestions[0].Kind)
	assert.Equal(t, types.SectionSkills, suggestions[0].Section)
	assert.Equal(t, "terraform", suggestions[0].ProposedText)
}

func TestSuggestSkipsStrongMatches(t *testing.T) {
	lex := lexicon.Default()
	e := NewEnhancer(lex, DefaultThresholds().Strong)
	index := indexBullets(lex, "Shipped backend services")

	matches := []types.MatchResult{
		{
			Requirement: types.Requirement{ID: "req-1", Text: "python", Weight: 1.0},
			Status:      types.StatusMatched,
			Confidence:  1.0,
		},
		{
			Requirement: types.Requirement{ID: "req-2", Text: "docker", Category: types.CategoryTool, Weight: 1.0},
			Status:      types.StatusPartial,
			Confidence:  0.88, // above the strong threshold, not worth an edit
		},
	}
	assert.Empty(t, e.Suggest(matches, index))
}

func TestSuggestDeltaOrdering(t *testing.T) {
	lex := lexicon.Default()
	e := NewEnhancer(lex, DefaultThresholds().Strong)
	index := indexBullets(lex, "Shipped backend services")

	matches := []types.MatchResult{
		unmatchedReq("req-1", "terraform", types.CategoryTool, 0.5),
		unmatchedReq("req-2", "kubernetes", types.CategoryTool, 1.0),
	}
	suggestions := e.Suggest(matches, index)

	require.Len(t, suggestions, 2)
	assert.Equal(t, "req-2", suggestions[0].RequirementID)
	assert.Equal(t, "req-1", suggestions[1].RequirementID)
	assert.Greater(t, suggestions[0].ScoreDelta, suggestions[1].ScoreDelta)

	// Deltas sum to the full projected improvement.
	total := suggestions[0].ScoreDelta + suggestions[1].ScoreDelta
	assert.InDelta(t, 100.0, total, 0.001)
}

func TestSuggestDistinctRewriteTargets(t *testing.T) {
	lex := lexicon.Default()
	e := NewEnhancer(lex, DefaultThresholds().Strong)
	index := indexBullets(lex, "Maintained docker and kubernetes tooling")

	// Both requirements are adjacent to the same bullet; the second must not
	// rewrite a bullet the first already claimed.
	matches := []types.MatchResult{
		unmatchedReq("req-1", "docker", types.CategoryTool, 1.0),
		unmatchedReq("req-2", "kubernetes", types.CategoryTool, 1.0),
	}
	suggestions := e.Suggest(matches, index)

	require.Len(t, suggestions, 2)
	assert.Equal(t, types.SuggestionRewrite, suggestions[0].Kind)
	assert.Equal(t, types.SuggestionNewBullet, suggestions[1].Kind)
}
