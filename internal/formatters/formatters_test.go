package formatters

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorkit/internal/types"
)

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		AnalysisID:     "abc123",
		LexiconVersion: "builtin-2025.08",
		Score:          33,
		ProjectedScore: 100,
		Matched: []types.MatchResult{{
			Requirement: types.Requirement{ID: "req-2", Text: "python", Category: types.CategorySkill, Weight: 1.0},
			Status:      types.StatusMatched,
			Confidence:  1.0,
			Primary: &types.EvidenceSpan{
				Section: types.SectionExperience,
				Text:    "Developed backend services using Python",
			},
		}},
		Unmatched: []types.MatchResult{{
			Requirement: types.Requirement{ID: "req-1", Text: "aws certified", Category: types.CategoryCertification, Weight: 1.0},
			Status:      types.StatusUnmatched,
		}},
		Suggestions: []types.EnhancementSuggestion{{
			RequirementID: "req-1",
			Kind:          types.SuggestionAcknowledgeGap,
			EntryIndex:    -1,
			BulletIndex:   -1,
			ScoreDelta:    50,
		}},
	}
}

func TestJSONFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResult(), "json")
	require.NoError(t, err)

	var decoded types.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "abc123", decoded.AnalysisID)
	assert.Equal(t, 33, decoded.Score)
}

func TestAnalysisTextFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResult(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Score: 33/100")
	assert.Contains(t, out, "projected after edits: 100/100")
	assert.Contains(t, out, "MATCHED REQUIREMENTS")
	assert.Contains(t, out, "python")
	assert.Contains(t, out, "Developed backend services using Python")
	assert.Contains(t, out, "UNMATCHED REQUIREMENTS")
	assert.Contains(t, out, "aws certified")
	assert.Contains(t, out, "acknowledge-gap")
}

func TestAnalysisMarkdownFormatter(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(sampleResult(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# ATS Analysis")
	assert.Contains(t, out, "**Score:** 33/100")
	assert.Contains(t, out, "## Unmatched Requirements")
	assert.Contains(t, out, "aws certified")
}

func TestTailoredFormatters(t *testing.T) {
	resume := types.TailoredResume{
		Sections: []types.TailoredSection{
			{
				Kind: types.SectionExperience,
				Experiences: []types.TailoredExperienceEntry{{
					Title:        "Engineer",
					Organization: "Acme",
					Bullets: []types.TailoredBullet{
						{Text: "Shipped software"},
						{Text: "Worked hands-on with terraform", RequirementID: "req-1"},
					},
				}},
			},
			{
				Kind:    types.SectionSkills,
				Entries: []types.TailoredBullet{{Text: "Python"}},
			},
		},
	}
	registry := NewFormatterRegistry()

	text, err := registry.Format(resume, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "EXPERIENCE")
	assert.Contains(t, text, "Engineer | Acme")
	assert.Contains(t, text, "[req-1]")
	assert.Contains(t, text, "- Shipped software\n")

	md, err := registry.Format(resume, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "## Experience")
	assert.Contains(t, md, "### Engineer, Acme")
	assert.Contains(t, md, "## Skills")
	assert.Contains(t, md, "[req-1]")
}

func TestFormatUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	_, err := registry.Format(sampleResult(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no formatter found")
}

func TestGetSupportedFormats(t *testing.T) {
	registry := NewFormatterRegistry()
	assert.ElementsMatch(t, []string{"json", "text", "markdown"}, registry.GetSupportedFormats())
}
