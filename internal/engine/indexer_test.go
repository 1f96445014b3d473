package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorkit/internal/lexicon"
	"tailorkit/internal/types"
)

func TestIndexFlattensResume(t *testing.T) {
	resume := &types.ResumeDocument{
		Sections: []types.Section{
			{Kind: types.SectionSummary, Entries: []string{"Backend engineer with Python focus"}},
			{
				Kind: types.SectionExperience,
				Experiences: []types.ExperienceEntry{{
					Title:   "Senior Engineer",
					Bullets: []string{"Built APIs", "Ran deployments"},
				}},
			},
			{Kind: types.SectionSkills, Entries: []string{"Python", ""}},
		},
	}

	index := NewIndexer(lexicon.Default()).Index(resume)
	require.Len(t, index.Units, 5) // empty skills entry dropped

	summary := index.Units[0]
	assert.Equal(t, types.SectionSummary, summary.Section)
	assert.Equal(t, -1, summary.BulletIndex)

	title := index.Units[1]
	assert.Equal(t, "Senior Engineer", title.Original)
	assert.Equal(t, -1, title.BulletIndex)

	first := index.Units[2]
	assert.Equal(t, types.SectionExperience, first.Section)
	assert.Equal(t, 0, first.EntryIndex)
	assert.Equal(t, 0, first.BulletIndex)
	assert.Equal(t, "Built APIs", first.Original)
	assert.Equal(t, "built apis", first.Norm)

	second := index.Units[3]
	assert.Equal(t, 1, second.BulletIndex)

	skills := index.Units[4]
	assert.Equal(t, types.SectionSkills, skills.Section)
	assert.True(t, skills.Tokens["python"])
}

func TestIndexStemmedForms(t *testing.T) {
	resume := &types.ResumeDocument{
		Sections: []types.Section{{
			Kind:    types.SectionSummary,
			Entries: []string{"Managed distributed systems"},
		}},
	}

	index := NewIndexer(lexicon.Default()).Index(resume)
	require.Len(t, index.Units, 1)
	assert.Equal(t, "manag distribut system", index.Units[0].StemmedText)
}

func TestIndexIsEmpty(t *testing.T) {
	index := NewIndexer(lexicon.Default()).Index(&types.ResumeDocument{})
	assert.True(t, index.IsEmpty())

	index = indexBullets(lexicon.Default(), "Shipped software")
	assert.False(t, index.IsEmpty())
}
