package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorkit/internal/types"
)

func TestBuildTailoredRewrite(t *testing.T) {
	resume := backendResume()

	tailored := BuildTailored(resume, []types.EnhancementSuggestion{{
		RequirementID: "req-1",
		Kind:          types.SuggestionRewrite,
		Section:       types.SectionExperience,
		EntryIndex:    0,
		BulletIndex:   0,
		ProposedText:  "Developed backend services using Python and Docker",
	}})

	bullet := tailored.Sections[0].Experiences[0].Bullets[0]
	assert.Equal(t, "Developed backend services using Python and Docker", bullet.Text)
	assert.Equal(t, "req-1", bullet.RequirementID)

	// Source document stays untouched.
	assert.Equal(t, "Developed backend services using Python for 6 years",
		resume.Sections[0].Experiences[0].Bullets[0])
}

func TestBuildTailoredNewExperienceBullet(t *testing.T) {
	tailored := BuildTailored(backendResume(), []types.EnhancementSuggestion{{
		RequirementID: "req-1",
		Kind:          types.SuggestionNewBullet,
		Section:       types.SectionExperience,
		EntryIndex:    0,
		BulletIndex:   -1,
		ProposedText:  "Worked hands-on with terraform",
	}})

	bullets := tailored.Sections[0].Experiences[0].Bullets
	require.Len(t, bullets, 2)
	assert.Equal(t, "Worked hands-on with terraform", bullets[1].Text)
	assert.Equal(t, "req-1", bullets[1].RequirementID)
}

func TestBuildTailoredCreatesSkillsSection(t *testing.T) {
	tailored := BuildTailored(backendResume(), []types.EnhancementSuggestion{{
		RequirementID: "req-1",
		Kind:          types.SuggestionNewBullet,
		Section:       types.SectionSkills,
		EntryIndex:    -1,
		BulletIndex:   -1,
		ProposedText:  "terraform",
	}})

	require.Len(t, tailored.Sections, 2)
	skills := tailored.Sections[1]
	assert.Equal(t, types.SectionSkills, skills.Kind)
	require.Len(t, skills.Entries, 1)
	assert.Equal(t, "terraform", skills.Entries[0].Text)
	assert.Equal(t, "req-1", skills.Entries[0].RequirementID)
}

func TestBuildTailoredIgnoresBadTargets(t *testing.T) {
	resume := backendResume()

	tailored := BuildTailored(resume, []types.EnhancementSuggestion{
		{
			Kind:        types.SuggestionRewrite,
			Section:     types.SectionExperience,
			EntryIndex:  5, // out of range
			BulletIndex: 0,
		},
		{
			Kind:        types.SuggestionRewrite,
			Section:     types.SectionExperience,
			EntryIndex:  0,
			BulletIndex: 9, // out of range
		},
		{
			Kind: types.SuggestionAcknowledgeGap,
		},
	})

	// Nothing applies; the tailored copy mirrors the original.
	require.Len(t, tailored.Sections, 1)
	bullets := tailored.Sections[0].Experiences[0].Bullets
	require.Len(t, bullets, 1)
	assert.Equal(t, resume.Sections[0].Experiences[0].Bullets[0], bullets[0].Text)
	assert.Empty(t, bullets[0].RequirementID)
}
