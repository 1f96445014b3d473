package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	lex := Default()

	assert.NotEmpty(t, lex.Version)
	assert.True(t, lex.IsSkill("python"))
	assert.True(t, lex.IsTool("docker"))
	assert.True(t, lex.IsSoftSkill("communication"))
	assert.True(t, lex.IsStopword("the"))
	assert.False(t, lex.IsSkill("docker"), "tools and skills are distinct tables")
}

func TestSynonyms(t *testing.T) {
	lex := Default()

	assert.Equal(t, "javascript", lex.CanonicalSynonym("js"))
	assert.Equal(t, "kubernetes", lex.CanonicalSynonym("k8s"))
	assert.Empty(t, lex.CanonicalSynonym("python"))

	aliases := lex.SynonymsOf("kubernetes")
	assert.Contains(t, aliases, "k8s")
}

func TestMatchCertification(t *testing.T) {
	lex := Default()

	tests := []struct {
		line string
		want string
	}{
		{"aws certified solutions architect required", "aws certified solutions architect required"},
		{"aws certified, and more", "aws certified"},
		{"must hold PMP", "PMP"},
		{"cissp a plus", "cissp"},
		{"no credential here", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lex.MatchCertification(tt.line), "line %q", tt.line)
	}
}

func TestMatchExperienceLevel(t *testing.T) {
	lex := Default()

	assert.Equal(t, "5+ years of experience", lex.MatchExperienceLevel("5+ years of experience with go"))
	assert.Equal(t, "3 yrs", lex.MatchExperienceLevel("3 yrs in support roles"))
	assert.Equal(t, "senior-level", lex.MatchExperienceLevel("senior-level engineers wanted"))
	assert.Empty(t, lex.MatchExperienceLevel("plenty of enthusiasm"))
}

func TestCues(t *testing.T) {
	lex := Default()

	assert.True(t, lex.HasRequiredCue("must have go experience"))
	assert.True(t, lex.HasRequiredCue("docker is required"))
	assert.True(t, lex.HasPreferredCue("terraform is a plus"))
	assert.True(t, lex.HasPreferredCue("nice to have: rust"))
	assert.False(t, lex.HasRequiredCue("we enjoy go"))
}

func TestSectionLabelsAndHeaders(t *testing.T) {
	lex := Default()

	assert.True(t, lex.IsSectionLabel("Requirements:"))
	assert.True(t, lex.IsSectionLabel("minimum qualifications"))
	assert.False(t, lex.IsSectionLabel("benefits"))

	assert.True(t, lex.IsBoilerplateHeader("About us"))
	assert.True(t, lex.IsBoilerplateHeader("responsibilities:"))
	assert.False(t, lex.IsBoilerplateHeader("we ship software"))
}

func TestCompileRejectsBadPatterns(t *testing.T) {
	lex := &Lexicon{
		Version:               "test",
		CertificationPatterns: []string{"(unclosed"},
	}
	require.Error(t, lex.compile())
}
