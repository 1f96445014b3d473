package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorkit/internal/errors"
	"tailorkit/internal/lexicon"
	"tailorkit/internal/types"
)

func newTestEngine() *Engine {
	return New(DefaultConfig(), lexicon.NewStore(nil), nil)
}

func backendResume() *types.ResumeDocument {
	return &types.ResumeDocument{
		Sections: []types.Section{
			{
				Kind: types.SectionExperience,
				Experiences: []types.ExperienceEntry{{
					Title:        "Software Engineer",
					Organization: "Acme",
					Bullets:      []string{"Developed backend services using Python for 6 years"},
				}},
			},
		},
	}
}

const pythonPosting = "About the Role\n" +
	"We are looking for an engineer to join our growing organization in a hybrid setting.\n" +
	"Requirements:\n" +
	"5+ years of Python, AWS Certified, and strong communication skills\n"

func TestAnalyzePythonPosting(t *testing.T) {
	eng := newTestEngine()

	result, err := eng.Analyze(context.Background(), backendResume(), types.JobPosting{Text: pythonPosting})
	require.NoError(t, err)

	all := result.MatchResults()
	require.Len(t, all, 3)

	byCanonical := make(map[string]types.MatchResult)
	for _, m := range all {
		byCanonical[m.Requirement.Canonical] = m
	}

	cert, ok := byCanonical["aws certifi"]
	require.True(t, ok, "expected an aws certification requirement, got %v", all)
	assert.Equal(t, types.CategoryCertification, cert.Requirement.Category)
	assert.Equal(t, types.StatusUnmatched, cert.Status)

	python, ok := byCanonical["python"]
	require.True(t, ok)
	assert.Equal(t, types.CategorySkill, python.Requirement.Category)
	assert.Equal(t, types.StatusMatched, python.Status)
	assert.Equal(t, 1.0, python.Confidence)
	require.NotNil(t, python.Primary)
	assert.Equal(t, "Developed backend services using Python for 6 years", python.Primary.Text)

	comm, ok := byCanonical["communic"]
	require.True(t, ok)
	assert.Equal(t, types.CategorySoftSkill, comm.Requirement.Category)
	assert.Equal(t, types.StatusUnmatched, comm.Status)

	// All three requirements sit in the labeled section at weight 1.0, so a
	// single full match earns a third of the score.
	assert.Equal(t, 33, result.Score)
	assert.Equal(t, 100, result.ProjectedScore)

	assert.Len(t, result.Matched, 1)
	assert.Len(t, result.Unmatched, 2)

	require.Len(t, result.Suggestions, 2)
	kinds := make(map[string]types.SuggestionKind)
	for _, s := range result.Suggestions {
		kinds[s.RequirementID] = s.Kind
		assert.InDelta(t, 100.0/3, s.ScoreDelta, 0.01)
	}
	assert.Equal(t, types.SuggestionAcknowledgeGap, kinds[cert.Requirement.ID])
	assert.Equal(t, types.SuggestionNewBullet, kinds[comm.Requirement.ID])
}

func TestAnalyzeTailoredOutput(t *testing.T) {
	eng := newTestEngine()
	resume := backendResume()

	result, err := eng.Analyze(context.Background(), resume, types.JobPosting{Text: pythonPosting})
	require.NoError(t, err)

	// Acknowledge-gap changes nothing; the communication suggestion adds one
	// provenance-tagged bullet to the only experience entry.
	require.Len(t, result.Tailored.Sections, 1)
	bullets := result.Tailored.Sections[0].Experiences[0].Bullets
	require.Len(t, bullets, 2)
	assert.Empty(t, bullets[0].RequirementID)
	assert.NotEmpty(t, bullets[1].RequirementID)
	assert.Contains(t, bullets[1].Text, "communication")

	// The input resume is never mutated.
	assert.Len(t, resume.Sections[0].Experiences[0].Bullets, 1)
}

func TestAnalyzeShortPosting(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.Analyze(context.Background(), backendResume(), types.JobPosting{Text: "Python developer wanted"})
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientInput(err))
}

func TestAnalyzeEmptyResume(t *testing.T) {
	eng := newTestEngine()

	empty := &types.ResumeDocument{Sections: []types.Section{
		{Kind: types.SectionSkills, Entries: []string{"   "}},
	}}
	_, err := eng.Analyze(context.Background(), empty, types.JobPosting{Text: pythonPosting})
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientInput(err))
}

func TestAnalyzeNoRequirements(t *testing.T) {
	eng := newTestEngine()

	posting := "We are seeking a wonderful person to join our friendly neighborhood organization " +
		"at the earliest possible opportunity. Come meet everyone."
	result, err := eng.Analyze(context.Background(), backendResume(), types.JobPosting{Text: posting})
	require.NoError(t, err)

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, 100, result.ProjectedScore)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.Unmatched)
	assert.Empty(t, result.Suggestions)
}

func TestAnalyzeIdempotent(t *testing.T) {
	eng := newTestEngine()
	posting := types.JobPosting{Text: pythonPosting, Title: "Backend Engineer", Company: "Acme"}

	first, err := eng.Analyze(context.Background(), backendResume(), posting)
	require.NoError(t, err)
	second, err := eng.Analyze(context.Background(), backendResume(), posting)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.AnalysisID)
	assert.Equal(t, "builtin-2025.08", first.LexiconVersion)
}

func TestAnalyzeProgressStages(t *testing.T) {
	eng := newTestEngine()

	var stages []Stage
	_, err := eng.Analyze(context.Background(), backendResume(), types.JobPosting{Text: pythonPosting},
		WithProgress(func(s Stage) { stages = append(stages, s) }))
	require.NoError(t, err)

	assert.Equal(t, []Stage{
		StageValidating, StageNormalizing, StageExtracting, StageIndexing,
		StageMatching, StageScoring, StageEnhancing, StageComplete,
	}, stages)
}

func TestAnalyzeProgressOnFailure(t *testing.T) {
	eng := newTestEngine()

	var stages []Stage
	_, err := eng.Analyze(context.Background(), backendResume(), types.JobPosting{Text: "too short"},
		WithProgress(func(s Stage) { stages = append(stages, s) }))
	require.Error(t, err)
	assert.Equal(t, []Stage{StageValidating, StageFailed}, stages)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	eng := newTestEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Analyze(ctx, backendResume(), types.JobPosting{Text: pythonPosting})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalysisIDDependsOnInputs(t *testing.T) {
	resume := backendResume()
	a := analysisID(resume, types.JobPosting{Text: pythonPosting})
	b := analysisID(resume, types.JobPosting{Text: pythonPosting})
	c := analysisID(resume, types.JobPosting{Text: pythonPosting, Title: "Backend Engineer"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
	assert.Equal(t, strings.ToLower(a), a)
}
