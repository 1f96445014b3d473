package engine

import (
	"fmt"
	"sort"
	"strings"

	"tailorkit/internal/lexicon"
	"tailorkit/internal/types"
)

// adjacencyThreshold is the minimum token overlap between a requirement and
// an existing bullet for the bullet to count as topically adjacent, making
// it a rewrite target instead of forcing a new bullet.
const adjacencyThreshold = 0.1

// Enhancer proposes bullet-level rewrites or additions for requirements the
// resume does not yet evidence. It never fabricates unverifiable claims:
// unmet certifications and experience levels produce acknowledge-gap
// suggestions instead of invented credentials.
type Enhancer struct {
	lex    *lexicon.Lexicon
	strong float64
}

// NewEnhancer creates an enhancer over the given lexicon snapshot
func NewEnhancer(lex *lexicon.Lexicon, strongThreshold float64) *Enhancer {
	return &Enhancer{lex: lex, strong: strongThreshold}
}

// bulletKey addresses one bullet for rewrite-collision tracking
type bulletKey struct {
	entry  int
	bullet int
}

// Suggest produces one suggestion per unmatched or partial requirement,
// ordered by score delta descending with extraction order breaking ties.
// Each delta is weight * (1 - confidence) / totalWeight * 100, so the sum of
// deltas is exactly the projected score improvement.
func (e *Enhancer) Suggest(matches []types.MatchResult, index *ResumeIndex) []types.EnhancementSuggestion {
	totalWeight := 0.0
	for _, m := range matches {
		totalWeight += m.Requirement.Weight
	}
	if totalWeight == 0 {
		return nil
	}

	experienceBullets := experienceUnits(index)
	used := make(map[bulletKey]bool)

	var suggestions []types.EnhancementSuggestion
	for _, m := range matches {
		if m.Status == types.StatusMatched || m.Confidence >= e.strong {
			continue
		}

		sug := e.suggestFor(m, experienceBullets, used)
		sug.ScoreDelta = m.Requirement.Weight * (1 - m.Confidence) / totalWeight * 100
		suggestions = append(suggestions, sug)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].ScoreDelta > suggestions[j].ScoreDelta
	})
	return suggestions
}

// suggestFor picks the edit for one requirement: acknowledge the gap for
// credentials, otherwise rewrite the most relevant existing bullet, falling
// back to a new bullet when nothing is topically adjacent.
func (e *Enhancer) suggestFor(m types.MatchResult, bullets []EvidenceUnit, used map[bulletKey]bool) types.EnhancementSuggestion {
	req := m.Requirement

	// Credentials and experience levels are never invented.
	if req.Category == types.CategoryCertification || req.Category == types.CategoryExperienceLevel {
		return types.EnhancementSuggestion{
			RequirementID: req.ID,
			Kind:          types.SuggestionAcknowledgeGap,
			EntryIndex:    -1,
			BulletIndex:   -1,
		}
	}

	if target, ok := e.rewriteTarget(req, bullets, used); ok {
		used[bulletKey{target.EntryIndex, target.BulletIndex}] = true
		return types.EnhancementSuggestion{
			RequirementID: req.ID,
			Kind:          types.SuggestionRewrite,
			Section:       target.Section,
			EntryIndex:    target.EntryIndex,
			BulletIndex:   target.BulletIndex,
			ProposedText:  rewriteText(target.Original, req),
		}
	}

	if entry, ok := bestEntry(req, bullets, e.lex); ok {
		return types.EnhancementSuggestion{
			RequirementID: req.ID,
			Kind:          types.SuggestionNewBullet,
			Section:       types.SectionExperience,
			EntryIndex:    entry,
			BulletIndex:   -1,
			ProposedText:  newBulletText(req),
		}
	}

	// No experience section to speak of: surface the phrase as a skills
	// entry instead.
	return types.EnhancementSuggestion{
		RequirementID: req.ID,
		Kind:          types.SuggestionNewBullet,
		Section:       types.SectionSkills,
		EntryIndex:    -1,
		BulletIndex:   -1,
		ProposedText:  req.Text,
	}
}

// rewriteTarget finds the topically closest unused experience bullet
func (e *Enhancer) rewriteTarget(req types.Requirement, bullets []EvidenceUnit, used map[bulletKey]bool) (EvidenceUnit, bool) {
	reqTokens := requirementTokens(req, e.lex)

	best := EvidenceUnit{}
	bestSim := 0.0
	found := false
	for _, b := range bullets {
		if used[bulletKey{b.EntryIndex, b.BulletIndex}] {
			continue
		}
		sim := jaccard(reqTokens, b.Tokens)
		if sim >= adjacencyThreshold && sim > bestSim {
			best, bestSim, found = b, sim, true
		}
	}
	return best, found
}

// bestEntry picks the experience entry whose combined text overlaps the
// requirement most, defaulting to the first entry.
func bestEntry(req types.Requirement, bullets []EvidenceUnit, lex *lexicon.Lexicon) (int, bool) {
	if len(bullets) == 0 {
		return 0, false
	}
	reqTokens := requirementTokens(req, lex)

	scores := make(map[int]float64)
	order := []int{}
	for _, b := range bullets {
		if _, seen := scores[b.EntryIndex]; !seen {
			order = append(order, b.EntryIndex)
		}
		scores[b.EntryIndex] += jaccard(reqTokens, b.Tokens)
	}

	bestEntry := order[0]
	bestScore := scores[bestEntry]
	for _, idx := range order[1:] {
		if scores[idx] > bestScore {
			bestEntry, bestScore = idx, scores[idx]
		}
	}
	return bestEntry, true
}

// experienceUnits filters the index down to experience bullets
func experienceUnits(index *ResumeIndex) []EvidenceUnit {
	var out []EvidenceUnit
	for _, u := range index.Units {
		if u.Section == types.SectionExperience && u.BulletIndex >= 0 {
			out = append(out, u)
		}
	}
	return out
}

// rewriteText weaves the requirement phrase into an existing bullet
func rewriteText(original string, req types.Requirement) string {
	base := strings.TrimRight(strings.TrimSpace(original), ".")
	switch req.Category {
	case types.CategorySoftSkill:
		return fmt.Sprintf("%s, demonstrating %s", base, req.Text)
	default:
		return fmt.Sprintf("%s using %s", base, req.Text)
	}
}

// newBulletText phrases a fresh bullet for a requirement with no adjacent
// existing bullet.
func newBulletText(req types.Requirement) string {
	switch req.Category {
	case types.CategorySoftSkill:
		return fmt.Sprintf("Applied %s in cross-functional project work", req.Text)
	default:
		return fmt.Sprintf("Worked hands-on with %s", req.Text)
	}
}
