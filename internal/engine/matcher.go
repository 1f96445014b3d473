package engine

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tailorkit/internal/lexicon"
	"tailorkit/internal/types"
)

// MatchThresholds control the confidence bands of the matcher. The zero
// value is unusable; DefaultThresholds matches the documented bands.
type MatchThresholds struct {
	Fuzzy   float64 // minimum Jaccard similarity for a matched status
	Partial float64 // lower bound of the partial band
	Synonym float64 // confidence assigned to synonym matches
	Strong  float64 // above this, no enhancement targets the requirement
}

// DefaultThresholds returns the standard confidence bands
func DefaultThresholds() MatchThresholds {
	return MatchThresholds{Fuzzy: 0.6, Partial: 0.3, Synonym: 0.9, Strong: 0.85}
}

// maxSecondaryEvidence caps how many non-primary spans are kept per
// requirement for explanation.
const maxSecondaryEvidence = 3

// Matcher computes, per requirement, whether and how strongly it is
// evidenced in the resume index. Requirements are independent, so matching
// runs on a bounded worker pool; results land in extraction-order slots so
// concurrency is never observable in output ordering.
type Matcher struct {
	lex        *lexicon.Lexicon
	thresholds MatchThresholds
	workers    int
}

// NewMatcher creates a matcher over the given lexicon snapshot
func NewMatcher(lex *lexicon.Lexicon, thresholds MatchThresholds, workers int) *Matcher {
	if workers < 1 {
		workers = 1
	}
	return &Matcher{lex: lex, thresholds: thresholds, workers: workers}
}

// Match evaluates every requirement against the index. The returned slice is
// parallel to the requirements slice.
func (m *Matcher) Match(ctx context.Context, reqs []types.Requirement, index *ResumeIndex) []types.MatchResult {
	results := make([]types.MatchResult, len(reqs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < m.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = m.matchOne(reqs[i], index)
			}
		}()
	}

	for i := range reqs {
		select {
		case <-ctx.Done():
			// Abandoned request: stop feeding workers. Remaining slots
			// keep their zero value; the orchestrator discards the result.
			close(jobs)
			wg.Wait()
			return results
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// matchOne searches the evidence units for one requirement and keeps the
// highest-confidence unit as primary evidence.
func (m *Matcher) matchOne(req types.Requirement, index *ResumeIndex) types.MatchResult {
	var spans []types.EvidenceSpan
	for _, unit := range index.Units {
		conf := m.unitConfidence(req, &unit)
		if conf < m.thresholds.Partial {
			continue
		}
		spans = append(spans, types.EvidenceSpan{
			Section:     unit.Section,
			EntryIndex:  unit.EntryIndex,
			BulletIndex: unit.BulletIndex,
			Text:        unit.Original,
			Confidence:  conf,
		})
	}

	if len(spans) == 0 {
		return types.MatchResult{
			Requirement: req,
			Status:      types.StatusUnmatched,
			Confidence:  0,
		}
	}

	// Highest confidence first; document order breaks ties so the result
	// is stable across runs.
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Confidence > spans[j].Confidence
	})

	primary := spans[0]
	secondary := spans[1:]
	if len(secondary) > maxSecondaryEvidence {
		secondary = secondary[:maxSecondaryEvidence]
	}

	status := types.StatusMatched
	if primary.Confidence < m.thresholds.Fuzzy {
		status = types.StatusPartial
	}

	return types.MatchResult{
		Requirement: req,
		Status:      status,
		Confidence:  primary.Confidence,
		Primary:     &primary,
		Secondary:   secondary,
	}
}

// unitConfidence scores one evidence unit against one requirement:
// exact canonical containment 1.0, synonym containment 0.9, then the raw
// Jaccard token overlap when it clears the partial band. The best method
// wins.
func (m *Matcher) unitConfidence(req types.Requirement, unit *EvidenceUnit) float64 {
	if containsPhrase(unit.StemmedText, req.Canonical) {
		return 1.0
	}

	best := 0.0
	canonical := strings.ToLower(req.Text)
	for _, alias := range m.lex.SynonymsOf(canonical) {
		if containsPhrase(unit.StemmedText, StemPhrase(alias)) {
			best = m.thresholds.Synonym
			break
		}
	}
	if best == 0 {
		if syn := m.lex.CanonicalSynonym(canonical); syn != "" {
			if containsPhrase(unit.StemmedText, StemPhrase(syn)) {
				best = m.thresholds.Synonym
			}
		}
	}

	if sim := jaccard(requirementTokens(req, m.lex), unit.Tokens); sim >= m.thresholds.Partial && sim > best {
		// Fuzzy confidence is the raw similarity, bounded below 1.0 by
		// construction since exact containment already returned.
		best = sim
	}

	return best
}

// requirementTokens builds the stemmed token set of a requirement phrase
func requirementTokens(req types.Requirement, lex *lexicon.Lexicon) map[string]bool {
	return TokenSet(Tokenize(strings.ToLower(req.Text)), lex)
}

// containsPhrase reports whether needle occurs in haystack on token
// boundaries. Both sides are stemmed, space-joined token sequences.
func containsPhrase(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// jaccard computes token-set overlap similarity in [0,1]
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
