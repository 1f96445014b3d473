package engine

import (
	"fmt"
	"strings"

	"tailorkit/internal/lexicon"
	"tailorkit/internal/types"
)

// Requirement weights per extraction context
const (
	weightRequired   = 1.0
	weightPreferred  = 0.5
	weightContextual = 0.7
)

// Extractor derives the ordered, deduplicated requirement set from
// normalized job-posting lines.
type Extractor struct {
	lex *lexicon.Lexicon
}

// NewExtractor creates an extractor over the given lexicon snapshot
func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	return &Extractor{lex: lex}
}

// candidate is one requirement phrase found in a line, before dedup
type candidate struct {
	text      string // display form
	canonical string // lower-cased, synonym-resolved, unstemmed
	category  types.RequirementCategory
}

// Extract walks the normalized lines and returns the unique requirements in
// first-appearance order. Duplicate canonical forms keep the maximum weight,
// so a phrase listed under both a "required" and a "preferred" cue counts as
// required. A zero-requirement posting is a valid, empty result.
func (e *Extractor) Extract(lines []Line) []types.Requirement {
	var ordered []types.Requirement
	index := make(map[string]int) // stemmed canonical -> position in ordered

	inRequirements := false
	for _, line := range lines {
		if line.SectionLabel {
			inRequirements = e.lex.IsSectionLabel(line.Original)
			continue
		}

		weight := e.lineWeight(line.Norm, inRequirements)
		for _, c := range e.lineCandidates(line) {
			key := StemPhrase(c.canonical)
			if pos, seen := index[key]; seen {
				if weight > ordered[pos].Weight {
					ordered[pos].Weight = weight
				}
				continue
			}
			index[key] = len(ordered)
			ordered = append(ordered, types.Requirement{
				ID:        fmt.Sprintf("req-%d", len(ordered)+1),
				Text:      c.text,
				Canonical: key,
				Category:  c.category,
				Weight:    weight,
			})
		}
	}
	return ordered
}

// lineWeight applies the cue-word weighting rules: required cues beat
// preferred cues, and cue-less lines weigh 1.0 inside a labeled
// requirements section, 0.7 elsewhere.
func (e *Extractor) lineWeight(norm string, inRequirements bool) float64 {
	switch {
	case e.lex.HasRequiredCue(norm):
		return weightRequired
	case e.lex.HasPreferredCue(norm):
		return weightPreferred
	case inRequirements:
		return weightRequired
	default:
		return weightContextual
	}
}

// lineCandidates generates the phrase-level candidates of one line:
// certification patterns first (their spans are scrubbed so "AWS Certified"
// does not also surface an "aws" tool), then the lexicon n-gram scan, then
// experience-level patterns. An experience-level hit is suppressed when the
// line also names a skill or tool, since the years qualify that skill rather
// than standing alone.
func (e *Extractor) lineCandidates(line Line) []candidate {
	var out []candidate

	scrubbed := line.Norm
	for {
		cert := e.lex.MatchCertification(scrubbed)
		if cert == "" {
			break
		}
		out = append(out, candidate{
			text:      strings.TrimSpace(cert),
			canonical: strings.ToLower(strings.TrimSpace(cert)),
			category:  types.CategoryCertification,
		})
		scrubbed = strings.Replace(scrubbed, cert, " ", 1)
	}

	hasHardSkill := false
	for _, c := range e.ngramCandidates(scrubbed) {
		if c.category == types.CategorySkill || c.category == types.CategoryTool {
			hasHardSkill = true
		}
		out = append(out, c)
	}

	if exp := e.lex.MatchExperienceLevel(scrubbed); exp != "" && !hasHardSkill {
		exp = strings.TrimSpace(exp)
		out = append(out, candidate{
			text:      exp,
			canonical: strings.ToLower(exp),
			category:  types.CategoryExperienceLevel,
		})
	}

	return out
}

// ngramCandidates runs the 1-3-gram scan over the line tokens and keeps the
// grams the lexicon knows, longest gram first at each position so
// "machine learning" wins over "machine". Stopword-only grams are skipped.
func (e *Extractor) ngramCandidates(norm string) []candidate {
	tokens := Tokenize(norm)
	var out []candidate

	consumed := make([]bool, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if consumed[i] {
			continue
		}
		for n := 3; n >= 1; n-- {
			if i+n > len(tokens) {
				// Near end of line only the shorter grams fit.
				continue
			}
			gram := strings.Join(tokens[i:i+n], " ")
			if e.allStopwords(tokens[i : i+n]) {
				continue
			}
			c, ok := e.classify(gram)
			if !ok {
				continue
			}
			out = append(out, c)
			for j := i; j < i+n; j++ {
				consumed[j] = true
			}
			break
		}
	}
	return out
}

// classify resolves synonyms and assigns a category by lexicon membership
func (e *Extractor) classify(gram string) (candidate, bool) {
	canonical := gram
	if syn := e.lex.CanonicalSynonym(gram); syn != "" {
		canonical = syn
	}

	var cat types.RequirementCategory
	switch {
	case e.lex.IsSkill(canonical):
		cat = types.CategorySkill
	case e.lex.IsTool(canonical):
		cat = types.CategoryTool
	case e.lex.IsSoftSkill(canonical):
		cat = types.CategorySoftSkill
	default:
		return candidate{}, false
	}

	return candidate{text: canonical, canonical: canonical, category: cat}, true
}

func (e *Extractor) allStopwords(tokens []string) bool {
	for _, t := range tokens {
		if !e.lex.IsStopword(t) {
			return false
		}
	}
	return true
}
