package lexicon

import (
	"fmt"
	"regexp"
	"strings"
)

// Lexicon holds the versioned data tables driving requirement extraction and
// matching: skill/tool phrases, synonym pairs, stopwords, boilerplate headers
// and the cue words that decide requirement weights. Tables are loaded once
// and treated as immutable; a reload builds a fresh Lexicon.
type Lexicon struct {
	Version string `yaml:"version"`

	Skills     []string `yaml:"skills"`
	Tools      []string `yaml:"tools"`
	SoftSkills []string `yaml:"softSkills"`

	// Synonyms maps an alias to its canonical phrase, e.g. "js" -> "javascript"
	Synonyms map[string]string `yaml:"synonyms"`

	Stopwords []string `yaml:"stopwords"`

	// BoilerplateHeaders are header lines recognized during normalization,
	// e.g. "responsibilities:", "benefits:". They carry no requirement
	// content and act as section boundaries.
	BoilerplateHeaders []string `yaml:"boilerplateHeaders"`

	// SectionLabels mark lines that open a requirements/qualifications
	// section; candidates inside such a section default to weight 1.0
	// instead of the contextual 0.7 when no cue word applies.
	SectionLabels []string `yaml:"sectionLabels"`

	RequiredCues  []string `yaml:"requiredCues"`
	PreferredCues []string `yaml:"preferredCues"`

	CertificationPatterns []string `yaml:"certificationPatterns"`
	ExperiencePatterns    []string `yaml:"experiencePatterns"`

	// compiled state, built by compile()
	skillSet      map[string]bool
	toolSet       map[string]bool
	softSkillSet  map[string]bool
	stopwordSet   map[string]bool
	synonymLookup map[string]string
	certRegexps   []*regexp.Regexp
	expRegexps    []*regexp.Regexp
}

// compile builds the lookup sets and regexps from the raw tables. Phrase
// tables are lower-cased so lookups work on normalized text.
func (l *Lexicon) compile() error {
	l.skillSet = phraseSet(l.Skills)
	l.toolSet = phraseSet(l.Tools)
	l.softSkillSet = phraseSet(l.SoftSkills)
	l.stopwordSet = phraseSet(l.Stopwords)

	l.synonymLookup = make(map[string]string, len(l.Synonyms)*2)
	for alias, canonical := range l.Synonyms {
		a := strings.ToLower(strings.TrimSpace(alias))
		c := strings.ToLower(strings.TrimSpace(canonical))
		if a == "" || c == "" {
			continue
		}
		l.synonymLookup[a] = c
	}

	l.certRegexps = nil
	for _, p := range l.CertificationPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("invalid certification pattern %q: %w", p, err)
		}
		l.certRegexps = append(l.certRegexps, re)
	}

	l.expRegexps = nil
	for _, p := range l.ExperiencePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("invalid experience pattern %q: %w", p, err)
		}
		l.expRegexps = append(l.expRegexps, re)
	}

	return nil
}

func phraseSet(phrases []string) map[string]bool {
	set := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			set[p] = true
		}
	}
	return set
}

// IsSkill reports whether the normalized phrase is a known skill
func (l *Lexicon) IsSkill(phrase string) bool { return l.skillSet[phrase] }

// IsTool reports whether the normalized phrase is a known tool
func (l *Lexicon) IsTool(phrase string) bool { return l.toolSet[phrase] }

// IsSoftSkill reports whether the normalized phrase is a known soft skill
func (l *Lexicon) IsSoftSkill(phrase string) bool { return l.softSkillSet[phrase] }

// IsStopword reports whether the token is in the stoplist
func (l *Lexicon) IsStopword(token string) bool { return l.stopwordSet[token] }

// CanonicalSynonym resolves an alias to its canonical phrase. The empty
// string means no synonym entry exists.
func (l *Lexicon) CanonicalSynonym(phrase string) string {
	return l.synonymLookup[phrase]
}

// SynonymsOf returns every alias that resolves to the given canonical phrase
func (l *Lexicon) SynonymsOf(canonical string) []string {
	var aliases []string
	for alias, c := range l.synonymLookup {
		if c == canonical {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// MatchCertification returns the certification phrase matched in the line,
// or the empty string
func (l *Lexicon) MatchCertification(line string) string {
	for _, re := range l.certRegexps {
		if m := re.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// MatchExperienceLevel returns the experience-level phrase matched in the
// line, e.g. "5+ years", or the empty string
func (l *Lexicon) MatchExperienceLevel(line string) string {
	for _, re := range l.expRegexps {
		if m := re.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// HasRequiredCue reports whether the normalized line carries a cue that
// marks requirements as mandatory ("required", "must have", ...)
func (l *Lexicon) HasRequiredCue(line string) bool {
	return containsAnyPhrase(line, l.RequiredCues)
}

// HasPreferredCue reports whether the normalized line carries a cue that
// marks requirements as optional ("preferred", "nice to have", ...)
func (l *Lexicon) HasPreferredCue(line string) bool {
	return containsAnyPhrase(line, l.PreferredCues)
}

// IsSectionLabel reports whether the normalized line opens a labeled posting
// section such as "requirements" or "qualifications"
func (l *Lexicon) IsSectionLabel(line string) bool {
	trimmed := strings.TrimRight(strings.TrimSpace(line), ":")
	for _, label := range l.SectionLabels {
		if strings.EqualFold(trimmed, label) {
			return true
		}
	}
	return false
}

// IsBoilerplateHeader reports whether the normalized line is a boilerplate
// header to strip, e.g. "responsibilities:"
func (l *Lexicon) IsBoilerplateHeader(line string) bool {
	trimmed := strings.TrimRight(strings.TrimSpace(strings.ToLower(line)), ":")
	for _, h := range l.BoilerplateHeaders {
		if trimmed == strings.TrimRight(strings.ToLower(h), ":") {
			return true
		}
	}
	return false
}

func containsAnyPhrase(line string, phrases []string) bool {
	lower := strings.ToLower(line)
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
