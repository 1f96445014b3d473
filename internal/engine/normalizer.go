package engine

import (
	"strings"
	"unicode"

	"tailorkit/internal/errors"
	"tailorkit/internal/lexicon"
)

// MinPostingLength is the minimum raw job-posting size the engine accepts.
// Shorter input is an InsufficientInput validation error, not an engine fault.
const MinPostingLength = 100

// Line is one normalized statement recovered from raw text, with the
// original-case copy retained for display.
type Line struct {
	Original string
	Norm     string
	Tokens   []string
	// SectionLabel is true when the line is a header ("Requirements:",
	// "Benefits:") rather than content; headers act as section boundaries.
	SectionLabel bool
}

// Normalizer cleans and tokenizes raw posting and resume text into a
// canonical form. It is stateless apart from the lexicon tables it consults
// for boilerplate headers and section labels.
type Normalizer struct {
	lex *lexicon.Lexicon
}

// NewNormalizer creates a normalizer over the given lexicon snapshot
func NewNormalizer(lex *lexicon.Lexicon) *Normalizer {
	return &Normalizer{lex: lex}
}

// NormalizePosting validates and splits a raw job posting into normalized
// lines. Postings under MinPostingLength characters fail with
// INSUFFICIENT_INPUT.
func (n *Normalizer) NormalizePosting(raw string) ([]Line, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < MinPostingLength {
		return nil, errors.NewValidationError(errors.ErrCodeInsufficientInput,
			"job posting text is too short to analyze", nil).
			WithContext("length", len(trimmed)).
			WithContext("minimum", MinPostingLength)
	}
	return n.splitLines(trimmed), nil
}

// Normalize splits already-validated raw text into normalized lines without
// re-checking input length. The orchestrator validates first, so this stage
// is total.
func (n *Normalizer) Normalize(raw string) []Line {
	return n.splitLines(strings.TrimSpace(raw))
}

// NormalizeStatement normalizes one resume field (a bullet, a skills entry,
// a summary line) without bullet splitting.
func (n *Normalizer) NormalizeStatement(raw string) Line {
	original := strings.TrimSpace(raw)
	norm := normalizeText(original)
	return Line{
		Original: original,
		Norm:     norm,
		Tokens:   Tokenize(norm),
	}
}

// splitLines recovers discrete statements from raw text: newlines and bullet
// markers both open a new line, and header lines carry no content but are
// flagged as section boundaries so the extractor can track posting sections.
func (n *Normalizer) splitLines(raw string) []Line {
	var lines []Line
	for rawLine := range strings.SplitSeq(raw, "\n") {
		for _, stmt := range splitBullets(rawLine) {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}

			if n.lex.IsBoilerplateHeader(stmt) {
				// Every header marks a section boundary, so "Benefits:" ends
				// a requirements section just as "Requirements:" opens one.
				lines = append(lines, Line{
					Original:     stmt,
					Norm:         normalizeText(stmt),
					SectionLabel: true,
				})
				continue
			}

			// Inline headers ("Requirements: 5+ years Python") mark the
			// section and leave the remainder as content.
			stmt, label := n.stripInlineHeader(stmt)
			if label != "" {
				lines = append(lines, Line{
					Original:     label,
					Norm:         normalizeText(label),
					SectionLabel: true,
				})
			}
			if stmt == "" {
				continue
			}

			norm := normalizeText(stmt)
			lines = append(lines, Line{
				Original: stmt,
				Norm:     norm,
				Tokens:   Tokenize(norm),
			})
		}
	}
	return lines
}

// stripInlineHeader removes a leading header such as "Requirements:" or
// "Benefits:" from a content line. The second return value is the label when
// a known header was found, otherwise empty.
func (n *Normalizer) stripInlineHeader(stmt string) (string, string) {
	colon := strings.Index(stmt, ":")
	if colon <= 0 {
		return stmt, ""
	}
	head := stmt[:colon]
	if n.lex.IsSectionLabel(head) || n.lex.IsBoilerplateHeader(head) {
		return strings.TrimSpace(stmt[colon+1:]), head
	}
	return stmt, ""
}

// splitBullets splits a physical line on bullet markers. Numbered lists
// ("1.", "2)") and the common dash/dot markers all count.
func splitBullets(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	// Leading marker: strip it and keep the rest as one statement.
	line = trimBulletMarker(line)

	// Inline bullet characters split the line into several statements.
	if strings.ContainsAny(line, "•◦▪") {
		parts := strings.FieldsFunc(line, func(r rune) bool {
			return r == '•' || r == '◦' || r == '▪'
		})
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	return []string{line}
}

// trimBulletMarker drops a leading "-", "*", "•" or numbered-list marker
func trimBulletMarker(line string) string {
	for _, marker := range []string{"- ", "* ", "• ", "◦ ", "▪ "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest)
		}
	}
	// Numbered list: digits followed by "." or ")" and a space.
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line)-1 && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+2:])
	}
	return line
}

// normalizeText lower-cases for matching purposes and collapses whitespace
// runs. Punctuation is kept so certification patterns like "security+" and
// tech tokens like "c++" survive.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits normalized text into matching tokens. The tokenizer is
// tech-aware: '+', '#', '.' and '/' are word characters so "c++", "c#",
// "node.js" and "ci/cd" survive as single tokens.
func Tokenize(norm string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		w := word.String()
		word.Reset()
		w = strings.TrimRight(w, ".")
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	for _, r := range norm {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' || r == '/' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// TokenSet builds a set over stemmed tokens, dropping lexicon stopwords.
// Used for the Jaccard overlap in the matcher.
func TokenSet(tokens []string, lex *lexicon.Lexicon) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if lex.IsStopword(t) {
			continue
		}
		set[Stem(t)] = true
	}
	return set
}

// stemSuffixes are tried longest-first; stripping stops at the first hit
var stemSuffixes = []string{
	"izations", "ization", "ements", "ement", "ations", "ation",
	"ities", "ingly", "ness", "ing", "ers", "ies", "ity", "ed", "er", "ly", "s",
}

// Stem reduces a token to a crude base form so inflected variants collapse:
// "managing" and "management" both stem to "manag". The stemmer never
// shortens a token below three characters and leaves double-s endings alone.
func Stem(token string) string {
	if len(token) <= 3 {
		return token
	}
	if strings.HasSuffix(token, "ss") {
		return token
	}
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(token, suffix) {
			stem := token[:len(token)-len(suffix)]
			if len(stem) >= 3 {
				if suffix == "ies" {
					return stem + "y"
				}
				return stem
			}
		}
	}
	return token
}

// StemPhrase stems every token of a normalized phrase
func StemPhrase(norm string) string {
	tokens := Tokenize(norm)
	stemmed := make([]string, len(tokens))
	for i, t := range tokens {
		stemmed[i] = Stem(t)
	}
	return strings.Join(stemmed, " ")
}
