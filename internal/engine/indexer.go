package engine

import (
	"tailorkit/internal/lexicon"
	"tailorkit/internal/types"
)

// EvidenceUnit is one indexed, position-addressable piece of resume text.
// Skills entries, summary lines and experience bullets are all units, so a
// requirement can match against any of them.
type EvidenceUnit struct {
	Section     types.SectionKind
	EntryIndex  int
	BulletIndex int // -1 for non-bullet units
	Original    string
	Norm        string
	StemmedText string // space-joined stemmed tokens, for containment checks
	Tokens      map[string]bool
}

// ResumeIndex is the flat searchable representation of a resume
type ResumeIndex struct {
	Units []EvidenceUnit
}

// Indexer builds the resume index from a ResumeDocument
type Indexer struct {
	norm *Normalizer
	lex  *lexicon.Lexicon
}

// NewIndexer creates an indexer over the given lexicon snapshot
func NewIndexer(lex *lexicon.Lexicon) *Indexer {
	return &Indexer{norm: NewNormalizer(lex), lex: lex}
}

// Index flattens the resume into evidence units in document order. Experience
// entry titles are indexed alongside bullets so requirements can match
// against job titles.
func (ix *Indexer) Index(resume *types.ResumeDocument) *ResumeIndex {
	index := &ResumeIndex{}
	for _, section := range resume.Sections {
		for entryIdx, entry := range section.Entries {
			index.addUnit(ix.unit(section.Kind, entryIdx, -1, entry))
		}
		for entryIdx, exp := range section.Experiences {
			if exp.Title != "" {
				index.addUnit(ix.unit(section.Kind, entryIdx, -1, exp.Title))
			}
			for bulletIdx, bullet := range exp.Bullets {
				index.addUnit(ix.unit(section.Kind, entryIdx, bulletIdx, bullet))
			}
		}
	}
	return index
}

func (index *ResumeIndex) addUnit(u EvidenceUnit) {
	if u.Norm == "" {
		return
	}
	index.Units = append(index.Units, u)
}

// unit builds one evidence unit with its normalized and stemmed forms
func (ix *Indexer) unit(kind types.SectionKind, entryIdx, bulletIdx int, text string) EvidenceUnit {
	line := ix.norm.NormalizeStatement(text)
	return EvidenceUnit{
		Section:     kind,
		EntryIndex:  entryIdx,
		BulletIndex: bulletIdx,
		Original:    line.Original,
		Norm:        line.Norm,
		StemmedText: StemPhrase(line.Norm),
		Tokens:      TokenSet(line.Tokens, ix.lex),
	}
}

// IsEmpty reports whether the resume produced no evidence at all, which the
// orchestrator treats as insufficient input.
func (index *ResumeIndex) IsEmpty() bool {
	return len(index.Units) == 0
}
