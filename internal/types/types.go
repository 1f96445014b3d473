package types

// SectionKind identifies the kind of a resume section
type SectionKind string

const (
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
)

// ExperienceEntry represents one position in the experience section
type ExperienceEntry struct {
	Title        string   `json:"title" yaml:"title"`
	Organization string   `json:"organization" yaml:"organization"`
	DateRange    string   `json:"dateRange,omitempty" yaml:"dateRange,omitempty"`
	Bullets      []string `json:"bullets" yaml:"bullets"`
}

// Section represents one ordered section of a resume document.
// Summary, education and skills sections carry flat entries; experience
// sections carry structured entries instead.
type Section struct {
	Kind        SectionKind       `json:"kind" yaml:"kind"`
	Entries     []string          `json:"entries,omitempty" yaml:"entries,omitempty"`
	Experiences []ExperienceEntry `json:"experiences,omitempty" yaml:"experiences,omitempty"`
}

// ResumeDocument is the caller-owned structured resume. The engine reads it
// and never mutates it; tailoring produces a new TailoredResume value.
// Input types carry yaml tags as well since resume files may be authored in
// either JSON or YAML.
type ResumeDocument struct {
	Sections []Section `json:"sections" yaml:"sections"`
}

// JobPosting is the raw job-posting text plus optional structured hints
type JobPosting struct {
	Text    string `json:"text" yaml:"text"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Company string `json:"company,omitempty" yaml:"company,omitempty"`
}

// RequirementCategory classifies an extracted requirement
type RequirementCategory string

const (
	CategorySkill           RequirementCategory = "skill"
	CategoryTool            RequirementCategory = "tool"
	CategoryCertification   RequirementCategory = "certification"
	CategorySoftSkill       RequirementCategory = "soft-skill"
	CategoryExperienceLevel RequirementCategory = "experience-level"
)

// Requirement is a single qualification extracted from a job posting.
// IDs are unique within one analysis.
type Requirement struct {
	ID        string              `json:"id"`
	Text      string              `json:"text"`      // original-case phrase for display
	Canonical string              `json:"canonical"` // stemmed, lower-cased form used for matching and dedup
	Category  RequirementCategory `json:"category"`
	Weight    float64             `json:"weight"` // 1.0 required, 0.5 preferred, 0.7 contextual default
}

// MatchStatus describes how strongly a requirement is evidenced in the resume
type MatchStatus string

const (
	StatusMatched   MatchStatus = "matched"   // confidence >= 0.6
	StatusPartial   MatchStatus = "partial"   // confidence in [0.3, 0.6)
	StatusUnmatched MatchStatus = "unmatched" // confidence < 0.3
)

// EvidenceSpan points at one indexed piece of resume text supporting a match
type EvidenceSpan struct {
	Section     SectionKind `json:"section"`
	EntryIndex  int         `json:"entryIndex"`
	BulletIndex int         `json:"bulletIndex"` // -1 for non-bullet evidence (skills entries, summary lines)
	Text        string      `json:"text"`        // original-case resume text
	Confidence  float64     `json:"confidence"`
}

// MatchResult pairs a requirement with its evidence in the resume
type MatchResult struct {
	Requirement Requirement    `json:"requirement"`
	Status      MatchStatus    `json:"status"`
	Confidence  float64        `json:"confidence"` // confidence of the primary evidence, in [0,1]
	Primary     *EvidenceSpan  `json:"primary,omitempty"`
	Secondary   []EvidenceSpan `json:"secondary,omitempty"`
}

// SuggestionKind distinguishes the ways a suggestion changes the resume
type SuggestionKind string

const (
	SuggestionRewrite        SuggestionKind = "rewrite"
	SuggestionNewBullet      SuggestionKind = "new-bullet"
	SuggestionAcknowledgeGap SuggestionKind = "acknowledge-gap"
)

// EnhancementSuggestion is a proposed resume edit tied to one unmet requirement.
// Acknowledge-gap suggestions carry no proposed text; they flag a certification
// or experience-level requirement the resume cannot honestly claim.
type EnhancementSuggestion struct {
	RequirementID string         `json:"requirementId"`
	Kind          SuggestionKind `json:"kind"`
	Section       SectionKind    `json:"section,omitempty"`
	EntryIndex    int            `json:"entryIndex"`
	BulletIndex   int            `json:"bulletIndex"` // -1 means append a new bullet
	ProposedText  string         `json:"proposedText,omitempty"`
	// ScoreDelta is the deterministic contribution to the projected score:
	// weight * (1 - confidence) / totalWeight * 100.
	ScoreDelta float64 `json:"scoreDelta"`
}

// TailoredBullet is one bullet of a tailored resume with its provenance.
// RequirementID is set when the bullet was rewritten or added for a specific
// requirement, giving the diff traceable provenance.
type TailoredBullet struct {
	Text          string `json:"text"`
	RequirementID string `json:"requirementId,omitempty"`
}

// TailoredExperienceEntry mirrors ExperienceEntry with tagged bullets
type TailoredExperienceEntry struct {
	Title        string           `json:"title"`
	Organization string           `json:"organization"`
	DateRange    string           `json:"dateRange,omitempty"`
	Bullets      []TailoredBullet `json:"bullets"`
}

// TailoredSection mirrors Section with provenance-tagged content
type TailoredSection struct {
	Kind        SectionKind               `json:"kind"`
	Entries     []TailoredBullet          `json:"entries,omitempty"`
	Experiences []TailoredExperienceEntry `json:"experiences,omitempty"`
}

// TailoredResume is the resume with all suggestions applied
type TailoredResume struct {
	Sections []TailoredSection `json:"sections"`
}

// AnalysisResult aggregates the full outcome of one analysis request
type AnalysisResult struct {
	AnalysisID string `json:"analysisId"`
	// LexiconVersion records which lexicon tables produced this result
	LexiconVersion string `json:"lexiconVersion,omitempty"`

	Score          int `json:"score"`          // ATS score of the original resume, 0-100
	ProjectedScore int `json:"projectedScore"` // estimated score after applying all suggestions

	Matched   []MatchResult `json:"matched"`   // matched and partial requirements, extraction order
	Unmatched []MatchResult `json:"unmatched"` // unmatched requirements, extraction order

	// Suggestions are ordered by score delta descending, extraction order
	// breaking ties.
	Suggestions []EnhancementSuggestion `json:"suggestions"`

	Tailored TailoredResume `json:"tailoredResume"`
}

// MatchResults returns all match results of the analysis, matched first.
// Each slice keeps extraction order internally.
func (r *AnalysisResult) MatchResults() []MatchResult {
	all := make([]MatchResult, 0, len(r.Matched)+len(r.Unmatched))
	all = append(all, r.Matched...)
	all = append(all, r.Unmatched...)
	return all
}
