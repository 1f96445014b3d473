package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"tailorkit/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "TailoredResume", &TailoredTextFormatter{})
	registry.RegisterFormatter("markdown", "TailoredResume", &TailoredMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult, *types.AnalysisResult:
		return "AnalysisResult"
	case types.TailoredResume, *types.TailoredResume:
		return "TailoredResume"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asAnalysisResult(data any) (*types.AnalysisResult, error) {
	switch v := data.(type) {
	case *types.AnalysisResult:
		return v, nil
	case types.AnalysisResult:
		return &v, nil
	default:
		return nil, fmt.Errorf("expected AnalysisResult, got %T", data)
	}
}

func asTailoredResume(data any) (*types.TailoredResume, error) {
	switch v := data.(type) {
	case *types.TailoredResume:
		return v, nil
	case types.TailoredResume:
		return &v, nil
	default:
		return nil, fmt.Errorf("expected TailoredResume, got %T", data)
	}
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, err := asAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== ATS ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100 (projected after edits: %d/100)\n", result.Score, result.ProjectedScore))
	output.WriteString(fmt.Sprintf("Analysis ID: %s\n", result.AnalysisID))
	if result.LexiconVersion != "" {
		output.WriteString(fmt.Sprintf("Lexicon: %s\n", result.LexiconVersion))
	}
	output.WriteString("\n")

	if len(result.Matched) > 0 {
		output.WriteString("=== MATCHED REQUIREMENTS ===\n")
		for _, m := range result.Matched {
			output.WriteString(fmt.Sprintf("- %s [%s, confidence %.2f, weight %.1f]\n",
				m.Requirement.Text, m.Status, m.Confidence, m.Requirement.Weight))
			if m.Primary != nil {
				output.WriteString(fmt.Sprintf("  Evidence: %s\n", m.Primary.Text))
			}
		}
		output.WriteString("\n")
	}

	if len(result.Unmatched) > 0 {
		output.WriteString("=== UNMATCHED REQUIREMENTS ===\n")
		for _, m := range result.Unmatched {
			output.WriteString(fmt.Sprintf("- %s [%s, weight %.1f]\n",
				m.Requirement.Text, m.Requirement.Category, m.Requirement.Weight))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		for i, s := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. [%s, +%.1f points] %s\n",
				i+1, s.Kind, s.ScoreDelta, suggestionSummary(s, result)))
		}
	} else {
		output.WriteString("No suggestions; the resume already covers every requirement.\n")
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// suggestionSummary renders a one-line description of a suggestion
func suggestionSummary(s types.EnhancementSuggestion, result *types.AnalysisResult) string {
	reqText := s.RequirementID
	for _, m := range result.MatchResults() {
		if m.Requirement.ID == s.RequirementID {
			reqText = m.Requirement.Text
			break
		}
	}

	switch s.Kind {
	case types.SuggestionAcknowledgeGap:
		return fmt.Sprintf("Cannot honestly claim %q; consider addressing it in a cover letter", reqText)
	case types.SuggestionRewrite:
		return fmt.Sprintf("Rewrite a bullet to surface %q: %s", reqText, s.ProposedText)
	default:
		return fmt.Sprintf("Add for %q: %s", reqText, s.ProposedText)
	}
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, err := asAnalysisResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# ATS Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.Score))
	output.WriteString(fmt.Sprintf("**Projected score after edits:** %d/100\n\n", result.ProjectedScore))
	output.WriteString(fmt.Sprintf("**Analysis ID:** `%s`\n\n", result.AnalysisID))

	if len(result.Matched) > 0 {
		output.WriteString("## Matched Requirements\n\n")
		for _, m := range result.Matched {
			output.WriteString(fmt.Sprintf("- **%s** (%s, confidence %.2f)\n",
				m.Requirement.Text, m.Status, m.Confidence))
			if m.Primary != nil {
				output.WriteString(fmt.Sprintf("  - Evidence: %s\n", m.Primary.Text))
			}
		}
		output.WriteString("\n")
	}

	if len(result.Unmatched) > 0 {
		output.WriteString("## Unmatched Requirements\n\n")
		for _, m := range result.Unmatched {
			output.WriteString(fmt.Sprintf("- **%s** (%s)\n", m.Requirement.Text, m.Requirement.Category))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, s := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. **%s** (+%.1f points): %s\n",
				i+1, s.Kind, s.ScoreDelta, suggestionSummary(s, result)))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// TailoredTextFormatter handles text formatting for tailored resumes
type TailoredTextFormatter struct{}

func (ttf *TailoredTextFormatter) Format(data any) (string, error) {
	resume, err := asTailoredResume(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	output.WriteString("=== TAILORED RESUME ===\n\n")

	for _, section := range resume.Sections {
		output.WriteString(strings.ToUpper(string(section.Kind)))
		output.WriteString("\n")
		for _, entry := range section.Entries {
			output.WriteString(fmt.Sprintf("- %s%s\n", entry.Text, provenanceTag(entry)))
		}
		for _, exp := range section.Experiences {
			output.WriteString(exp.Title)
			if exp.Organization != "" {
				output.WriteString(" | " + exp.Organization)
			}
			if exp.DateRange != "" {
				output.WriteString(" | " + exp.DateRange)
			}
			output.WriteString("\n")
			for _, b := range exp.Bullets {
				output.WriteString(fmt.Sprintf("- %s%s\n", b.Text, provenanceTag(b)))
			}
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (ttf *TailoredTextFormatter) SupportedType() string {
	return "TailoredResume"
}

// provenanceTag marks bullets that were rewritten or added for a requirement
func provenanceTag(b types.TailoredBullet) string {
	if b.RequirementID == "" {
		return ""
	}
	return fmt.Sprintf(" [%s]", b.RequirementID)
}

// TailoredMarkdownFormatter handles markdown formatting for tailored resumes
type TailoredMarkdownFormatter struct{}

func (tmf *TailoredMarkdownFormatter) Format(data any) (string, error) {
	resume, err := asTailoredResume(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	output.WriteString("# Tailored Resume\n\n")

	for _, section := range resume.Sections {
		output.WriteString(fmt.Sprintf("## %s\n\n", sectionTitle(section.Kind)))
		for _, entry := range section.Entries {
			output.WriteString(fmt.Sprintf("- %s%s\n", entry.Text, provenanceTag(entry)))
		}
		for _, exp := range section.Experiences {
			output.WriteString(fmt.Sprintf("### %s", exp.Title))
			if exp.Organization != "" {
				output.WriteString(", " + exp.Organization)
			}
			output.WriteString("\n\n")
			if exp.DateRange != "" {
				output.WriteString(fmt.Sprintf("*%s*\n\n", exp.DateRange))
			}
			for _, b := range exp.Bullets {
				output.WriteString(fmt.Sprintf("- %s%s\n", b.Text, provenanceTag(b)))
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (tmf *TailoredMarkdownFormatter) SupportedType() string {
	return "TailoredResume"
}

func sectionTitle(kind types.SectionKind) string {
	switch kind {
	case types.SectionSummary:
		return "Summary"
	case types.SectionExperience:
		return "Experience"
	case types.SectionEducation:
		return "Education"
	case types.SectionSkills:
		return "Skills"
	default:
		return string(kind)
	}
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
