package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads lexicon tables from a YAML file and merges them over the
// compiled-in defaults: a table present in the file replaces the default
// table wholesale, an absent table keeps the default. The file must carry a
// version so operators can tell which tables produced a result.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file %s: %w", path, err)
	}

	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file %s: %w", path, err)
	}
	if override.Version == "" {
		return nil, fmt.Errorf("lexicon file %s has no version field", path)
	}

	lex := merge(Default(), &override)
	if err := lex.compile(); err != nil {
		return nil, fmt.Errorf("invalid lexicon file %s: %w", path, err)
	}
	return lex, nil
}

// merge overlays non-empty override tables on the base lexicon
func merge(base, override *Lexicon) *Lexicon {
	out := &Lexicon{
		Version:               override.Version,
		Skills:                pick(override.Skills, base.Skills),
		Tools:                 pick(override.Tools, base.Tools),
		SoftSkills:            pick(override.SoftSkills, base.SoftSkills),
		Stopwords:             pick(override.Stopwords, base.Stopwords),
		BoilerplateHeaders:    pick(override.BoilerplateHeaders, base.BoilerplateHeaders),
		SectionLabels:         pick(override.SectionLabels, base.SectionLabels),
		RequiredCues:          pick(override.RequiredCues, base.RequiredCues),
		PreferredCues:         pick(override.PreferredCues, base.PreferredCues),
		CertificationPatterns: pick(override.CertificationPatterns, base.CertificationPatterns),
		ExperiencePatterns:    pick(override.ExperiencePatterns, base.ExperiencePatterns),
		Synonyms:              base.Synonyms,
	}
	if len(override.Synonyms) > 0 {
		out.Synonyms = override.Synonyms
	}
	return out
}

func pick(override, base []string) []string {
	if len(override) > 0 {
		return override
	}
	return base
}
