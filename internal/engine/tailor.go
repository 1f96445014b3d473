package engine

import (
	"tailorkit/internal/types"
)

// BuildTailored applies suggestions to a copy of the resume and returns the
// tailored document. The input resume is never mutated. Every rewritten or
// added bullet carries the id of the requirement that motivated it, so the
// caller can render an explainable diff.
//
// Acknowledge-gap suggestions change nothing: they only flag requirements
// the resume cannot honestly claim.
func BuildTailored(resume *types.ResumeDocument, suggestions []types.EnhancementSuggestion) types.TailoredResume {
	tailored := cloneResume(resume)

	for _, sug := range suggestions {
		switch sug.Kind {
		case types.SuggestionRewrite:
			applyRewrite(&tailored, sug)
		case types.SuggestionNewBullet:
			applyNewBullet(&tailored, sug)
		case types.SuggestionAcknowledgeGap:
			// Flag only, no resume change.
		}
	}

	return tailored
}

// cloneResume copies the resume into the provenance-tagged representation
func cloneResume(resume *types.ResumeDocument) types.TailoredResume {
	out := types.TailoredResume{Sections: make([]types.TailoredSection, 0, len(resume.Sections))}
	for _, section := range resume.Sections {
		ts := types.TailoredSection{Kind: section.Kind}
		for _, entry := range section.Entries {
			ts.Entries = append(ts.Entries, types.TailoredBullet{Text: entry})
		}
		for _, exp := range section.Experiences {
			te := types.TailoredExperienceEntry{
				Title:        exp.Title,
				Organization: exp.Organization,
				DateRange:    exp.DateRange,
			}
			for _, b := range exp.Bullets {
				te.Bullets = append(te.Bullets, types.TailoredBullet{Text: b})
			}
			ts.Experiences = append(ts.Experiences, te)
		}
		out.Sections = append(out.Sections, ts)
	}
	return out
}

func applyRewrite(t *types.TailoredResume, sug types.EnhancementSuggestion) {
	section := findSection(t, sug.Section)
	if section == nil || sug.EntryIndex < 0 || sug.EntryIndex >= len(section.Experiences) {
		return
	}
	entry := &section.Experiences[sug.EntryIndex]
	if sug.BulletIndex < 0 || sug.BulletIndex >= len(entry.Bullets) {
		return
	}
	entry.Bullets[sug.BulletIndex] = types.TailoredBullet{
		Text:          sug.ProposedText,
		RequirementID: sug.RequirementID,
	}
}

func applyNewBullet(t *types.TailoredResume, sug types.EnhancementSuggestion) {
	bullet := types.TailoredBullet{Text: sug.ProposedText, RequirementID: sug.RequirementID}

	if sug.Section == types.SectionExperience {
		section := findSection(t, types.SectionExperience)
		if section == nil || sug.EntryIndex < 0 || sug.EntryIndex >= len(section.Experiences) {
			return
		}
		entry := &section.Experiences[sug.EntryIndex]
		entry.Bullets = append(entry.Bullets, bullet)
		return
	}

	// Skills entries: append to the existing section, creating it when the
	// resume has none.
	section := findSection(t, types.SectionSkills)
	if section == nil {
		t.Sections = append(t.Sections, types.TailoredSection{Kind: types.SectionSkills})
		section = &t.Sections[len(t.Sections)-1]
	}
	section.Entries = append(section.Entries, bullet)
}

// findSection returns the first section of the given kind, or nil
func findSection(t *types.TailoredResume, kind types.SectionKind) *types.TailoredSection {
	for i := range t.Sections {
		if t.Sections[i].Kind == kind {
			return &t.Sections[i]
		}
	}
	return nil
}
