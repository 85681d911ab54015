package tailor

import (
	"github.com/resfit/resfit/internal/document"
	"github.com/resfit/resfit/internal/richtext"
)

// Assemble builds the tailored document from the outcomes. Personal info is
// copied verbatim from the source resume; failed and not-relevant sections
// are left out. Assembly is pure: the same inputs always yield the same
// document, regardless of the order sections finished in.
func Assemble(resume *document.Resume, outcomes []Outcome) *document.TailoredResume {
	out := &document.TailoredResume{
		PersonalInfo: resume.PersonalInfo,
	}

	for _, outcome := range outcomes {
		if outcome.Err != nil || outcome.Data == nil {
			continue
		}

		switch outcome.Task.Kind {
		case KindSummary:
			if data, ok := outcome.Data.(*richtext.RichText); ok {
				out.Summary = data
			}
		case KindWorkExperience:
			if data, ok := outcome.Data.(*[]document.Experience); ok {
				out.WorkExperience = *data
			}
		case KindEducation:
			if data, ok := outcome.Data.(*[]document.Education); ok {
				out.Education = *data
			}
		case KindSkills:
			if data, ok := outcome.Data.(*[]document.SkillGroup); ok {
				out.SkillSections = *data
			}
		case KindProjects:
			if data, ok := outcome.Data.(*[]document.Project); ok {
				out.Projects = *data
			}
		case KindCertifications:
			if data, ok := outcome.Data.(*[]document.Certification); ok {
				out.Certifications = *data
			}
		case KindAchievements:
			if data, ok := outcome.Data.(*[]document.Achievement); ok {
				out.Achievements = *data
			}
		case KindResearchWorks:
			if data, ok := outcome.Data.(*[]document.ResearchWork); ok {
				out.ResearchWorks = *data
			}
		case KindCustom:
			if data, ok := outcome.Data.(*[]document.GenericEntry); ok {
				if out.CustomSections == nil {
					out.CustomSections = map[string][]document.GenericEntry{}
				}
				out.CustomSections[outcome.Task.Name] = *data
			}
		}
	}

	return out
}
