// Package tailor rewrites each resume section against a job posting. Sections
// are tailored concurrently under a bounded admission gate; a failed section
// is logged and omitted while the rest of the run proceeds.
package tailor

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/resfit/resfit/internal/document"
	"github.com/resfit/resfit/internal/richtext"
)

// Kind identifies one tailorable resume section. The set of kinds is closed:
// adding a section means adding a kind, its prompt and its assembly rule.
type Kind int

const (
	KindSummary Kind = iota
	KindWorkExperience
	KindEducation
	KindSkills
	KindProjects
	KindCertifications
	KindAchievements
	KindResearchWorks
	KindCustom
)

var kindNames = map[Kind]string{
	KindSummary:        "summary",
	KindWorkExperience: "work_experience",
	KindEducation:      "education",
	KindSkills:         "skill_sections",
	KindProjects:       "projects",
	KindCertifications: "certifications",
	KindAchievements:   "achievements",
	KindResearchWorks:  "research_works",
	KindCustom:         "custom_sections",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	//go:embed prompts/summary.md
	summaryPrompt string
	//go:embed prompts/experience.md
	experiencePrompt string
	//go:embed prompts/education.md
	educationPrompt string
	//go:embed prompts/skills.md
	skillsPrompt string
	//go:embed prompts/projects.md
	projectsPrompt string
	//go:embed prompts/certifications.md
	certificationsPrompt string
	//go:embed prompts/achievements.md
	achievementsPrompt string
	//go:embed prompts/research_works.md
	researchWorksPrompt string
	//go:embed prompts/custom_sections.md
	customSectionsPrompt string
)

// Task is one unit of tailoring work: a section payload, the prompt and
// schema that rewrite it, and the decoder for the model's verdict.
type Task struct {
	Kind Kind
	// Name tags the payload in the user prompt. For custom sections it is
	// the section's own heading; otherwise it equals Kind.String().
	Name    string
	system  string
	schema  *genai.Schema
	payload string
	decode  func(raw []byte) (any, error)
}

// decodeResult unmarshals a model verdict for section data of type T and
// returns the data, or nil when the section was judged not relevant.
func decodeResult[T any](raw []byte) (any, error) {
	var result document.Result[T]
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding section result: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	if !result.IsRelevant {
		return nil, nil
	}
	return result.Data, nil
}

// Plan derives the tasks for one resume in deterministic order: the standard
// sections first, then each custom section under its own heading. Personal
// info and keywords are never tailored; empty sections are skipped. The
// summary is always planned and receives the complete resume as context.
func Plan(resume *document.Resume) ([]Task, error) {
	full, err := json.Marshal(resume)
	if err != nil {
		return nil, fmt.Errorf("encoding resume: %w", err)
	}

	tasks := []Task{{
		Kind:    KindSummary,
		Name:    KindSummary.String(),
		system:  summaryPrompt,
		schema:  document.ResultSchema(document.SummaryDataSchema()),
		payload: string(full),
		decode:  decodeResult[richtext.RichText],
	}}

	standard := []struct {
		kind   Kind
		empty  bool
		system string
		schema *genai.Schema
		data   any
		decode func([]byte) (any, error)
	}{
		{KindWorkExperience, len(resume.WorkExperience) == 0, experiencePrompt,
			document.ExperiencesDataSchema(), resume.WorkExperience, decodeResult[[]document.Experience]},
		{KindEducation, len(resume.Education) == 0, educationPrompt,
			document.EducationDataSchema(), resume.Education, decodeResult[[]document.Education]},
		{KindSkills, len(resume.SkillSections) == 0, skillsPrompt,
			document.SkillsDataSchema(), resume.SkillSections, decodeResult[[]document.SkillGroup]},
		{KindProjects, len(resume.Projects) == 0, projectsPrompt,
			document.ProjectsDataSchema(), resume.Projects, decodeResult[[]document.Project]},
		{KindCertifications, len(resume.Certifications) == 0, certificationsPrompt,
			document.CertificationsDataSchema(), resume.Certifications, decodeResult[[]document.Certification]},
		{KindAchievements, len(resume.Achievements) == 0, achievementsPrompt,
			document.AchievementsDataSchema(), resume.Achievements, decodeResult[[]document.Achievement]},
		{KindResearchWorks, len(resume.ResearchWorks) == 0, researchWorksPrompt,
			document.ResearchWorksDataSchema(), resume.ResearchWorks, decodeResult[[]document.ResearchWork]},
	}

	for _, s := range standard {
		if s.empty {
			continue
		}
		payload, err := json.Marshal(s.data)
		if err != nil {
			return nil, fmt.Errorf("encoding %s section: %w", s.kind, err)
		}
		tasks = append(tasks, Task{
			Kind:    s.kind,
			Name:    s.kind.String(),
			system:  s.system,
			schema:  document.ResultSchema(s.schema),
			payload: string(payload),
			decode:  s.decode,
		})
	}

	for _, section := range resume.CustomSections {
		name := section.Name.PlainText()
		if name == "" || len(section.Entries) == 0 {
			continue
		}
		payload, err := json.Marshal(section.Entries)
		if err != nil {
			return nil, fmt.Errorf("encoding custom section %q: %w", name, err)
		}
		tasks = append(tasks, Task{
			Kind:    KindCustom,
			Name:    name,
			system:  customSectionsPrompt,
			schema:  document.ResultSchema(document.CustomSectionDataSchema()),
			payload: string(payload),
			decode:  decodeResult[[]document.GenericEntry],
		})
	}

	return tasks, nil
}
