package document

import "github.com/resfit/resfit/internal/richtext"

// Media lists the candidate's professional web presence.
type Media struct {
	Portfolio string `json:"portfolio,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Medium    string `json:"medium,omitempty"`
	Devpost   string `json:"devpost,omitempty"`
}

// PersonalInfo is copied verbatim into the tailored output; it is never sent
// to the model for rewriting.
type PersonalInfo struct {
	Name     richtext.RichText `json:"name"`
	Location richtext.RichText `json:"location"`
	Phone    richtext.RichText `json:"phone"`
	Email    richtext.RichText `json:"email"`
	Media    Media             `json:"media"`
}

// Experience is one entry of professional work history.
type Experience struct {
	Role        richtext.RichText   `json:"role"`
	Company     richtext.RichText   `json:"company"`
	Location    richtext.RichText   `json:"location"`
	DatePeriod  richtext.RichText   `json:"date_description"`
	Description []richtext.RichText `json:"description"`
}

// Education is one entry of academic background.
type Education struct {
	Degree     richtext.RichText   `json:"degree"`
	University richtext.RichText   `json:"university"`
	Location   *richtext.RichText  `json:"location,omitempty"`
	DatePeriod richtext.RichText   `json:"date_description"`
	Grade      *richtext.RichText  `json:"grade,omitempty"`
	Courses    []richtext.RichText `json:"courses,omitempty"`
}

// SkillGroup is a named category of skills, e.g. "Languages".
type SkillGroup struct {
	Name   richtext.RichText   `json:"name"`
	Skills []richtext.RichText `json:"skills"`
}

// Project is one technical or academic project.
type Project struct {
	Name        richtext.RichText   `json:"name"`
	Type        *richtext.RichText  `json:"type,omitempty"`
	Link        *richtext.Segment   `json:"link,omitempty"`
	Resources   []richtext.Segment  `json:"resources,omitempty"`
	DatePeriod  richtext.RichText   `json:"date_description"`
	Description []richtext.RichText `json:"description"`
}

// Certification is one earned certificate or license.
type Certification struct {
	Info richtext.RichText  `json:"certificate_info"`
	Date *richtext.RichText `json:"date,omitempty"`
}

// Achievement is one award or recognition.
type Achievement struct {
	Name        richtext.RichText   `json:"name"`
	IssuedBy    richtext.RichText   `json:"issued_by"`
	Date        richtext.RichText   `json:"date"`
	Description []richtext.RichText `json:"description"`
}

// ResearchWork is one scientific or academic contribution.
type ResearchWork struct {
	Title       richtext.RichText   `json:"title"`
	Publication *richtext.RichText  `json:"publication,omitempty"`
	DatePeriod  richtext.RichText   `json:"date_description"`
	Link        *richtext.Segment   `json:"link,omitempty"`
	Description []richtext.RichText `json:"description"`
}

// GenericEntry is one entry of an arbitrary named section, such as volunteer
// work or interests.
type GenericEntry struct {
	Title       richtext.RichText   `json:"title"`
	Subtitle    *richtext.RichText  `json:"subtitle,omitempty"`
	DatePeriod  *richtext.RichText  `json:"date_description,omitempty"`
	Description []richtext.RichText `json:"description,omitempty"`
}

// GenericSection is a named group of generic entries.
type GenericSection struct {
	Name    richtext.RichText `json:"section_name"`
	Entries []GenericEntry    `json:"section_detail"`
}

// Resume is the structured form of an extracted resume. It is produced once
// per pipeline run (from cache or a model call) and is read-only afterward;
// tailoring derives a new document and never mutates this one.
type Resume struct {
	PersonalInfo   PersonalInfo       `json:"personal_info"`
	Summary        *richtext.RichText `json:"summary,omitempty"`
	WorkExperience []Experience       `json:"work_experience,omitempty"`
	Education      []Education        `json:"education,omitempty"`
	SkillSections  []SkillGroup       `json:"skill_sections,omitempty"`
	Projects       []Project          `json:"projects,omitempty"`
	Certifications []Certification    `json:"certifications,omitempty"`
	Achievements   []Achievement      `json:"achievements,omitempty"`
	ResearchWorks  []ResearchWork     `json:"research_works,omitempty"`
	CustomSections []GenericSection   `json:"custom_sections,omitempty"`
	Keywords       []string           `json:"keywords,omitempty"`
}

// JobPosting is the structured form of an extracted job posting.
type JobPosting struct {
	Title                   string   `json:"job_title,omitempty"`
	Company                 string   `json:"company,omitempty"`
	RequiredQualifications  []string `json:"required_qualifications,omitempty"`
	PreferredQualifications []string `json:"preferred_qualifications,omitempty"`
	Duties                  []string `json:"job_duties_and_responsibilities,omitempty"`
	Keywords                []string `json:"keywords,omitempty"`
}

// JobExtraction wraps the job posting with the noise classification the model
// performs before extracting. When IsNoiseOnly is true Data must be nil and
// the pipeline fails fast, before any resume work.
type JobExtraction struct {
	IsNoiseOnly bool        `json:"is_noise_only"`
	Data        *JobPosting `json:"data"`
}

// TailoredResume is the assembler's output: personal info verbatim plus only
// the sections whose tailoring verdict was relevant. Owned by one pipeline
// run, never shared.
type TailoredResume struct {
	PersonalInfo   PersonalInfo              `json:"personal_info"`
	Summary        *richtext.RichText        `json:"summary,omitempty"`
	WorkExperience []Experience              `json:"work_experience,omitempty"`
	Education      []Education               `json:"education,omitempty"`
	SkillSections  []SkillGroup              `json:"skill_sections,omitempty"`
	Projects       []Project                 `json:"projects,omitempty"`
	Certifications []Certification           `json:"certifications,omitempty"`
	Achievements   []Achievement             `json:"achievements,omitempty"`
	ResearchWorks  []ResearchWork            `json:"research_works,omitempty"`
	CustomSections map[string][]GenericEntry `json:"custom_sections,omitempty"`
}
