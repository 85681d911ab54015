package document

import "google.golang.org/genai"

// Response schemas handed to the completion capability. Each shape mirrors
// its Go type in this package, so the returned JSON unmarshals directly.

func segmentSchema() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: "One rich text segment. Plain text omits url; a hyperlink carries its destination in url.",
		Properties: map[string]*genai.Schema{
			"text": {Type: genai.TypeString, Description: "The visible text of the segment."},
			"url":  {Type: genai.TypeString, Description: "The destination URL when this segment is a hyperlink.", Nullable: genai.Ptr(true)},
		},
		Required: []string{"text"},
	}
}

func richTextSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: description,
		Properties: map[string]*genai.Schema{
			"segments": {
				Type:        genai.TypeArray,
				Description: "Ordered segments. Concatenating their text yields the plain rendering.",
				Items:       segmentSchema(),
			},
		},
		Required: []string{"segments"},
	}
}

func richTextArraySchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       richTextSchema(""),
	}
}

func stringArraySchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

func mediaSchema() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: "Professional social and web presence.",
		Properties: map[string]*genai.Schema{
			"portfolio": {Type: genai.TypeString, Description: "Personal website URL.", Nullable: genai.Ptr(true)},
			"linkedin":  {Type: genai.TypeString, Description: "LinkedIn profile URL.", Nullable: genai.Ptr(true)},
			"github":    {Type: genai.TypeString, Description: "GitHub profile URL.", Nullable: genai.Ptr(true)},
			"medium":    {Type: genai.TypeString, Description: "Medium profile URL.", Nullable: genai.Ptr(true)},
			"devpost":   {Type: genai.TypeString, Description: "Devpost profile URL.", Nullable: genai.Ptr(true)},
		},
	}
}

func personalInfoSchema() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: "Primary candidate information.",
		Properties: map[string]*genai.Schema{
			"name":     richTextSchema("Full name."),
			"location": richTextSchema("Location of the candidate."),
			"phone":    richTextSchema("Contact phone number."),
			"email":    richTextSchema("Professional email address."),
			"media":    mediaSchema(),
		},
		Required: []string{"name", "location", "phone", "email", "media"},
	}
}

func experienceSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"role":             richTextSchema("Job title or position held."),
			"company":          richTextSchema("Name of the employer."),
			"location":         richTextSchema("Location of the company."),
			"date_description": richTextSchema("Employment duration, e.g. 'Jan 2020 - Present'."),
			"description":      richTextArraySchema("High-impact bullet points quantifying achievements."),
		},
		Required: []string{"role", "company", "location", "date_description", "description"},
	}
}

func educationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"degree":           richTextSchema("The degree and major, e.g. 'B.S. in Computer Science'."),
			"university":       richTextSchema("Institution name."),
			"location":         richTextSchema("Where the institution is."),
			"date_description": richTextSchema("The period of study."),
			"grade":            richTextSchema("GPA, honors or class standing."),
			"courses":          richTextArraySchema("Relevant coursework."),
		},
		Required: []string{"degree", "university", "date_description"},
	}
}

func skillGroupSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":   richTextSchema("Category name of the skill group, e.g. 'Languages'."),
			"skills": richTextArraySchema("Skills within the group."),
		},
		Required: []string{"name", "skills"},
	}
}

func projectSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":             richTextSchema("The name or title of the project."),
			"type":             richTextSchema("Category, e.g. 'Open Source' or 'Hackathon'."),
			"link":             segmentSchema(),
			"resources":        {Type: genai.TypeArray, Description: "Supplementary links like slides or demos.", Items: segmentSchema()},
			"date_description": richTextSchema("Timeframe of the project."),
			"description":      richTextArraySchema("Bullet points in 'Did X by doing Y, achieved Z' format."),
		},
		Required: []string{"name", "date_description", "description"},
	}
}

func certificationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"certificate_info": richTextSchema("Certificate name, issuer and other information."),
			"date":             richTextSchema("Date of issuance or expiration."),
		},
		Required: []string{"certificate_info"},
	}
}

func achievementSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        richTextSchema("Title of the award or recognition."),
			"issued_by":   richTextSchema("The awarding body."),
			"date":        richTextSchema("Date of receipt."),
			"description": richTextArraySchema("Details of the award's significance."),
		},
		Required: []string{"name", "issued_by", "date", "description"},
	}
}

func researchWorkSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":            richTextSchema("Research role or project title."),
			"publication":      richTextSchema("Venue of publication."),
			"date_description": richTextSchema("Duration of research or publication date."),
			"link":             segmentSchema(),
			"description":      richTextArraySchema("Bullet points describing methodology and findings."),
		},
		Required: []string{"title", "date_description", "description"},
	}
}

func genericEntrySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":            richTextSchema("The primary heading for the entry."),
			"subtitle":         richTextSchema("Organization, location or secondary context."),
			"date_description": richTextSchema("Timeframe for the activity."),
			"description":      richTextArraySchema("Bullet points detailing responsibilities and impact."),
		},
		Required: []string{"title"},
	}
}

func genericSectionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"section_name":   richTextSchema("Title for the section."),
			"section_detail": {Type: genai.TypeArray, Description: "The entries belonging to this section.", Items: genericEntrySchema()},
		},
		Required: []string{"section_name", "section_detail"},
	}
}

// ResumeSchema is the response shape for resume extraction.
func ResumeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"personal_info":   personalInfoSchema(),
			"summary":         richTextSchema("A brief summary or objective statement."),
			"work_experience": {Type: genai.TypeArray, Description: "Professional work history.", Items: experienceSchema()},
			"education":       {Type: genai.TypeArray, Description: "Academic background.", Items: educationSchema()},
			"skill_sections":  {Type: genai.TypeArray, Description: "Categorized technical and soft skills.", Items: skillGroupSchema()},
			"projects":        {Type: genai.TypeArray, Description: "Technical or academic projects.", Items: projectSchema()},
			"certifications":  {Type: genai.TypeArray, Description: "Earned certifications and licenses.", Items: certificationSchema()},
			"achievements":    {Type: genai.TypeArray, Description: "Awards and recognitions.", Items: achievementSchema()},
			"research_works":  {Type: genai.TypeArray, Description: "Scientific or academic research contributions.", Items: researchWorkSchema()},
			"custom_sections": {Type: genai.TypeArray, Description: "Additional sections like volunteer work or interests.", Items: genericSectionSchema()},
			"keywords":        stringArraySchema("Strategic industry terms and technical concepts for ATS optimization."),
		},
		Required: []string{"personal_info"},
	}
}

func jobPostingSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"job_title":                       {Type: genai.TypeString, Description: "The advertised title."},
			"company":                         {Type: genai.TypeString, Description: "The hiring organization."},
			"required_qualifications":         stringArraySchema("Hard requirements stated by the posting."),
			"preferred_qualifications":        stringArraySchema("Nice-to-have qualifications."),
			"job_duties_and_responsibilities": stringArraySchema("Duties and responsibilities of the role."),
			"keywords":                        stringArraySchema("Concise terms useful for resume tailoring."),
		},
	}
}

// JobExtractionSchema is the response shape for job extraction. It classifies
// noise first; data must be null when is_noise_only is true.
func JobExtractionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"is_noise_only": {Type: genai.TypeBoolean, Description: "True when the text is a bot wall, login gate, consent screen or otherwise not a job posting."},
			"data":          withNullable(jobPostingSchema()),
		},
		Required: []string{"is_noise_only"},
	}
}

// ResultSchema wraps a section data shape in the relevance envelope.
func ResultSchema(data *genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"is_relevant": {Type: genai.TypeBoolean, Description: "Whether this section adds value for this specific job."},
			"data":        withNullable(data),
		},
		Required: []string{"is_relevant"},
	}
}

// Section data shapes for the tailoring registry.

// SummaryDataSchema is the tailored summary shape.
func SummaryDataSchema() *genai.Schema {
	return richTextSchema("A brief tailored summary highlighting key skills, experience and career goals.")
}

// ExperiencesDataSchema is the tailored work experience shape.
func ExperiencesDataSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: experienceSchema()}
}

// EducationDataSchema is the tailored education shape.
func EducationDataSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: educationSchema()}
}

// SkillsDataSchema is the tailored skill sections shape.
func SkillsDataSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: skillGroupSchema()}
}

// ProjectsDataSchema is the tailored projects shape.
func ProjectsDataSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: projectSchema()}
}

// CertificationsDataSchema is the tailored certifications shape.
func CertificationsDataSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: certificationSchema()}
}

// AchievementsDataSchema is the tailored achievements shape.
func AchievementsDataSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: achievementSchema()}
}

// ResearchWorksDataSchema is the tailored research works shape.
func ResearchWorksDataSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: researchWorkSchema()}
}

// CustomSectionDataSchema is the tailored shape for one custom section's entries.
func CustomSectionDataSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: genericEntrySchema()}
}

func withNullable(s *genai.Schema) *genai.Schema {
	s.Nullable = genai.Ptr(true)
	return s
}
