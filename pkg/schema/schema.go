package schema

import (
	"github.com/pkg/errors"
)

// SectionKey identifies one collection section.
type SectionKey string

// Collection sections in traversal order.
const (
	SectionPersonal   SectionKey = "personal"
	SectionEducation  SectionKey = "education"
	SectionExperience SectionKey = "experience"
	SectionProjects   SectionKey = "projects"
	SectionSkills     SectionKey = "skills"
	SectionAdditional SectionKey = "additional"
)

// Question is one prompt within a section.
type Question struct {
	Key      string
	Prompt   string
	Example  string
	Required bool
}

// Section is a static descriptor of one collection section. Repeatable
// sections accept zero or more sub-records.
type Section struct {
	Key        SectionKey
	Title      string
	Repeatable bool
	Questions  []Question
}

// Sections is the fixed traversal order of the questionnaire.
//
//nolint:gochecknoglobals // Static schema table
var Sections = []Section{
	{
		Key:   SectionPersonal,
		Title: "Personal information",
		Questions: []Question{
			{Key: "full_name", Prompt: "What is your name?\n\nFirst and last name", Example: "Jane Smith", Required: true},
			{Key: "email", Prompt: "Your email address", Example: "jane.smith@example.com", Required: true},
			{Key: "phone", Prompt: "Phone number", Example: "+1 555 123-4567", Required: true},
			{Key: "location", Prompt: "City you live in", Example: "Berlin", Required: false},
			{Key: "linkedin", Prompt: "LinkedIn profile, if you have one", Example: "linkedin.com/in/jane-smith", Required: false},
			{Key: "github", Prompt: "GitHub profile, if you have one", Example: "github.com/jane-smith", Required: false},
			{Key: "gitlab", Prompt: "GitLab profile, if you have one", Example: "gitlab.com/jane-smith", Required: false},
			{Key: "portfolio", Prompt: "Portfolio link (Behance, Dribbble, personal site)", Example: "janesmith.dev", Required: false},
		},
	},
	{
		Key:        SectionEducation,
		Title:      "Education",
		Repeatable: true,
		Questions: []Question{
			{Key: "institution", Prompt: "Name of the school or university", Example: "Technical University of Munich", Required: true},
			{Key: "program", Prompt: "Degree or program", Example: "BSc Applied Mathematics and Computer Science", Required: true},
			{Key: "study_period", Prompt: "Period of study", Example: "2019 - 2023", Required: true},
		},
	},
	{
		Key:        SectionExperience,
		Title:      "Work experience",
		Repeatable: true,
		Questions: []Question{
			{Key: "position", Prompt: "Job title", Example: "Junior Python Developer", Required: true},
			{Key: "company", Prompt: "Company", Example: "Acme Corp", Required: true},
			{Key: "work_period", Prompt: "Period of employment", Example: "June 2022 - present", Required: true},
			{Key: "responsibilities", Prompt: "Responsibilities and achievements\n\nPut each item on its own line", Example: "Built a REST API with FastAPI\nImproved throughput by 30%\nReviewed 15+ pull requests", Required: true},
		},
	},
	{
		Key:        SectionProjects,
		Title:      "Projects",
		Repeatable: true,
		Questions: []Question{
			{Key: "project_name", Prompt: "Project name", Example: "Data analysis chat bot", Required: true},
			{Key: "project_description", Prompt: "Description and results\n\nList technologies and outcomes, one per line", Example: "Built a bot in Go\nIntegrated pandas for analysis\n500+ active users", Required: true},
		},
	},
	{
		Key:   SectionSkills,
		Title: "Skills",
		Questions: []Question{
			{Key: "technical_skills", Prompt: "Technical skills\n\nComma-separated: languages, frameworks, tools", Example: "Python, JavaScript, React, PostgreSQL, Git, Docker", Required: true},
			{Key: "soft_skills", Prompt: "Soft skills\n\nComma-separated", Example: "Teamwork, Presentations, Time management", Required: false},
		},
	},
	{
		Key:   SectionAdditional,
		Title: "Additional",
		Questions: []Question{
			{Key: "achievements", Prompt: "Achievements\n\nAwards, competitions, certificates, one per line", Example: "Winner of AI Cup hackathon 2023\nGoogle Data Analytics Certificate", Required: false},
			{Key: "languages", Prompt: "Languages\n\nInclude proficiency level", Example: "German (native), English (C1), French (B1)", Required: true},
			{Key: "interests", Prompt: "Interests and hobbies\n\nOptional, but can make you stand out", Example: "Machine learning, open source, running", Required: false},
		},
	},
}

// Get returns the section descriptor for a key.
func Get(key SectionKey) (section Section, found bool) {
	for _, s := range Sections {
		if s.Key == key {
			section = s
			found = true
			return section, found
		}
	}
	return section, found
}

// Next returns the section following key in traversal order. found is false
// when key is the last section or unknown.
func Next(key SectionKey) (next SectionKey, found bool) {
	for i, s := range Sections {
		if s.Key == key {
			if i+1 < len(Sections) {
				next = Sections[i+1].Key
				found = true
			}
			return next, found
		}
	}
	return next, found
}

// First returns the first section in traversal order.
func First() (key SectionKey) {
	key = Sections[0].Key
	return key
}

// EditTarget resolves an editor section identifier to the schema position
// where editing starts. Bundled fields (achievements, languages, interests)
// live under the additional section and resolve by question key match.
func EditTarget(sectionID string) (key SectionKey, questionIdx int, err error) {
	switch sectionID {
	case "education", "experience", "projects", "skills":
		key = SectionKey(sectionID)
		return key, 0, nil
	case "achievements", "languages", "interests":
		key = SectionAdditional
		section, _ := Get(key)
		for idx, q := range section.Questions {
			if q.Key == sectionID {
				questionIdx = idx
				return key, questionIdx, nil
			}
		}
		err = errors.Errorf("no question for editor section: %s", sectionID)
		return key, questionIdx, err
	default:
		err = errors.Errorf("unknown editor section: %s", sectionID)
		return key, questionIdx, err
	}
}

// EditorSections lists the identifiers offered by the section editor, in
// display order.
//
//nolint:gochecknoglobals // Static schema table
var EditorSections = []string{
	"education", "experience", "projects", "skills",
	"achievements", "languages", "interests",
}

// Validate checks the schema table at startup: ordered sections with
// questions, globally unique question keys, and resolvable editor targets.
func Validate() (err error) {
	if len(Sections) == 0 {
		err = errors.New("schema has no sections")
		return err
	}

	seen := map[string]SectionKey{}
	for _, s := range Sections {
		if len(s.Questions) == 0 {
			err = errors.Errorf("section %s has no questions", s.Key)
			return err
		}
		for _, q := range s.Questions {
			if q.Key == "" {
				err = errors.Errorf("section %s has a question with empty key", s.Key)
				return err
			}
			if owner, dup := seen[q.Key]; dup {
				err = errors.Errorf("question key %s appears in both %s and %s", q.Key, owner, s.Key)
				return err
			}
			seen[q.Key] = s.Key
		}
	}

	for _, id := range EditorSections {
		_, _, err = EditTarget(id)
		if err != nil {
			err = errors.Wrap(err, "editor target validation failed")
			return err
		}
	}

	return err
}
