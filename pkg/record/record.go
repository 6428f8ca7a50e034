package record

import (
	"strings"

	"github.com/karbar/resumeforge/pkg/schema"
	"github.com/pkg/errors"
)

// EducationEntry is one education sub-record.
type EducationEntry struct {
	Institution string `json:"institution"`
	Program     string `json:"program"`
	Period      string `json:"period"`
}

// ExperienceEntry is one work-experience sub-record. Description holds the
// raw multi-line responsibilities text as entered.
type ExperienceEntry struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// ProjectEntry is one project sub-record.
type ProjectEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExtractedSkills is the three-bucket output of the skill extractor.
type ExtractedSkills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Keywords  []string `json:"keywords"`
}

// Empty reports whether no bucket holds any term.
func (e *ExtractedSkills) Empty() (empty bool) {
	if e == nil {
		empty = true
		return empty
	}
	empty = len(e.Technical) == 0 && len(e.Soft) == 0 && len(e.Keywords) == 0
	return empty
}

// Record is the accumulating per-user resume data.
type Record struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	GitLab    string `json:"gitlab"`
	Portfolio string `json:"portfolio"`

	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
	Projects   []ProjectEntry    `json:"projects"`

	TechnicalSkills string `json:"technical_skills"`
	SoftSkills      string `json:"soft_skills"`
	Achievements    string `json:"achievements"`
	Languages       string `json:"languages"`
	Interests       string `json:"interests"`

	VacancyText     string           `json:"vacancy_text"`
	ExtractedSkills *ExtractedSkills `json:"extracted_skills,omitempty"`
}

// Item is a staged sub-record being filled question by question. Keys are
// question keys from the schema.
type Item map[string]string

// Empty reports whether every staged field is blank.
func (i Item) Empty() (empty bool) {
	for _, v := range i {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	empty = true
	return empty
}

// SetField assigns a scalar answer onto the record by question key.
func (r *Record) SetField(key, value string) (err error) {
	switch key {
	case "full_name":
		r.FullName = value
	case "email":
		r.Email = value
	case "phone":
		r.Phone = value
	case "location":
		r.Location = value
	case "linkedin":
		r.LinkedIn = value
	case "github":
		r.GitHub = value
	case "gitlab":
		r.GitLab = value
	case "portfolio":
		r.Portfolio = value
	case "technical_skills":
		r.TechnicalSkills = value
	case "soft_skills":
		r.SoftSkills = value
	case "achievements":
		r.Achievements = value
	case "languages":
		r.Languages = value
	case "interests":
		r.Interests = value
	default:
		err = errors.Errorf("no scalar field for question key: %s", key)
	}
	return err
}

// Field reads a scalar answer by question key.
func (r *Record) Field(key string) (value string) {
	switch key {
	case "full_name":
		value = r.FullName
	case "email":
		value = r.Email
	case "phone":
		value = r.Phone
	case "location":
		value = r.Location
	case "linkedin":
		value = r.LinkedIn
	case "github":
		value = r.GitHub
	case "gitlab":
		value = r.GitLab
	case "portfolio":
		value = r.Portfolio
	case "technical_skills":
		value = r.TechnicalSkills
	case "soft_skills":
		value = r.SoftSkills
	case "achievements":
		value = r.Achievements
	case "languages":
		value = r.Languages
	case "interests":
		value = r.Interests
	}
	return value
}

// CommitItem converts a staged item into a typed sub-record and appends it to
// the section's sequence, or updates in place when atIndex is non-negative.
// Empty items are dropped without touching the sequence.
func (r *Record) CommitItem(section schema.SectionKey, item Item, atIndex int) (err error) {
	if item.Empty() {
		return err
	}

	switch section {
	case schema.SectionEducation:
		entry := EducationEntry{
			Institution: item["institution"],
			Program:     item["program"],
			Period:      item["study_period"],
		}
		if atIndex >= 0 && atIndex < len(r.Education) {
			r.Education[atIndex] = entry
		} else {
			r.Education = append(r.Education, entry)
		}
	case schema.SectionExperience:
		entry := ExperienceEntry{
			Position:    item["position"],
			Company:     item["company"],
			Period:      item["work_period"],
			Description: item["responsibilities"],
		}
		if atIndex >= 0 && atIndex < len(r.Experience) {
			r.Experience[atIndex] = entry
		} else {
			r.Experience = append(r.Experience, entry)
		}
	case schema.SectionProjects:
		entry := ProjectEntry{
			Name:        item["project_name"],
			Description: item["project_description"],
		}
		if atIndex >= 0 && atIndex < len(r.Projects) {
			r.Projects[atIndex] = entry
		} else {
			r.Projects = append(r.Projects, entry)
		}
	default:
		err = errors.Errorf("section is not repeatable: %s", section)
	}

	return err
}

// ClearSection empties the fields backing an editor section. Repeatable
// sequences are cleared rather than left partially set.
func (r *Record) ClearSection(sectionID string) {
	switch sectionID {
	case "education":
		r.Education = nil
	case "experience":
		r.Experience = nil
	case "projects":
		r.Projects = nil
	case "skills":
		r.TechnicalSkills = ""
		r.SoftSkills = ""
	case "achievements":
		r.Achievements = ""
	case "languages":
		r.Languages = ""
	case "interests":
		r.Interests = ""
	}
}

// SectionFilled reports whether an editor section has backing data.
func (r *Record) SectionFilled(sectionID string) (filled bool) {
	switch sectionID {
	case "education":
		filled = len(r.Education) > 0
	case "experience":
		filled = len(r.Experience) > 0
	case "projects":
		filled = len(r.Projects) > 0
	case "skills":
		filled = r.TechnicalSkills != ""
	case "achievements":
		filled = r.Achievements != ""
	case "languages":
		filled = r.Languages != ""
	case "interests":
		filled = r.Interests != ""
	}
	return filled
}
