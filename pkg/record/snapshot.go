package record

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Completion status values carried on a snapshot.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Feedback holds the questionnaire answers collected after a resume is
// delivered. Keys mirror schema.FeedbackQuestions.
type Feedback struct {
	ResumeRating      string `json:"resume_rating,omitempty"`
	WillUse           string `json:"will_use,omitempty"`
	EditingTime       string `json:"editing_time,omitempty"`
	DidEdit           string `json:"did_edit,omitempty"`
	OverallExperience string `json:"overall_experience,omitempty"`
	Comment           string `json:"comment,omitempty"`
}

// Set assigns an answer by feedback question key.
func (f *Feedback) Set(key, value string) {
	switch key {
	case "resume_rating":
		f.ResumeRating = value
	case "will_use":
		f.WillUse = value
	case "editing_time":
		f.EditingTime = value
	case "did_edit":
		f.DidEdit = value
	case "overall_experience":
		f.OverallExperience = value
	case "comment":
		f.Comment = value
	}
}

// Snapshot is the flattened form of a Record plus metadata that the
// persistence collaborator stores, keyed by user identifier. Sequences and
// structured results travel as JSON strings so the storage schema stays flat.
type Snapshot struct {
	UserID          string
	Username        string
	RegisteredAt    time.Time
	FullName        string
	Email           string
	Phone           string
	Location        string
	LinkedIn        string
	GitHub          string
	GitLab          string
	Portfolio       string
	EducationJSON   string
	ExperienceJSON  string
	ProjectsJSON    string
	TechnicalSkills string
	SoftSkills      string
	Achievements    string
	Languages       string
	Interests       string
	VacancyText     string
	KeywordsJSON    string
	FeedbackJSON    string
	Status          string
	CompletedAt     time.Time
}

// NewSnapshot flattens a record for persistence.
func NewSnapshot(userID, username string, registeredAt time.Time, r *Record, fb *Feedback, status string, completedAt time.Time) (snap Snapshot, err error) {
	eduJSON, err := marshalOrEmpty(r.Education)
	if err != nil {
		err = errors.Wrap(err, "failed to flatten education")
		return snap, err
	}
	expJSON, err := marshalOrEmpty(r.Experience)
	if err != nil {
		err = errors.Wrap(err, "failed to flatten experience")
		return snap, err
	}
	projJSON, err := marshalOrEmpty(r.Projects)
	if err != nil {
		err = errors.Wrap(err, "failed to flatten projects")
		return snap, err
	}

	kwJSON := ""
	if !r.ExtractedSkills.Empty() {
		kwJSON, err = marshalOrEmpty(r.ExtractedSkills)
		if err != nil {
			err = errors.Wrap(err, "failed to flatten extracted skills")
			return snap, err
		}
	}

	fbJSON := ""
	if fb != nil {
		fbJSON, err = marshalOrEmpty(fb)
		if err != nil {
			err = errors.Wrap(err, "failed to flatten feedback")
			return snap, err
		}
	}

	snap = Snapshot{
		UserID:          userID,
		Username:        username,
		RegisteredAt:    registeredAt,
		FullName:        r.FullName,
		Email:           r.Email,
		Phone:           r.Phone,
		Location:        r.Location,
		LinkedIn:        r.LinkedIn,
		GitHub:          r.GitHub,
		GitLab:          r.GitLab,
		Portfolio:       r.Portfolio,
		EducationJSON:   eduJSON,
		ExperienceJSON:  expJSON,
		ProjectsJSON:    projJSON,
		TechnicalSkills: r.TechnicalSkills,
		SoftSkills:      r.SoftSkills,
		Achievements:    r.Achievements,
		Languages:       r.Languages,
		Interests:       r.Interests,
		VacancyText:     r.VacancyText,
		KeywordsJSON:    kwJSON,
		FeedbackJSON:    fbJSON,
		Status:          status,
		CompletedAt:     completedAt,
	}

	return snap, err
}

func marshalOrEmpty(v interface{}) (out string, err error) {
	data, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	out = string(data)
	return out, err
}
