package schema

// FeedbackKind selects the input widget a feedback question uses.
type FeedbackKind string

const (
	FeedbackRating     FeedbackKind = "rating"
	FeedbackYesNo      FeedbackKind = "yesno"
	FeedbackTimeBucket FeedbackKind = "timebucket"
)

// FeedbackQuestion is one step of the post-resume questionnaire.
type FeedbackQuestion struct {
	Key    string
	Prompt string
	Kind   FeedbackKind
}

// FeedbackQuestions is asked in order after a resume is delivered.
//
//nolint:gochecknoglobals // Static schema table
var FeedbackQuestions = []FeedbackQuestion{
	{Key: "resume_rating", Prompt: "How would you rate the final resume?\n\nScore from 1 to 5", Kind: FeedbackRating},
	{Key: "will_use", Prompt: "Will you use this resume to apply for a job?", Kind: FeedbackYesNo},
	{Key: "editing_time", Prompt: "How much time did you spend editing the resume?", Kind: FeedbackTimeBucket},
	{Key: "did_edit", Prompt: "Did you edit the resume?\n(rewording, adding or removing information)", Kind: FeedbackYesNo},
	{Key: "overall_experience", Prompt: "How would you rate the overall experience?\n\nFrom 1 to 5", Kind: FeedbackRating},
}

// TimeBuckets maps time-bucket choice codes to their display labels.
//
//nolint:gochecknoglobals // Static schema table
var TimeBuckets = []struct {
	Code  string
	Label string
}{
	{Code: "15", Label: "Less than 15 minutes"},
	{Code: "30", Label: "15-30 minutes"},
	{Code: "60", Label: "30-60 minutes"},
	{Code: "60plus", Label: "More than an hour"},
}

// TimeBucketLabel resolves a bucket code; unknown codes pass through.
func TimeBucketLabel(code string) (label string) {
	for _, b := range TimeBuckets {
		if b.Code == code {
			label = b.Label
			return label
		}
	}
	label = code
	return label
}
