package conversation

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/karbar/resumeforge/pkg/schema"
	"github.com/karbar/resumeforge/pkg/session"
)

// feedbackQuestion renders the current questionnaire step, or the closing
// free-comment prompt once all questions are answered.
func (c *Controller) feedbackQuestion(s *session.Session) (resp Response) {
	if s.FeedbackIdx >= len(schema.FeedbackQuestions) {
		resp = textResponse(
			"Anything else you want to tell us? Type a comment, or skip.",
			Choice{ID: "skip_comment", Label: "Skip"},
		)
		return resp
	}

	q := schema.FeedbackQuestions[s.FeedbackIdx]

	var choices []Choice
	switch q.Kind {
	case schema.FeedbackRating:
		for _, n := range []string{"1", "2", "3", "4", "5"} {
			choices = append(choices, Choice{ID: "rate_" + n, Label: n})
		}
	case schema.FeedbackYesNo:
		choices = append(choices,
			Choice{ID: "yes", Label: "Yes"},
			Choice{ID: "no", Label: "No"},
		)
	case schema.FeedbackTimeBucket:
		for _, b := range schema.TimeBuckets {
			choices = append(choices, Choice{ID: "time_" + b.Code, Label: b.Label})
		}
	}

	resp = textResponse(q.Prompt, choices...)
	return resp
}

// onFeedbackChoice validates a questionnaire answer against the current
// question's kind; mismatched choices re-display the question.
func (c *Controller) onFeedbackChoice(ctx context.Context, s *session.Session, choiceID string) (resp Response) {
	if s.FeedbackIdx >= len(schema.FeedbackQuestions) {
		if choiceID == "skip_comment" {
			resp = c.finishFeedback(ctx, s)
			return resp
		}
		resp = c.feedbackQuestion(s)
		return resp
	}

	q := schema.FeedbackQuestions[s.FeedbackIdx]
	value, ok := feedbackValue(q.Kind, choiceID)
	if !ok {
		resp = c.feedbackQuestion(s)
		return resp
	}

	s.Feedback.Set(q.Key, value)
	s.FeedbackIdx++
	if s.FeedbackIdx >= len(schema.FeedbackQuestions) {
		s.CommentRequested = true
	}

	resp = c.feedbackQuestion(s)
	return resp
}

// onFeedbackText only means something at the free-comment stage; anywhere
// else the current question is re-displayed.
func (c *Controller) onFeedbackText(s *session.Session, text string) (resp Response) {
	if !s.CommentRequested || text == "" {
		resp = c.feedbackQuestion(s)
		return resp
	}

	s.Feedback.Comment = text
	resp = c.finishFeedback(context.Background(), s)
	return resp
}

func feedbackValue(kind schema.FeedbackKind, choiceID string) (value string, ok bool) {
	switch kind {
	case schema.FeedbackRating:
		rating := strings.TrimPrefix(choiceID, "rate_")
		if rating != choiceID && len(rating) == 1 && rating >= "1" && rating <= "5" {
			value = rating
			ok = true
		}
	case schema.FeedbackYesNo:
		if choiceID == "yes" || choiceID == "no" {
			value = choiceID
			ok = true
		}
	case schema.FeedbackTimeBucket:
		code := strings.TrimPrefix(choiceID, "time_")
		if code != choiceID {
			value = schema.TimeBucketLabel(code)
			ok = true
		}
	}
	return value, ok
}

// finishFeedback persists the answers and returns to the menu.
func (c *Controller) finishFeedback(ctx context.Context, s *session.Session) (resp Response) {
	if c.store != nil {
		data, err := json.Marshal(s.Feedback)
		if err != nil {
			c.logger.Error("failed to flatten feedback", "user", s.UserID, "error", err)
		} else {
			c.store.SaveFeedback(s.UserID, string(data), time.Now().UTC())
			c.store.UpdateAnalytics("feedback_completed")
		}
	}

	s.CommentRequested = false
	err := s.State.Event(ctx, session.EventFeedbackDone)
	if err != nil {
		c.logger.Error("state transition failed", "user", s.UserID, "event", session.EventFeedbackDone, "error", err)
	}

	resp = prepend(c.menuView(s), "Thanks for the feedback!")
	return resp
}
