package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/karbar/resumeforge/pkg/record"
	"github.com/karbar/resumeforge/pkg/renderer"
	"github.com/karbar/resumeforge/pkg/session"
)

const helpText = `I build a tailored resume from a short questionnaire.

How it works:
1. Answer the questions section by section. You can skip optional ones and go back to fix answers.
2. Paste the job description you are applying for and I will match your skills against it.
3. Review and edit any section, then generate a PDF.

Everything can be redone: start a new resume from the menu at any time, or
type /cancel to abandon the current flow and return to the menu.`

// menuView is the top-level menu, shown whenever nothing else is in flight.
func (c *Controller) menuView(s *session.Session) (resp Response) {
	choices := []Choice{
		{ID: "new_resume", Label: "Create a resume"},
		{ID: "my_resumes", Label: "My resumes"},
		{ID: "help", Label: "How it works"},
	}
	if len(s.Resumes) > 0 {
		choices = append(choices, Choice{ID: "feedback", Label: "Leave feedback"})
	}

	resp = textResponse("Hi! I help you put together a resume tailored to a specific job. What would you like to do?", choices...)
	return resp
}

// onMenuChoice routes the main menu.
func (c *Controller) onMenuChoice(ctx context.Context, s *session.Session, choiceID string) (resp Response) {
	switch {
	case choiceID == "new_resume":
		resp = c.startCollection(ctx, s)
	case choiceID == "my_resumes":
		resp = c.resumeList(s)
	case strings.HasPrefix(choiceID, "view_resume_"):
		resp = c.onViewResume(s, strings.TrimPrefix(choiceID, "view_resume_"))
	case choiceID == "help":
		resp = prepend(c.menuView(s), helpText)
	case choiceID == "feedback":
		resp = c.startFeedback(ctx, s)
	case choiceID == "back_to_menu":
		resp = c.menuView(s)
	default:
		resp = c.menuView(s)
	}
	return resp
}

// startCollection begins a fresh questionnaire, dropping any previous record.
func (c *Controller) startCollection(ctx context.Context, s *session.Session) (resp Response) {
	err := s.State.Event(ctx, session.EventBegin)
	if err != nil {
		c.logger.Error("state transition failed", "user", s.UserID, "event", session.EventBegin, "error", err)
		resp = c.menuView(s)
		return resp
	}

	s.Record = &record.Record{}
	s.ResetCollection()

	resp = prepend(c.askCurrent(s), "Let's build your resume. A few questions, section by section.")
	return resp
}

func (c *Controller) resumeList(s *session.Session) (resp Response) {
	if len(s.Resumes) == 0 {
		resp = prepend(c.menuView(s), "No resumes yet. Create one first!")
		return resp
	}

	var choices []Choice
	for i, meta := range s.Resumes {
		choices = append(choices, Choice{
			ID:    fmt.Sprintf("view_resume_%d", i),
			Label: fmt.Sprintf("%s (%s)", meta.Name, meta.CreatedAt.Format("Jan 2, 15:04")),
		})
	}
	choices = append(choices, Choice{ID: "back_to_menu", Label: "Back"})

	resp = textResponse("Your resumes. Pick one to download again.", choices...)
	return resp
}

// onViewResume regenerates a listed resume from the current record.
func (c *Controller) onViewResume(s *session.Session, indexStr string) (resp Response) {
	idx, err := strconv.Atoi(indexStr)
	if err != nil || idx < 0 || idx >= len(s.Resumes) {
		resp = c.resumeList(s)
		return resp
	}

	s.Pending = true
	go c.regenerateResume(s.UserID)

	resp = textResponse("One moment, preparing the file...")
	return resp
}

// regenerateResume rebuilds the document for a repeat download. Unlike the
// finalize pipeline it does not touch persistence or the feedback flow.
func (c *Controller) regenerateResume(userID string) {
	s := c.sessions.Get(userID)

	s.Mu.Lock()
	markup := renderer.Render(s.Record, s.Record.ExtractedSkills)
	s.Mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	doc := &Document{Filename: "resume.pdf", Caption: "Here you go!"}
	result, err := c.compiler.Compile(ctx, markup)
	switch {
	case err != nil:
		c.logger.Error("compilation error", "user", userID, "error", err)
		doc = texFallback(markup, "an internal error occurred")
	case !result.OK:
		doc = texFallback(markup, result.Reason)
	default:
		doc.Data = result.PDF
	}

	s.Mu.Lock()
	s.Pending = false
	menu := c.menuView(s)
	s.Mu.Unlock()

	resp := Response{
		Messages: append([]Message{{Text: doc.Caption}}, menu.Messages...),
		Document: doc,
	}
	c.notify(userID, resp)
}

// startFeedback opens the questionnaire from the menu.
func (c *Controller) startFeedback(ctx context.Context, s *session.Session) (resp Response) {
	if len(s.Resumes) == 0 {
		resp = prepend(c.menuView(s), "Generate a resume first, then tell us how it went.")
		return resp
	}

	err := s.State.Event(ctx, session.EventFeedbackRequested)
	if err != nil {
		c.logger.Error("state transition failed", "user", s.UserID, "event", session.EventFeedbackRequested, "error", err)
		resp = c.menuView(s)
		return resp
	}

	s.FeedbackIdx = 0
	s.Feedback = record.Feedback{}
	s.CommentRequested = false

	resp = c.feedbackQuestion(s)
	return resp
}
