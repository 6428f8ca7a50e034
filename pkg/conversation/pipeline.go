package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/karbar/resumeforge/pkg/record"
	"github.com/karbar/resumeforge/pkg/renderer"
	"github.com/karbar/resumeforge/pkg/session"
)

const analysisTimeout = 90 * time.Second

// onVacancyText receives the pasted job description and kicks off the
// background analysis. The user gets an immediate acknowledgement; the
// result arrives through the notifier.
func (c *Controller) onVacancyText(ctx context.Context, s *session.Session, text string) (resp Response) {
	if text == "" {
		resp = c.vacancyPrompt()
		return resp
	}

	s.Record.VacancyText = text
	err := s.State.Event(ctx, session.EventVacancyReceived)
	if err != nil {
		c.logger.Error("state transition failed", "user", s.UserID, "event", session.EventVacancyReceived, "error", err)
	}

	s.Pending = true
	go c.analyzeVacancy(s.UserID, text)

	resp = textResponse("Analyzing the job description, this can take a few seconds...")
	return resp
}

func (c *Controller) onVacancyChoice(ctx context.Context, s *session.Session, choiceID string) (resp Response) {
	if choiceID != "skip_analysis" {
		resp = c.vacancyPrompt()
		return resp
	}

	err := s.State.Event(ctx, session.EventVacancyReceived)
	if err != nil {
		c.logger.Error("state transition failed", "user", s.UserID, "event", session.EventVacancyReceived, "error", err)
	}

	resp = c.editorMenu(s)
	return resp
}

// analyzeVacancy runs the extraction off the request path and delivers the
// outcome via the notifier.
func (c *Controller) analyzeVacancy(userID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	result, err := c.extractor.Extract(ctx, text)
	if err != nil {
		c.logger.Warn("vacancy analysis failed", "user", userID, "error", err)
	}

	s := c.sessions.Get(userID)
	s.Mu.Lock()
	s.Pending = false
	if err == nil {
		s.Record.ExtractedSkills = &record.ExtractedSkills{
			Technical: result.Technical,
			Soft:      result.Soft,
			Keywords:  result.Keywords,
		}
	}
	resp := c.editorMenu(s)
	s.Mu.Unlock()

	if err == nil && len(result.Technical) > 0 {
		resp = prepend(resp, fmt.Sprintf(
			"Found %d technical skills in the posting. Matching terms will be highlighted in your resume.",
			len(result.Technical)))
	} else {
		resp = prepend(resp, "Done. I could not pull much from the posting, the resume will be generated as-is.")
	}

	c.notify(userID, resp)
}

// startFinalize switches to the feedback stage and generates the resume in
// the background. Interleaved input is absorbed while Pending is set.
func (c *Controller) startFinalize(ctx context.Context, s *session.Session) (resp Response) {
	err := s.State.Event(ctx, session.EventFinalize)
	if err != nil {
		c.logger.Error("state transition failed", "user", s.UserID, "event", session.EventFinalize, "error", err)
		resp = c.editorMenu(s)
		return resp
	}

	s.Pending = true
	go c.generateResume(s.UserID)

	resp = textResponse("Generating your resume...")
	return resp
}

// generateResume renders, persists, compiles and delivers. Compilation
// failure degrades to delivering the source file with the reason; the
// conversation always proceeds to feedback.
func (c *Controller) generateResume(userID string) {
	s := c.sessions.Get(userID)

	s.Mu.Lock()
	markup := renderer.Render(s.Record, s.Record.ExtractedSkills)
	snap, snapErr := record.NewSnapshot(
		s.UserID, s.Username, s.RegisteredAt, s.Record, nil,
		record.StatusInProgress, time.Time{},
	)
	s.Mu.Unlock()

	if snapErr != nil {
		c.logger.Error("failed to build snapshot", "user", userID, "error", snapErr)
	} else if c.store != nil {
		c.store.SaveSnapshot(snap)
		c.store.UpdateAnalytics("resume_generated")
	}

	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	doc := &Document{Filename: "resume.pdf", Caption: "Here is your resume. Good luck!"}
	result, err := c.compiler.Compile(ctx, markup)
	switch {
	case err != nil:
		c.logger.Error("compilation error", "user", userID, "error", err)
		doc = texFallback(markup, "an internal error occurred")
	case !result.OK:
		c.logger.Warn("compilation failed", "user", userID, "reason", result.Reason)
		doc = texFallback(markup, result.Reason)
	default:
		doc.Data = result.PDF
	}

	s.Mu.Lock()
	s.Pending = false
	s.FeedbackIdx = 0
	s.Feedback = record.Feedback{}
	s.CommentRequested = false
	s.Resumes = append(s.Resumes, session.ResumeMeta{
		Name:      fmt.Sprintf("Resume #%d", len(s.Resumes)+1),
		CreatedAt: time.Now(),
	})
	question := c.feedbackQuestion(s)
	s.Mu.Unlock()

	resp := Response{
		Messages: append([]Message{{Text: doc.Caption}}, question.Messages...),
		Document: doc,
	}
	c.notify(userID, resp)
}

// texFallback packages the source file when no PDF could be produced.
func texFallback(markup, reason string) (doc *Document) {
	doc = &Document{
		Filename: "resume.tex",
		Data:     []byte(markup),
		Caption: fmt.Sprintf(
			"I could not compile the PDF (%s). Here is the LaTeX source instead, you can compile it on overleaf.com.",
			reason),
	}
	return doc
}
