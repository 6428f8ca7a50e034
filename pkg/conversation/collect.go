package conversation

import (
	"context"
	"fmt"

	"github.com/karbar/resumeforge/pkg/record"
	"github.com/karbar/resumeforge/pkg/schema"
	"github.com/karbar/resumeforge/pkg/session"
)

// askCurrent renders the prompt for the session's cursor position.
func (c *Controller) askCurrent(s *session.Session) (resp Response) {
	if s.AwaitingMore {
		resp = c.addAnotherPrompt(s)
		return resp
	}

	sec, _ := schema.Get(s.Section)
	q := sec.Questions[s.QuestionIdx]

	text := q.Prompt
	if q.Example != "" {
		text += "\n\nExample: " + q.Example
	}
	if s.QuestionIdx == 0 && !s.EditingMode {
		text = fmt.Sprintf("— %s —\n\n%s", sec.Title, text)
	}

	var choices []Choice
	switch {
	case sec.Repeatable && s.QuestionIdx == 0 && !s.EditingMode:
		choices = append(choices, Choice{ID: "skip", Label: "Skip this section"})
	case !q.Required:
		choices = append(choices, Choice{ID: "skip", Label: "Skip"})
	}
	if !s.EditingMode {
		choices = append(choices, Choice{ID: "back", Label: "Back"})
	}

	resp = textResponse(text, choices...)
	return resp
}

func (c *Controller) addAnotherPrompt(s *session.Session) (resp Response) {
	sec, _ := schema.Get(s.Section)
	resp = textResponse(
		fmt.Sprintf("Add another entry to %s?", sec.Title),
		Choice{ID: "add_more", Label: "Add another"},
		Choice{ID: "continue", Label: "Continue"},
	)
	return resp
}

// ingestAnswer stores one free-form answer and advances the cursor.
func (c *Controller) ingestAnswer(ctx context.Context, s *session.Session, text string) (resp Response) {
	if s.AwaitingMore {
		// Only the offered choices are meaningful here.
		resp = c.addAnotherPrompt(s)
		return resp
	}
	if text == "" {
		resp = prepend(c.askCurrent(s), "I did not catch that.")
		return resp
	}

	sec, _ := schema.Get(s.Section)
	q := sec.Questions[s.QuestionIdx]

	if sec.Repeatable {
		s.Item[q.Key] = text
	} else {
		err := s.Record.SetField(q.Key, text)
		if err != nil {
			c.logger.Error("failed to store answer", "user", s.UserID, "question", q.Key, "error", err)
			resp = c.askCurrent(s)
			return resp
		}
	}
	// Editing answers are terminal; only the linear walk is undoable.
	if !s.EditingMode {
		s.PushHistory(s.Section, s.QuestionIdx, text)
	}

	resp = c.advance(ctx, s)
	return resp
}

// advance moves to the next question, or wraps up the section when its
// questions are exhausted.
func (c *Controller) advance(ctx context.Context, s *session.Session) (resp Response) {
	sec, _ := schema.Get(s.Section)

	// Bundled single-field edits finish after one answer.
	if s.EditingMode && sec.Key == schema.SectionAdditional {
		resp = c.exitEditing(s, "Updated.")
		return resp
	}

	if s.QuestionIdx+1 < len(sec.Questions) {
		s.QuestionIdx++
		resp = c.askCurrent(s)
		return resp
	}

	resp = c.finishSection(ctx, s)
	return resp
}

// finishSection wraps up the current section once its questions are
// exhausted. Outside editing mode a repeatable item stays staged until the
// add-another / continue decision, so back can still rewind into it.
func (c *Controller) finishSection(ctx context.Context, s *session.Session) (resp Response) {
	sec, _ := schema.Get(s.Section)

	if sec.Repeatable {
		if s.EditingMode {
			c.commitStaged(s)
			resp = c.exitEditing(s, "Updated.")
			return resp
		}

		s.AwaitingMore = true
		resp = c.addAnotherPrompt(s)
		return resp
	}

	if s.EditingMode {
		resp = c.exitEditing(s, "Updated.")
		return resp
	}

	resp = c.advanceSection(ctx, s)
	return resp
}

// advanceSection moves the cursor to the next section, or hands over to the
// vacancy step once the questionnaire is complete.
func (c *Controller) advanceSection(ctx context.Context, s *session.Session) (resp Response) {
	s.Item = record.Item{}
	s.AwaitingMore = false

	next, ok := schema.Next(s.Section)
	if ok {
		s.Section = next
		s.QuestionIdx = 0
		resp = c.askCurrent(s)
		return resp
	}

	err := s.State.Event(ctx, session.EventQuestionsDone)
	if err != nil {
		c.logger.Error("state transition failed", "user", s.UserID, "event", session.EventQuestionsDone, "error", err)
	}
	resp = c.vacancyPrompt()
	return resp
}

// commitStaged turns the staged item into a committed sub-record.
func (c *Controller) commitStaged(s *session.Session) {
	sec, _ := schema.Get(s.Section)
	err := s.Record.CommitItem(sec.Key, s.Item, s.EditingItemIndex)
	if err != nil {
		c.logger.Error("failed to commit item", "user", s.UserID, "section", sec.Key, "error", err)
	}
	s.Item = record.Item{}
}

func (c *Controller) vacancyPrompt() (resp Response) {
	resp = textResponse(
		"All questions done!\n\nPaste the job description you are applying for and I will tailor the resume to it. Or skip this step.",
		Choice{ID: "skip_analysis", Label: "Skip"},
	)
	return resp
}

// onCollectChoice handles the navigation choices offered while collecting.
func (c *Controller) onCollectChoice(ctx context.Context, s *session.Session, choiceID string) (resp Response) {
	switch choiceID {
	case "skip":
		resp = c.onSkip(ctx, s)
	case "back":
		resp = c.onBack(s)
	case "add_more":
		if s.AwaitingMore {
			c.commitStaged(s)
			s.AwaitingMore = false
			s.QuestionIdx = 0
			resp = c.askCurrent(s)
		} else {
			resp = c.askCurrent(s)
		}
	case "continue":
		if s.AwaitingMore {
			c.commitStaged(s)
			resp = c.advanceSection(ctx, s)
		} else {
			resp = c.askCurrent(s)
		}
	default:
		resp = c.askCurrent(s)
	}
	return resp
}

// onSkip handles the skip choice. Skipping the first question of a
// repeatable section abandons the whole section.
func (c *Controller) onSkip(ctx context.Context, s *session.Session) (resp Response) {
	if s.AwaitingMore {
		resp = c.addAnotherPrompt(s)
		return resp
	}

	sec, _ := schema.Get(s.Section)

	if sec.Repeatable && s.QuestionIdx == 0 && !s.EditingMode {
		resp = c.advanceSection(ctx, s)
		return resp
	}

	q := sec.Questions[s.QuestionIdx]
	if q.Required {
		resp = prepend(c.askCurrent(s), "This one cannot be skipped.")
		return resp
	}

	// A skip leaves the field blank and is not recorded in history.
	if sec.Repeatable {
		s.Item[q.Key] = ""
	} else {
		_ = s.Record.SetField(q.Key, "")
	}

	resp = c.advance(ctx, s)
	return resp
}

// onBack rewinds to the most recent answered question. Skipped questions are
// not in history and are passed over.
func (c *Controller) onBack(s *session.Session) (resp Response) {
	entry, ok := s.PopHistory()
	if !ok {
		resp = prepend(c.askCurrent(s), "Nothing to go back to.")
		return resp
	}

	s.AwaitingMore = false
	s.Section = entry.Section
	s.QuestionIdx = entry.QuestionIdx

	sec, _ := schema.Get(entry.Section)
	q := sec.Questions[entry.QuestionIdx]
	if sec.Repeatable {
		delete(s.Item, q.Key)
	} else {
		_ = s.Record.SetField(q.Key, "")
	}

	resp = c.askCurrent(s)
	return resp
}
