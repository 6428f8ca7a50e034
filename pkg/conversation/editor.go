package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/karbar/resumeforge/pkg/record"
	"github.com/karbar/resumeforge/pkg/schema"
	"github.com/karbar/resumeforge/pkg/session"
)

//nolint:gochecknoglobals // Static display table
var editorLabels = map[string]string{
	"education":    "Education",
	"experience":   "Work experience",
	"projects":     "Projects",
	"skills":       "Skills",
	"achievements": "Achievements",
	"languages":    "Languages",
	"interests":    "Interests",
}

// editorMenu shows the section overview with filled markers.
func (c *Controller) editorMenu(s *session.Session) (resp Response) {
	var choices []Choice
	for _, id := range schema.EditorSections {
		label := editorLabels[id]
		if s.Record.SectionFilled(id) {
			label = "✓ " + label
		}
		choices = append(choices, Choice{ID: "edit_" + id, Label: label})
	}
	choices = append(choices, Choice{ID: "finalize", Label: "Generate resume"})

	resp = textResponse(
		"Here is what we have so far. Pick a section to change, or generate the resume.",
		choices...,
	)
	return resp
}

// onEditorChoice routes the section editor's options.
func (c *Controller) onEditorChoice(ctx context.Context, s *session.Session, choiceID string) (resp Response) {
	switch {
	case choiceID == "finalize":
		resp = c.startFinalize(ctx, s)
	case choiceID == "back_to_editor":
		resp = c.exitEditing(s, "")
	case strings.HasPrefix(choiceID, "edit_"):
		resp = c.onEditSection(s, strings.TrimPrefix(choiceID, "edit_"))
	case strings.HasPrefix(choiceID, "delete_"):
		resp = c.onDeleteSection(s, strings.TrimPrefix(choiceID, "delete_"))
	case strings.HasPrefix(choiceID, "add_"):
		resp = c.startEditing(s, strings.TrimPrefix(choiceID, "add_"), -1)
	case strings.HasPrefix(choiceID, "item_"):
		resp = c.onEditItem(s, strings.TrimPrefix(choiceID, "item_"))
	default:
		if s.EditingMode {
			resp = c.onCollectChoice(ctx, s, choiceID)
		} else {
			resp = c.editorMenu(s)
		}
	}
	return resp
}

// onEditSection opens a section. Repeatable sections with existing entries
// show an item picker first.
func (c *Controller) onEditSection(s *session.Session, sectionID string) (resp Response) {
	entries := c.itemLabels(s.Record, sectionID)
	if entries == nil {
		resp = c.startEditing(s, sectionID, -1)
		return resp
	}

	var choices []Choice
	for idx, label := range entries {
		choices = append(choices, Choice{
			ID:    fmt.Sprintf("item_%s_%d", sectionID, idx),
			Label: label,
		})
	}
	choices = append(choices,
		Choice{ID: "add_" + sectionID, Label: "Add new entry"},
		Choice{ID: "delete_" + sectionID, Label: "Remove all"},
		Choice{ID: "back_to_editor", Label: "Back"},
	)

	resp = textResponse("Which entry do you want to change?", choices...)
	return resp
}

// itemLabels returns display labels for a repeatable section's entries, or
// nil when the section is not repeatable or empty.
func (c *Controller) itemLabels(r *record.Record, sectionID string) (labels []string) {
	switch sectionID {
	case "education":
		for _, e := range r.Education {
			labels = append(labels, e.Institution)
		}
	case "experience":
		for _, e := range r.Experience {
			labels = append(labels, e.Position+" at "+e.Company)
		}
	case "projects":
		for _, e := range r.Projects {
			labels = append(labels, e.Name)
		}
	}
	return labels
}

func (c *Controller) onEditItem(s *session.Session, rest string) (resp Response) {
	// rest is "<sectionID>_<index>".
	cut := strings.LastIndex(rest, "_")
	if cut < 0 {
		resp = c.editorMenu(s)
		return resp
	}
	sectionID := rest[:cut]
	idx, err := strconv.Atoi(rest[cut+1:])
	if err != nil {
		resp = c.editorMenu(s)
		return resp
	}

	resp = c.startEditing(s, sectionID, idx)
	return resp
}

func (c *Controller) onDeleteSection(s *session.Session, sectionID string) (resp Response) {
	s.Record.ClearSection(sectionID)
	resp = prepend(c.editorMenu(s), "Removed.")
	return resp
}

// startEditing positions the cursor for an in-place or appended edit.
func (c *Controller) startEditing(s *session.Session, sectionID string, itemIndex int) (resp Response) {
	key, questionIdx, err := schema.EditTarget(sectionID)
	if err != nil {
		c.logger.Warn("unknown editor section", "user", s.UserID, "section", sectionID)
		resp = c.editorMenu(s)
		return resp
	}

	s.EditingMode = true
	s.EditingSectionID = sectionID
	s.EditingItemIndex = itemIndex
	s.Section = key
	s.QuestionIdx = questionIdx
	s.Item = record.Item{}
	s.AwaitingMore = false

	resp = c.askCurrent(s)
	return resp
}

// exitEditing returns to the editor menu, optionally with a confirmation.
func (c *Controller) exitEditing(s *session.Session, note string) (resp Response) {
	s.EditingMode = false
	s.EditingSectionID = ""
	s.EditingItemIndex = -1
	s.Item = record.Item{}

	resp = c.editorMenu(s)
	if note != "" {
		resp = prepend(resp, note)
	}
	return resp
}
