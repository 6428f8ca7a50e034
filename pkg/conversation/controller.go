package conversation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/karbar/resumeforge/pkg/compiler"
	"github.com/karbar/resumeforge/pkg/extractor"
	"github.com/karbar/resumeforge/pkg/session"
	"github.com/karbar/resumeforge/pkg/storage"
)

// Choice is one tappable option offered alongside a message.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Message is one outgoing text, optionally with choices.
type Message struct {
	Text    string   `json:"text"`
	Choices []Choice `json:"choices,omitempty"`
}

// Document is a generated file handed to the transport for delivery.
type Document struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
	Caption  string `json:"caption,omitempty"`
}

// Response is everything the transport should deliver for one input.
type Response struct {
	Messages []Message `json:"messages"`
	Document *Document `json:"document,omitempty"`
}

// Notifier delivers an out-of-band response produced by background work
// (vacancy analysis, resume generation) back to the user's transport.
type Notifier func(userID string, resp Response)

// Compiler is the document-compilation collaborator.
type Compiler interface {
	Compile(ctx context.Context, source string) (compiler.Result, error)
}

// Controller drives the conversation: it owns the per-user sessions and
// orchestrates collection, extraction, rendering, compilation, persistence
// and feedback. All user input enters through OnText or OnChoice.
type Controller struct {
	sessions  *session.Store
	extractor extractor.Extractor
	compiler  Compiler
	store     *storage.Retrier
	notify    Notifier
	logger    *slog.Logger
}

// New wires a Controller. notify may be nil when no transport callback is
// available (background results are then dropped after persistence).
func New(extr extractor.Extractor, comp Compiler, store *storage.Retrier, notify Notifier, logger *slog.Logger) (c *Controller) {
	if logger == nil {
		logger = slog.Default()
	}
	if notify == nil {
		notify = func(string, Response) {}
	}
	c = &Controller{
		sessions:  session.NewStore(),
		extractor: extr,
		compiler:  comp,
		store:     store,
		notify:    notify,
		logger:    logger,
	}
	return c
}

// Sessions exposes the session table for transports that need usernames set.
func (c *Controller) Sessions() (store *session.Store) {
	store = c.sessions
	return store
}

// OnText handles free-form input. Each user's inputs are handled strictly in
// order; the session lock serializes concurrent deliveries.
func (c *Controller) OnText(ctx context.Context, userID, text string) (resp Response) {
	s := c.sessions.Get(userID)
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.Pending {
		resp = textResponse("Still working on your resume, give me a moment.")
		return resp
	}

	text = strings.TrimSpace(text)

	if text == "/cancel" && s.State.Current() != session.StateMenu {
		resp = c.cancelToMenu(ctx, s)
		return resp
	}

	switch s.State.Current() {
	case session.StateMenu:
		resp = c.menuView(s)
	case session.StateCollecting:
		resp = c.ingestAnswer(ctx, s, text)
	case session.StateAwaitingVacancy:
		resp = c.onVacancyText(ctx, s, text)
	case session.StateEditingSections:
		if s.EditingMode {
			resp = c.ingestAnswer(ctx, s, text)
		} else {
			resp = c.editorMenu(s)
		}
	case session.StateFeedback:
		resp = c.onFeedbackText(s, text)
	default:
		resp = c.menuView(s)
	}

	return resp
}

// OnChoice handles a tapped option. Unknown choices re-display the current
// prompt instead of erroring.
func (c *Controller) OnChoice(ctx context.Context, userID, choiceID string) (resp Response) {
	s := c.sessions.Get(userID)
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.Pending {
		resp = textResponse("Still working on your resume, give me a moment.")
		return resp
	}

	switch s.State.Current() {
	case session.StateMenu:
		resp = c.onMenuChoice(ctx, s, choiceID)
	case session.StateCollecting:
		resp = c.onCollectChoice(ctx, s, choiceID)
	case session.StateAwaitingVacancy:
		resp = c.onVacancyChoice(ctx, s, choiceID)
	case session.StateEditingSections:
		resp = c.onEditorChoice(ctx, s, choiceID)
	case session.StateFeedback:
		resp = c.onFeedbackChoice(ctx, s, choiceID)
	default:
		resp = c.menuView(s)
	}

	return resp
}

// cancelToMenu abandons whatever is in flight and returns to the menu. The
// record survives so a new run can pick it up.
func (c *Controller) cancelToMenu(ctx context.Context, s *session.Session) (resp Response) {
	err := s.State.Event(ctx, session.EventReset)
	if err != nil {
		c.logger.Error("state transition failed", "user", s.UserID, "event", session.EventReset, "error", err)
	}
	s.ResetCollection()

	resp = prepend(c.menuView(s), "Cancelled.")
	return resp
}

func textResponse(text string, choices ...Choice) (resp Response) {
	resp = Response{Messages: []Message{{Text: text, Choices: choices}}}
	return resp
}

func prepend(resp Response, text string) (out Response) {
	out = resp
	out.Messages = append([]Message{{Text: text}}, out.Messages...)
	return out
}
