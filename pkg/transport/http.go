package transport

import (
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/karbar/resumeforge/pkg/conversation"
)

// Server exposes the controller's contract over HTTP. It is a development
// and integration surface: a chat frontend posts user input and polls for
// the responses background work produces.
type Server struct {
	app        *fiber.App
	controller *conversation.Controller

	mu     sync.Mutex
	outbox map[string][]conversation.Response
}

// New builds the fiber app and its routes. Wire s.Notify as the controller's
// notifier so background results land in the outbox.
func New() (s *Server) {
	s = &Server{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		outbox: map[string][]conversation.Response{},
	}

	s.app.Get("/healthz", s.health)
	s.app.Post("/v1/chat/:userID/text", s.onText)
	s.app.Post("/v1/chat/:userID/choice", s.onChoice)
	s.app.Get("/v1/chat/:userID/updates", s.updates)

	return s
}

// SetController attaches the controller after construction, so the
// controller can be built with s.Notify as its callback.
func (s *Server) SetController(c *conversation.Controller) {
	s.controller = c
}

// Notify queues a background response for the user to poll.
func (s *Server) Notify(userID string, resp conversation.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox[userID] = append(s.outbox[userID], resp)
}

// Listen blocks serving on addr.
func (s *Server) Listen(addr string) (err error) {
	err = s.app.Listen(addr)
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() (err error) {
	err = s.app.Shutdown()
	return err
}

// App exposes the fiber app for tests.
func (s *Server) App() (app *fiber.App) {
	app = s.app
	return app
}

type textReq struct {
	Text string `json:"text"`
}

type choiceReq struct {
	ChoiceID string `json:"choiceId"`
}

func (s *Server) health(c *fiber.Ctx) (err error) {
	err = c.JSON(fiber.Map{"status": "ok"})
	return err
}

func (s *Server) onText(c *fiber.Ctx) (err error) {
	userID := c.Params("userID")

	var req textReq
	err = c.BodyParser(&req)
	if err != nil {
		err = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		return err
	}

	resp := s.controller.OnText(c.Context(), userID, req.Text)
	err = c.JSON(resp)
	return err
}

func (s *Server) onChoice(c *fiber.Ctx) (err error) {
	userID := c.Params("userID")

	var req choiceReq
	err = c.BodyParser(&req)
	if err != nil || req.ChoiceID == "" {
		err = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		return err
	}

	resp := s.controller.OnChoice(c.Context(), userID, req.ChoiceID)
	err = c.JSON(resp)
	return err
}

// updates drains the user's queued background responses.
func (s *Server) updates(c *fiber.Ctx) (err error) {
	userID := c.Params("userID")

	s.mu.Lock()
	queued := s.outbox[userID]
	delete(s.outbox, userID)
	s.mu.Unlock()

	if queued == nil {
		queued = []conversation.Response{}
	}
	err = c.JSON(fiber.Map{"updates": queued})
	return err
}
