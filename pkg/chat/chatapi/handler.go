package chatapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mementolabs/recall/pkg/chat"
	"github.com/mementolabs/recall/pkg/chat/chatsrv"
	"github.com/mementolabs/recall/pkg/logx"
)

type ChatHandlers struct {
	service *chatsrv.ChatService
}

func NewChatHandlers(service *chatsrv.ChatService) *ChatHandlers {
	return &ChatHandlers{service: service}
}

func (h *ChatHandlers) RegisterRoutes(router fiber.Router) {
	router.Post("/chat", h.Chat)
	router.Get("/chat/sessions/:session_id", h.SessionHistory)
}

// Chat runs one memory-augmented conversational turn.
func (h *ChatHandlers) Chat(c *fiber.Ctx) error {
	var req chat.Request
	if err := c.BodyParser(&req); err != nil {
		return chat.ErrRegistry.New(chat.CodeInvalidRequestBody).
			WithDetail("parse_error", err.Error())
	}

	logx.Infof("Processing chat request for user: %s", req.UserID)

	response, err := h.service.Respond(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// SessionHistory returns the stored transcript for a session.
func (h *ChatHandlers) SessionHistory(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	entries, err := h.service.SessionHistory(c.Context(), sessionID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"messages":   entries,
	})
}
