package voiceapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mementolabs/recall/pkg/chat"
	"github.com/mementolabs/recall/pkg/logx"
	"github.com/mementolabs/recall/pkg/voice"
	"github.com/mementolabs/recall/pkg/voice/voicesrv"
)

type VoiceHandlers struct {
	service *voicesrv.VoiceService
}

func NewVoiceHandlers(service *voicesrv.VoiceService) *VoiceHandlers {
	return &VoiceHandlers{service: service}
}

func (h *VoiceHandlers) RegisterRoutes(router fiber.Router) {
	router.Post("/voice", h.Voice)
}

// Voice runs a chat turn and returns the reply together with the stored
// audio location.
func (h *VoiceHandlers) Voice(c *fiber.Ctx) error {
	var req voice.Request
	if err := c.BodyParser(&req); err != nil {
		return chat.ErrRegistry.New(chat.CodeInvalidRequestBody).
			WithDetail("parse_error", err.Error())
	}

	logx.Infof("Processing voice request for user: %s", req.UserID)

	response, err := h.service.Respond(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}
