package voice

import (
	"net/http"

	"github.com/mementolabs/recall/pkg/chat"
	"github.com/mementolabs/recall/pkg/errx"
)

// Request is a chat turn that additionally wants the reply spoken.
type Request struct {
	UserID    string         `json:"user_id"`
	Message   string         `json:"message"`
	SessionID string         `json:"session_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ChatRequest converts the voice request into the underlying chat request.
func (r Request) ChatRequest() chat.Request {
	return chat.Request{
		UserID:    r.UserID,
		Message:   r.Message,
		SessionID: r.SessionID,
		Metadata:  r.Metadata,
	}
}

// Response extends the chat response with the stored audio location.
type Response struct {
	chat.Response
	AudioPath string `json:"audio_path"`
}

var ErrRegistry = errx.NewRegistry("VOICE")

var (
	CodeSynthesisFailed = ErrRegistry.RegisterWithSuggestions(
		"speech_synthesis_failed", errx.TypeExternal, http.StatusInternalServerError,
		"Failed to synthesize speech for the response",
		"Try again in a few moments",
		"Check if all required services are running",
	)
	CodeAudioStoreFailed = ErrRegistry.RegisterWithSuggestions(
		"audio_store_failed", errx.TypeExternal, http.StatusInternalServerError,
		"Failed to store the synthesized audio",
		"Check the storage configuration",
		"Try again in a few moments",
	)
)
