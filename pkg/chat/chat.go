package chat

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mementolabs/recall/pkg/errx"
)

// Field limits enforced before any external call is made.
const (
	MaxUserIDLength    = 100
	MaxMessageLength   = 5000
	MaxSessionIDLength = 100
)

// Request is one inbound chat turn. user_id is the memory isolation key and
// must stay consistent across a user's conversations.
type Request struct {
	UserID    string         `json:"user_id"`
	Message   string         `json:"message"`
	SessionID string         `json:"session_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Validate rejects the request before it reaches any dependency. Emptiness
// is judged after trimming; the original values are left untouched.
func (r *Request) Validate() *errx.Error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrRegistry.New(CodeInvalidUserID)
	}
	if len(r.UserID) > MaxUserIDLength {
		return ErrRegistry.New(CodeInvalidUserID).
			WithDetail("max_length", MaxUserIDLength)
	}
	if strings.TrimSpace(r.Message) == "" {
		return ErrRegistry.New(CodeInvalidMessage)
	}
	if len(r.Message) > MaxMessageLength {
		return ErrRegistry.New(CodeInvalidMessage).
			WithDetail("max_length", MaxMessageLength)
	}
	if len(r.SessionID) > MaxSessionIDLength {
		return ErrRegistry.New(CodeInvalidSessionID).
			WithDetail("max_length", MaxSessionIDLength)
	}
	return nil
}

// Response is the result of one chat turn. MemoriesCreated is always 1 on
// success: exactly one turn is stored per call.
type Response struct {
	Response        string         `json:"response"`
	MemoriesFound   int            `json:"memories_found"`
	MemoriesCreated int            `json:"memories_created"`
	UserID          string         `json:"user_id"`
	SessionID       string         `json:"session_id,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// TranscriptEntry is one message of a session transcript.
type TranscriptEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptStore keeps per-session conversation history for the demo and
// debugging surfaces. It is observability-grade: implementations may lose
// data, and callers must treat every failure as non-fatal.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, entries ...TranscriptEntry) error
	History(ctx context.Context, sessionID string) ([]TranscriptEntry, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CHAT")

var (
	CodeInvalidUserID = ErrRegistry.RegisterWithSuggestions(
		"invalid_user_id", errx.TypeValidation, http.StatusBadRequest,
		"user_id is required and cannot be empty",
		"Provide a valid user_id in the request",
	)
	CodeInvalidMessage = ErrRegistry.RegisterWithSuggestions(
		"invalid_message", errx.TypeValidation, http.StatusBadRequest,
		"message is required and cannot be empty",
		"Provide a valid message in the request",
	)
	CodeInvalidRequestBody = ErrRegistry.RegisterWithSuggestions(
		"invalid_request_body", errx.TypeValidation, http.StatusBadRequest,
		"Request body is not valid JSON",
		"Send a JSON object with user_id and message fields",
	)
	CodeInvalidSessionID = ErrRegistry.RegisterWithSuggestions(
		"invalid_session_id", errx.TypeValidation, http.StatusBadRequest,
		"session_id exceeds the maximum length",
		"Shorten the session_id to 100 characters or fewer",
	)
	CodeGenerationFailed = ErrRegistry.RegisterWithSuggestions(
		"generation_failed", errx.TypeExternal, http.StatusInternalServerError,
		"Failed to generate a response",
		"Try again in a few moments",
		"Check if all required services are running",
	)
	CodeSessionNotFound = ErrRegistry.RegisterWithSuggestions(
		"session_not_found", errx.TypeNotFound, http.StatusNotFound,
		"No transcript stored for this session",
		"Start a chat turn with this session_id first",
	)
	CodeTranscriptsDisabled = ErrRegistry.Register(
		"transcripts_disabled", errx.TypeUnavailable, http.StatusServiceUnavailable,
		"Session transcripts are not enabled on this deployment",
	)
)
