package chatsrv

import (
	"context"
	"strings"
	"time"

	"github.com/mementolabs/recall/pkg/ai/llm"
	"github.com/mementolabs/recall/pkg/chat"
	"github.com/mementolabs/recall/pkg/config"
	"github.com/mementolabs/recall/pkg/errx"
	"github.com/mementolabs/recall/pkg/logx"
	"github.com/mementolabs/recall/pkg/memory"
	"github.com/mementolabs/recall/pkg/observability"
)

const personaPrompt = "You are a knowledgeable AI health coach specializing in peptide therapy. " +
	"You provide evidence-based information while emphasizing that peptides like BPC-157 " +
	"are not FDA-approved for human use and should only be used under medical supervision. " +
	"Use the provided conversation history to give personalized responses."

// ChatService executes memory-augmented conversational turns. Every
// front-end (HTTP, voice, CLI) goes through this one orchestrator; prompt
// building is never reimplemented elsewhere.
type ChatService struct {
	llm         *llm.Client
	engine      memory.Engine
	transcripts chat.TranscriptStore
	metrics     *observability.Metrics
	ai          config.AIConfig
	searchLimit int
}

// NewChatService creates the orchestrator. transcripts and metrics may be
// nil; both are observability-only.
func NewChatService(llmClient *llm.Client, engine memory.Engine, transcripts chat.TranscriptStore, metrics *observability.Metrics, ai config.AIConfig, memCfg config.MemoryConfig) *ChatService {
	return &ChatService{
		llm:         llmClient,
		engine:      engine,
		transcripts: transcripts,
		metrics:     metrics,
		ai:          ai,
		searchLimit: memCfg.SearchLimit,
	}
}

// Respond runs one chat turn: validate, retrieve, compose, generate,
// persist, respond. A failed persistence step fails the whole turn; the
// caller never receives an answer whose memory write was lost.
func (s *ChatService) Respond(ctx context.Context, req chat.Request) (*chat.Response, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		s.observe("validation_error", 0, start)
		return nil, err
	}

	log := logx.WithFields(logx.Fields{"user_id": req.UserID})

	// Existence probes enrich logs only; they never gate the flow.
	if !s.UserExists(ctx, req.UserID) {
		log.Infof("New user detected")
	} else {
		log.Infof("Existing user with %d memories", s.MemoryCount(ctx, req.UserID))
	}

	records, err := s.engine.Search(ctx, req.Message, req.UserID, s.searchLimit)
	if err != nil {
		s.observe("search_error", 0, start)
		s.providerError("memory")
		log.Errorf("Memory search failed: %v", err)
		return nil, err
	}
	log.Infof("Found %d relevant memories", len(records))

	messages := []llm.Message{
		llm.NewSystemMessage(buildSystemPrompt(records)),
		llm.NewUserMessage(req.Message),
	}

	resp, err := s.llm.Chat(ctx, messages,
		llm.WithModel(s.ai.Model),
		llm.WithTemperature(float32(s.ai.Temperature)),
		llm.WithMaxTokens(s.ai.MaxTokens),
		llm.WithUser(req.UserID),
	)
	if err != nil {
		s.observe("generation_error", 0, start)
		s.providerError("openai")
		log.Errorf("Response generation failed: %v", err)
		return nil, errx.Wrap(err, "failed to generate a response", errx.TypeExternal).
			WithCode(chat.CodeGenerationFailed.Code()).
			WithSuggestions("Try again in a few moments", "Check if all required services are running").
			WithDetail("user_id", req.UserID)
	}

	assistant := resp.Message.Content
	turns := append(messages, llm.NewAssistantMessage(assistant))

	// session_id is written after the caller metadata, so it overwrites a
	// caller-supplied key of the same name.
	metadata := make(map[string]any, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	if req.SessionID != "" {
		metadata["session_id"] = req.SessionID
	}

	if err := s.engine.Add(ctx, turns, req.UserID, metadata); err != nil {
		s.observe("persist_error", 0, start)
		s.providerError("memory")
		log.Errorf("Memory persistence failed: %v", err)
		return nil, err
	}

	s.appendTranscript(ctx, req.SessionID, req.Message, assistant)

	elapsed := time.Since(start)
	s.observe("success", len(records), start)
	log.Infof("Chat turn completed in %dms", elapsed.Milliseconds())

	return &chat.Response{
		Response:        assistant,
		MemoriesFound:   len(records),
		MemoriesCreated: 1,
		UserID:          req.UserID,
		SessionID:       req.SessionID,
		Metadata: map[string]any{
			"model_used":       s.ai.Model,
			"response_time_ms": elapsed.Milliseconds(),
		},
	}, nil
}

// UserExists reports whether the user has any stored memories. Fail-open:
// any underlying error degrades to false, it never raises.
func (s *ChatService) UserExists(ctx context.Context, userID string) bool {
	count, err := s.engine.CountForUser(ctx, userID)
	if err != nil {
		logx.Errorf("Error checking if user exists: %v", err)
		return false
	}
	return count > 0
}

// MemoryCount returns the user's stored memory count, degrading any error
// to zero.
func (s *ChatService) MemoryCount(ctx context.Context, userID string) int {
	count, err := s.engine.CountForUser(ctx, userID)
	if err != nil {
		logx.Errorf("Error getting user memory count: %v", err)
		return 0
	}
	return count
}

// SessionHistory returns the stored transcript for a session.
func (s *ChatService) SessionHistory(ctx context.Context, sessionID string) ([]chat.TranscriptEntry, error) {
	if s.transcripts == nil {
		return nil, chat.ErrRegistry.New(chat.CodeTranscriptsDisabled)
	}

	entries, err := s.transcripts.History(ctx, sessionID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load session transcript", errx.TypeExternal).
			WithDetail("session_id", sessionID)
	}
	if len(entries) == 0 {
		return nil, chat.ErrRegistry.New(chat.CodeSessionNotFound).
			WithDetail("session_id", sessionID)
	}
	return entries, nil
}

func (s *ChatService) appendTranscript(ctx context.Context, sessionID, userMsg, assistantMsg string) {
	if s.transcripts == nil || sessionID == "" {
		return
	}

	now := time.Now().UTC()
	err := s.transcripts.Append(ctx, sessionID,
		chat.TranscriptEntry{Role: llm.RoleUser, Content: userMsg, Timestamp: now},
		chat.TranscriptEntry{Role: llm.RoleAssistant, Content: assistantMsg, Timestamp: now},
	)
	if err != nil {
		// Transcripts are best-effort; a lost entry never fails the turn.
		logx.Errorf("Transcript append failed for session %s: %v", sessionID, err)
	}
}

func (s *ChatService) observe(outcome string, found int, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveTurn(outcome, found, time.Since(start))
	}
}

func (s *ChatService) providerError(provider string) {
	if s.metrics != nil {
		s.metrics.ObserveProviderError(provider)
	}
}

// buildSystemPrompt grounds the persona with retrieved memories. With no
// memories the prompt is the bare persona, no empty heading.
func buildSystemPrompt(records []memory.Record) string {
	if len(records) == 0 {
		return personaPrompt
	}

	var b strings.Builder
	b.WriteString(personaPrompt)
	b.WriteString("\n\nRelevant conversation history:\n")
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(r.Memory)
	}
	return b.String()
}
