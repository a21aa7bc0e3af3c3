package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mementolabs/recall/pkg/ai/llm"
	"github.com/mementolabs/recall/pkg/chat"
	"github.com/mementolabs/recall/pkg/chat/chatsrv"
	"github.com/mementolabs/recall/pkg/config"
	"github.com/mementolabs/recall/pkg/errx"
	"github.com/mementolabs/recall/pkg/memory"
)

type stubEngine struct {
	records []memory.Record
	addErr  error
}

func (s *stubEngine) Search(ctx context.Context, query, userID string, limit int) ([]memory.Record, error) {
	return s.records, nil
}

func (s *stubEngine) Add(ctx context.Context, turns []llm.Message, userID string, metadata map[string]any) error {
	return s.addErr
}

func (s *stubEngine) CountForUser(ctx context.Context, userID string) (int, error) {
	return len(s.records), nil
}

func (s *stubEngine) Initialized() bool { return true }

func (s *stubEngine) IsHealthy(ctx context.Context) bool { return true }

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	if s.err != nil {
		return llm.Response{}, s.err
	}
	return llm.Response{Message: llm.NewAssistantMessage(s.reply)}, nil
}

func (s *stubLLM) Ping(ctx context.Context) error { return nil }

// testErrorHandler mirrors the server's global error handler envelope.
func testErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := errx.As(err); ok {
		return c.Status(e.HTTPStatus).JSON(fiber.Map{
			"detail": fiber.Map{
				"error_code":  e.Code,
				"message":     e.Message,
				"suggestions": e.Suggestions,
			},
		})
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
		"detail": fiber.Map{
			"error_code":  "internal_error",
			"message":     "An unexpected error occurred",
			"suggestions": []string{},
		},
	})
}

func newTestApp(engine memory.Engine, provider llm.LLM) *fiber.App {
	svc := chatsrv.NewChatService(
		llm.NewClient(provider), engine, nil, nil,
		config.AIConfig{Model: "gpt-4o-mini"}, config.MemoryConfig{SearchLimit: 5},
	)

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	api := app.Group("/api/v1")
	NewChatHandlers(svc).RegisterRoutes(api)
	return app
}

func postChat(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return out
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	detail, ok := body["detail"].(map[string]any)
	if !ok {
		t.Fatalf("body missing detail object: %v", body)
	}
	if _, ok := detail["suggestions"]; !ok {
		t.Error("detail missing suggestions")
	}
	code, _ := detail["error_code"].(string)
	return code
}

func TestChatSuccess(t *testing.T) {
	engine := &stubEngine{records: []memory.Record{{Memory: "User: hi\nAssistant: hello"}}}
	app := newTestApp(engine, &stubLLM{reply: "hello again"})

	resp := postChat(t, app, `{"user_id":"alice","message":"hi again","session_id":"s1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["response"] != "hello again" {
		t.Errorf("response = %v", body["response"])
	}
	if body["memories_found"] != float64(1) {
		t.Errorf("memories_found = %v, want 1", body["memories_found"])
	}
	if body["memories_created"] != float64(1) {
		t.Errorf("memories_created = %v, want 1", body["memories_created"])
	}
	if body["user_id"] != "alice" || body["session_id"] != "s1" {
		t.Errorf("identity fields not echoed: %v", body)
	}
}

func TestChatValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing user_id", `{"message":"hi"}`, "invalid_user_id"},
		{"empty user_id", `{"user_id":"","message":"hi"}`, "invalid_user_id"},
		{"missing message", `{"user_id":"alice"}`, "invalid_message"},
		{"whitespace message", `{"user_id":"alice","message":"   "}`, "invalid_message"},
		{"oversized message", `{"user_id":"alice","message":"` + strings.Repeat("x", chat.MaxMessageLength+1) + `"}`, "invalid_message"},
		{"malformed json", `{"user_id":`, "invalid_request_body"},
	}

	app := newTestApp(&stubEngine{}, &stubLLM{reply: "ok"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postChat(t, app, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if code := errorCode(t, decodeBody(t, resp)); code != tt.wantCode {
				t.Errorf("error_code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestChatGenerationFailure(t *testing.T) {
	app := newTestApp(&stubEngine{}, &stubLLM{err: errors.New("provider down")})

	resp := postChat(t, app, `{"user_id":"alice","message":"hi"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if code := errorCode(t, decodeBody(t, resp)); code != "generation_failed" {
		t.Errorf("error_code = %q, want generation_failed", code)
	}
}

func TestSessionHistoryDisabled(t *testing.T) {
	app := newTestApp(&stubEngine{}, &stubLLM{reply: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/sessions/s1", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 without a transcript store", resp.StatusCode)
	}
	if code := errorCode(t, decodeBody(t, resp)); code != "transcripts_disabled" {
		t.Errorf("error_code = %q", code)
	}
}
