package voicesrv

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mementolabs/recall/pkg/ai/llm"
	"github.com/mementolabs/recall/pkg/ai/speech"
	"github.com/mementolabs/recall/pkg/chat/chatsrv"
	"github.com/mementolabs/recall/pkg/config"
	"github.com/mementolabs/recall/pkg/errx"
	"github.com/mementolabs/recall/pkg/memory"
	"github.com/mementolabs/recall/pkg/voice"
)

type stubEngine struct{}

func (s *stubEngine) Search(ctx context.Context, query, userID string, limit int) ([]memory.Record, error) {
	return nil, nil
}

func (s *stubEngine) Add(ctx context.Context, turns []llm.Message, userID string, metadata map[string]any) error {
	return nil
}

func (s *stubEngine) CountForUser(ctx context.Context, userID string) (int, error) { return 0, nil }

func (s *stubEngine) Initialized() bool { return true }

func (s *stubEngine) IsHealthy(ctx context.Context) bool { return true }

type stubLLM struct{ reply string }

func (s *stubLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	return llm.Response{Message: llm.NewAssistantMessage(s.reply)}, nil
}

func (s *stubLLM) Ping(ctx context.Context) error { return nil }

type fakeSpeaker struct {
	err       error
	spokeText string
}

func (f *fakeSpeaker) Synthesize(ctx context.Context, text string, opts ...speech.SynthesisOption) (speech.Audio, error) {
	if f.err != nil {
		return speech.Audio{}, f.err
	}
	f.spokeText = text
	return speech.Audio{
		Content: io.NopCloser(strings.NewReader("mp3-bytes")),
		Format:  speech.AudioFormatMP3,
	}, nil
}

type fakeFS struct {
	writeErr error
	paths    []string
	contents []string
}

func (f *fakeFS) WriteFile(ctx context.Context, path string, content io.Reader) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.paths = append(f.paths, path)
	f.contents = append(f.contents, string(data))
	return nil
}

func (f *fakeFS) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeFS) Exists(ctx context.Context, path string) (bool, error) { return false, nil }

func newTestService(speaker speech.Speaker, fs *fakeFS) *VoiceService {
	ai := config.AIConfig{Model: "gpt-4o-mini", TTSModel: "tts-1", TTSVoice: "alloy"}
	chatSvc := chatsrv.NewChatService(
		llm.NewClient(&stubLLM{reply: "spoken answer"}), &stubEngine{}, nil, nil,
		ai, config.MemoryConfig{SearchLimit: 5},
	)
	return NewVoiceService(chatSvc, speech.NewTTSClient(speaker), fs, ai)
}

func TestRespondStoresAudio(t *testing.T) {
	speaker := &fakeSpeaker{}
	fs := &fakeFS{}
	svc := newTestService(speaker, fs)

	resp, err := svc.Respond(context.Background(), voice.Request{UserID: "alice", Message: "hi"})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}

	if resp.Response.Response != "spoken answer" {
		t.Errorf("chat response = %q", resp.Response.Response)
	}
	if speaker.spokeText != "spoken answer" {
		t.Errorf("synthesized text = %q, want the assistant reply", speaker.spokeText)
	}

	if len(fs.paths) != 1 {
		t.Fatalf("stored %d files, want 1", len(fs.paths))
	}
	if fs.contents[0] != "mp3-bytes" {
		t.Errorf("stored content = %q", fs.contents[0])
	}
	if resp.AudioPath != fs.paths[0] {
		t.Errorf("AudioPath = %q, stored at %q", resp.AudioPath, fs.paths[0])
	}
	if !strings.HasPrefix(resp.AudioPath, "alice/") || !strings.HasSuffix(resp.AudioPath, ".mp3") {
		t.Errorf("AudioPath = %q, want alice/<date>/<uuid>.mp3", resp.AudioPath)
	}
}

func TestRespondSynthesisFailure(t *testing.T) {
	svc := newTestService(&fakeSpeaker{err: errors.New("tts down")}, &fakeFS{})

	_, err := svc.Respond(context.Background(), voice.Request{UserID: "alice", Message: "hi"})
	e, ok := errx.As(err)
	if !ok {
		t.Fatalf("error = %v, want *errx.Error", err)
	}
	if e.Code != voice.CodeSynthesisFailed.Code() {
		t.Errorf("code = %q, want %q", e.Code, voice.CodeSynthesisFailed.Code())
	}
}

func TestRespondStorageFailure(t *testing.T) {
	svc := newTestService(&fakeSpeaker{}, &fakeFS{writeErr: errors.New("bucket denied")})

	_, err := svc.Respond(context.Background(), voice.Request{UserID: "alice", Message: "hi"})
	e, ok := errx.As(err)
	if !ok {
		t.Fatalf("error = %v, want *errx.Error", err)
	}
	if e.Code != voice.CodeAudioStoreFailed.Code() {
		t.Errorf("code = %q, want %q", e.Code, voice.CodeAudioStoreFailed.Code())
	}
}

func TestRespondInvalidRequestSkipsSynthesis(t *testing.T) {
	speaker := &fakeSpeaker{}
	svc := newTestService(speaker, &fakeFS{})

	_, err := svc.Respond(context.Background(), voice.Request{Message: "hi"})
	if err == nil {
		t.Fatal("want a validation error")
	}
	if speaker.spokeText != "" {
		t.Error("validation failures must not reach the synthesizer")
	}
}
