package voicesrv

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mementolabs/recall/pkg/ai/speech"
	"github.com/mementolabs/recall/pkg/chat/chatsrv"
	"github.com/mementolabs/recall/pkg/config"
	"github.com/mementolabs/recall/pkg/fsx"
	"github.com/mementolabs/recall/pkg/logx"
	"github.com/mementolabs/recall/pkg/voice"
)

// VoiceService runs a normal chat turn and then speaks the reply. The chat
// semantics are entirely the chat orchestrator's; this layer only adds
// synthesis and storage.
type VoiceService struct {
	chat    *chatsrv.ChatService
	tts     *speech.TTSClient
	storage fsx.FileSystem
	ai      config.AIConfig
}

func NewVoiceService(chatService *chatsrv.ChatService, tts *speech.TTSClient, storage fsx.FileSystem, ai config.AIConfig) *VoiceService {
	return &VoiceService{
		chat:    chatService,
		tts:     tts,
		storage: storage,
		ai:      ai,
	}
}

// Respond runs the chat turn, synthesizes the assistant reply, and stores
// the audio. Unlike transcripts, synthesis and storage are part of the
// contract here: if either fails the voice call fails, even though the
// memory write already happened.
func (s *VoiceService) Respond(ctx context.Context, req voice.Request) (*voice.Response, error) {
	chatResp, err := s.chat.Respond(ctx, req.ChatRequest())
	if err != nil {
		return nil, err
	}

	audio, err := s.tts.Synthesize(ctx, chatResp.Response,
		speech.WithModel(s.ai.TTSModel),
		speech.WithVoice(s.ai.TTSVoice),
		speech.WithAudioFormat(speech.AudioFormatMP3),
	)
	if err != nil {
		logx.Errorf("Speech synthesis failed for user %s: %v", req.UserID, err)
		return nil, voice.ErrRegistry.New(voice.CodeSynthesisFailed).
			WithDetail("user_id", req.UserID)
	}
	defer audio.Content.Close()

	audioPath := audioPath(req.UserID)
	if err := s.storage.WriteFile(ctx, audioPath, audio.Content); err != nil {
		logx.Errorf("Audio store failed at %s: %v", audioPath, err)
		return nil, voice.ErrRegistry.New(voice.CodeAudioStoreFailed).
			WithDetail("audio_path", audioPath)
	}

	logx.Infof("Voice turn completed for user %s, audio at %s", req.UserID, audioPath)

	return &voice.Response{
		Response:  *chatResp,
		AudioPath: audioPath,
	}, nil
}

// audioPath names audio objects by user and day so a bucket listing stays
// navigable. The uuid keeps concurrent turns from colliding.
func audioPath(userID string) string {
	return fmt.Sprintf("%s/%s/%s.mp3", userID, time.Now().UTC().Format("2006-01-02"), uuid.NewString())
}
