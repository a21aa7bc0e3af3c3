package speech

import (
	"context"
	"io"
)

// Speaker represents an interface for text-to-speech operations
type Speaker interface {
	// Synthesize converts text to speech audio
	Synthesize(ctx context.Context, text string, opts ...SynthesisOption) (Audio, error)
}

// Audio represents the generated speech audio
type Audio struct {
	// Content is the audio data
	Content io.ReadCloser

	// Format indicates the audio format (MP3, WAV, etc.)
	Format AudioFormat

	// SampleRate of the audio in Hz
	SampleRate int

	// Usage contains resource usage statistics
	Usage TTSUsage
}

// TTSUsage represents resource usage statistics for text-to-speech
type TTSUsage struct {
	InputCharacters int
}

// AudioFormat represents the format of speech audio
type AudioFormat string

const (
	AudioFormatMP3 AudioFormat = "mp3"
	AudioFormatWAV AudioFormat = "wav"
	AudioFormatPCM AudioFormat = "pcm"
	AudioFormatOGG AudioFormat = "ogg"
)

// SynthesisOptions contains options for speech synthesis
type SynthesisOptions struct {
	Model       string
	Voice       string
	AudioFormat AudioFormat
	SpeechRate  float32
	SampleRate  int
}

// SynthesisOption is a function type to modify SynthesisOptions
type SynthesisOption func(*SynthesisOptions)

// WithModel sets the TTS model to use
func WithModel(model string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Model = model
	}
}

// WithVoice sets the synthesis voice
func WithVoice(voice string) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.Voice = voice
	}
}

// WithAudioFormat sets the output audio format
func WithAudioFormat(format AudioFormat) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.AudioFormat = format
	}
}

// WithSpeechRate sets the speech rate multiplier
func WithSpeechRate(rate float32) SynthesisOption {
	return func(o *SynthesisOptions) {
		o.SpeechRate = rate
	}
}

// TTSClient represents a configured text-to-speech client
type TTSClient struct {
	speaker Speaker
}

// NewTTSClient creates a new text-to-speech client
func NewTTSClient(speaker Speaker) *TTSClient {
	return &TTSClient{speaker: speaker}
}

// Synthesize converts text to speech audio
func (c *TTSClient) Synthesize(ctx context.Context, text string, opts ...SynthesisOption) (Audio, error) {
	return c.speaker.Synthesize(ctx, text, opts...)
}
