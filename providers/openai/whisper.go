package openai

import (
	"bytes"
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/speech"
)

// Transcriber converts learner audio to text with Whisper.
type Transcriber struct {
	api *openai.Client
}

// NewTranscriber constructs a Whisper-backed transcriber.
func NewTranscriber(apiKey string, opts ...Option) *Transcriber {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	return &Transcriber{api: openai.NewClientWithConfig(cfg)}
}

func (t *Transcriber) Name() string { return "openai" }

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, language string) (*speech.Transcript, error) {
	resp, err := t.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: "audio.wav",
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, core.NewError(core.ErrProvider, "openai: transcription failed",
			core.WithWrapped(err), core.WithRetryable(true))
	}
	return &speech.Transcript{
		Text:       resp.Text,
		Language:   resp.Language,
		Confidence: transcriptionConfidence(resp),
		Provider:   t.Name(),
	}, nil
}

// transcriptionConfidence folds per-segment no-speech probabilities into a
// single score. An empty segment list means Whisper gave us no signal.
func transcriptionConfidence(resp openai.AudioResponse) float64 {
	if len(resp.Segments) == 0 {
		return 1.0
	}
	var sum float64
	for _, seg := range resp.Segments {
		sum += seg.NoSpeechProb
	}
	return 1.0 - sum/float64(len(resp.Segments))
}
