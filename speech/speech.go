// Package speech models speech-to-text and text-to-speech services as
// adapter-like collaborators with the same bounded-timeout, recoverable
// failure contract as provider adapters.
package speech

import "context"

// Transcript is a speech-to-text result.
type Transcript struct {
	Text       string  `json:"text"`
	Language   string  `json:"language,omitempty"`
	Confidence float64 `json:"confidence"`
	Provider   string  `json:"provider"`
}

// Transcriber converts audio to text. Implementations own their wire
// protocol; callers treat failures as recoverable.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte, language string) (*Transcript, error)
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string, voice string) ([]byte, error)
}
