package testutil

import (
	"context"

	"github.com/studymesh/tutorcore/speech"
)

// MockTranscriber returns a fixed transcript.
type MockTranscriber struct {
	Text string
	Err  error

	Calls int
}

func (m *MockTranscriber) Name() string { return "mock-stt" }

func (m *MockTranscriber) Transcribe(_ context.Context, _ []byte, language string) (*speech.Transcript, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return &speech.Transcript{
		Text:       m.Text,
		Language:   language,
		Confidence: 0.95,
		Provider:   "mock-stt",
	}, nil
}
