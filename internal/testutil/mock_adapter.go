package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/providers"
)

// MockAdapter is a configurable implementation of providers.Adapter for
// testing.
type MockAdapter struct {
	mu sync.Mutex

	// Configurable behavior
	AdapterName string
	Response    *core.Response
	Caps        providers.Capabilities

	// Error injection
	GenerateErr error
	CredsValid  bool

	// Call tracking
	GenerateCalls []core.Request
	ModelCalls    []string

	// Custom handler (overrides default behavior)
	OnGenerate func(ctx context.Context, req core.Request, model string) (*core.Response, error)
}

// NewMockAdapter creates a MockAdapter with sensible defaults.
func NewMockAdapter(name string) *MockAdapter {
	return &MockAdapter{
		AdapterName: name,
		CredsValid:  true,
		Response: &core.Response{
			ID:         "mock-response",
			Text:       "mock answer",
			Provider:   name,
			Model:      "mock-model",
			Confidence: 0.9,
			Safety:     core.SafetyLow,
			Usage: core.Usage{
				InputTokens:  10,
				OutputTokens: 5,
				TotalTokens:  15,
			},
			CreatedAt: time.Now().UTC(),
		},
		Caps: providers.Capabilities{
			Provider:        name,
			Models:          []string{"mock-large", "mock-model"},
			DefaultModel:    "mock-model",
			MaxInputTokens:  128000,
			MaxOutputTokens: 4096,
			Costs: map[string]providers.ModelCost{
				"mock-model": {InputPerMTok: 1.0, OutputPerMTok: 2.0},
				"mock-large": {InputPerMTok: 5.0, OutputPerMTok: 10.0},
			},
		},
	}
}

func (m *MockAdapter) Name() string { return m.AdapterName }

// Generate implements providers.Adapter.
func (m *MockAdapter) Generate(ctx context.Context, req core.Request, model string) (*core.Response, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, req)
	m.ModelCalls = append(m.ModelCalls, model)
	m.mu.Unlock()

	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, req, model)
	}
	if m.GenerateErr != nil {
		return nil, m.GenerateErr
	}

	resp := *m.Response
	resp.RequestID = req.ID
	if model != "" {
		resp.Model = model
	}
	return &resp, nil
}

func (m *MockAdapter) Capabilities() providers.Capabilities { return m.Caps }

func (m *MockAdapter) ValidateCredentials(context.Context) bool { return m.CredsValid }

func (m *MockAdapter) Models() []string { return m.Caps.Models }

// EstimateCost implements providers.Adapter using the configured cost table.
func (m *MockAdapter) EstimateCost(req core.Request, model string) float64 {
	return providers.EstimateRequestCost(req, m.Caps, model)
}

// CallCount reports how many times Generate ran.
func (m *MockAdapter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

// SetText configures the response text.
func (m *MockAdapter) SetText(text string) {
	m.Response.Text = text
}

// Reset clears tracked calls.
func (m *MockAdapter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls = nil
	m.ModelCalls = nil
}
