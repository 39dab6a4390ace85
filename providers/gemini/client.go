// Package gemini adapts Google's Gemini API to the pipeline's Adapter
// contract.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/providers"
)

const defaultModel = "gemini-1.5-flash"

var costs = map[string]providers.ModelCost{
	"gemini-1.5-pro":   {InputPerMTok: 1.25, OutputPerMTok: 5.00},
	"gemini-1.5-flash": {InputPerMTok: 0.075, OutputPerMTok: 0.30},
}

// Client implements providers.Adapter against Gemini.
type Client struct {
	api   *genai.Client
	model string
}

// Option mutates the client during construction.
type Option func(*Client)

// WithDefaultModel overrides the default model.
func WithDefaultModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New constructs a Gemini adapter.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	api, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	c := &Client{api: api, model: defaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error { return c.api.Close() }

func (c *Client) Name() string { return "gemini" }

func (c *Client) Generate(ctx context.Context, req core.Request, model string) (*core.Response, error) {
	if model == "" {
		model = c.model
	}
	system, user := providers.BuildPrompt(req)

	gm := c.api.GenerativeModel(model)
	gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	started := time.Now()
	resp, err := gm.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return nil, core.NewError(core.ErrProvider, "gemini: generate content failed",
			core.WithWrapped(err), core.WithRetryable(true))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, core.NewError(core.ErrProvider, "gemini: empty response")
	}

	cand := resp.Candidates[0]
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	var usage core.Usage
	if resp.UsageMetadata != nil {
		usage = core.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return &core.Response{
		ID:         uuid.NewString(),
		RequestID:  req.ID,
		Text:       text.String(),
		Provider:   c.Name(),
		Model:      model,
		Confidence: providers.ConfidenceFromFinish(cand.FinishReason.String()),
		Safety:     core.SafetyLow,
		Usage:      usage,
		LatencyMS:  time.Since(started).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (c *Client) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		Provider:        c.Name(),
		Models:          []string{"gemini-1.5-pro", "gemini-1.5-flash"},
		DefaultModel:    c.model,
		MaxInputTokens:  1000000,
		MaxOutputTokens: 8192,
		Guardrails:      true,
		Costs:           costs,
	}
}

func (c *Client) ValidateCredentials(ctx context.Context) bool {
	gm := c.api.GenerativeModel(c.model)
	_, err := gm.CountTokens(ctx, genai.Text("ping"))
	return err == nil
}

func (c *Client) Models() []string { return c.Capabilities().Models }

func (c *Client) EstimateCost(req core.Request, model string) float64 {
	return providers.EstimateRequestCost(req, c.Capabilities(), model)
}
