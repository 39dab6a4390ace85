// Package openai adapts the OpenAI Chat Completions API to the pipeline's
// Adapter contract.
package openai

import (
	"context"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/providers"
)

const defaultModel = "gpt-4o-mini"

var costs = map[string]providers.ModelCost{
	"gpt-4o":      {InputPerMTok: 2.50, OutputPerMTok: 10.00},
	"gpt-4o-mini": {InputPerMTok: 0.15, OutputPerMTok: 0.60},
}

// Client implements providers.Adapter against OpenAI.
type Client struct {
	api     *openai.Client
	model   string
	baseURL string
}

// Option mutates the client during construction.
type Option func(*Client)

// WithDefaultModel overrides the default model.
func WithDefaultModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// New constructs an OpenAI adapter.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{model: defaultModel}
	for _, opt := range opts {
		opt(c)
	}
	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Generate(ctx context.Context, req core.Request, model string) (*core.Response, error) {
	if model == "" {
		model = c.model
	}
	system, user := providers.BuildPrompt(req)

	started := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return nil, core.NewError(core.ErrProvider, "openai: chat completion failed",
			core.WithWrapped(err), core.WithRetryable(true))
	}

	var text, finish string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
		finish = string(resp.Choices[0].FinishReason)
	}
	return &core.Response{
		ID:         uuid.NewString(),
		RequestID:  req.ID,
		Text:       text,
		Provider:   c.Name(),
		Model:      resp.Model,
		Confidence: providers.ConfidenceFromFinish(finish),
		Safety:     core.SafetyLow,
		Usage: core.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		LatencyMS: time.Since(started).Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (c *Client) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		Provider:        c.Name(),
		Models:          []string{"gpt-4o", "gpt-4o-mini"},
		DefaultModel:    c.model,
		MaxInputTokens:  128000,
		MaxOutputTokens: 16384,
		Guardrails:      true,
		Costs:           costs,
	}
}

func (c *Client) ValidateCredentials(ctx context.Context) bool {
	_, err := c.api.ListModels(ctx)
	return err == nil
}

func (c *Client) Models() []string { return c.Capabilities().Models }

func (c *Client) EstimateCost(req core.Request, model string) float64 {
	return providers.EstimateRequestCost(req, c.Capabilities(), model)
}
