// Package anthropic adapts Anthropic's Messages API to the pipeline's
// Adapter contract.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/internal/httpclient"
	"github.com/studymesh/tutorcore/providers"
)

const defaultModel = "claude-3-5-haiku-latest"

var costs = map[string]providers.ModelCost{
	"claude-3-5-sonnet-latest": {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"claude-3-5-haiku-latest":  {InputPerMTok: 0.80, OutputPerMTok: 4.00},
}

// Client implements providers.Adapter against Anthropic.
type Client struct {
	opts       options
	httpClient *http.Client
}

// New constructs an Anthropic adapter.
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.New(httpclient.WithTimeout(o.timeout))
	}
	if _, ok := o.headers["anthropic-version"]; !ok {
		o.headers["anthropic-version"] = "2023-06-01"
	}
	return &Client{opts: o, httpClient: o.httpClient}
}

func (c *Client) Name() string { return "anthropic" }

func (c *Client) Generate(ctx context.Context, req core.Request, model string) (*core.Response, error) {
	if model == "" {
		model = c.opts.model
	}
	system, user := providers.BuildPrompt(req)
	payload := &messagesRequest{
		Model:     model,
		MaxTokens: 4096,
		System:    system,
		Messages: []message{
			{Role: "user", Content: []contentBlock{{Type: "text", Text: user}}},
		},
	}

	started := time.Now()
	body, err := c.doRequest(ctx, payload)
	if err != nil {
		return nil, core.NewError(core.ErrProvider, "anthropic: messages call failed",
			core.WithWrapped(err), core.WithRetryable(true))
	}
	defer body.Close()

	var resp messagesResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, core.NewError(core.ErrProvider, "anthropic: decode response",
			core.WithWrapped(err))
	}

	in, out := resp.Usage.InputTokens, resp.Usage.OutputTokens
	return &core.Response{
		ID:         uuid.NewString(),
		RequestID:  req.ID,
		Text:       resp.joinText(),
		Provider:   c.Name(),
		Model:      resp.Model,
		Confidence: providers.ConfidenceFromFinish(resp.StopReason),
		Safety:     core.SafetyLow,
		Usage: core.Usage{
			InputTokens:  in,
			OutputTokens: out,
			TotalTokens:  in + out,
		},
		LatencyMS: time.Since(started).Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (c *Client) doRequest(ctx context.Context, payload *messagesRequest) (io.ReadCloser, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.opts.baseURL, "/")+"/messages", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.opts.apiKey)
	for k, v := range c.opts.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("anthropic: %s: %s", resp.Status, data)
	}
	return resp.Body, nil
}

func (c *Client) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		Provider:        c.Name(),
		Models:          []string{"claude-3-5-sonnet-latest", "claude-3-5-haiku-latest"},
		DefaultModel:    c.opts.model,
		MaxInputTokens:  200000,
		MaxOutputTokens: 8192,
		Guardrails:      true,
		Costs:           costs,
	}
}

func (c *Client) ValidateCredentials(ctx context.Context) bool {
	return c.opts.apiKey != ""
}

func (c *Client) Models() []string { return c.Capabilities().Models }

func (c *Client) EstimateCost(req core.Request, model string) float64 {
	return providers.EstimateRequestCost(req, c.Capabilities(), model)
}
