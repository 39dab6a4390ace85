// Package providers defines the adapter boundary between the pipeline and
// external LLM backends, plus the registry the orchestrator selects from.
package providers

import (
	"context"

	"github.com/studymesh/tutorcore/core"
)

// Adapter is implemented once per LLM backend. Each adapter owns its own
// wire protocol; the orchestrator treats it as opaque and only consumes
// this contract.
type Adapter interface {
	// Name returns the stable adapter identity used in preference tables
	// and usage metrics.
	Name() string

	// Generate produces a response for the request using the given model.
	// An empty model selects the adapter's default.
	Generate(ctx context.Context, req core.Request, model string) (*core.Response, error)

	// Capabilities describes the adapter's models, limits and guardrails.
	Capabilities() Capabilities

	// ValidateCredentials reports whether the adapter's credential is usable.
	ValidateCredentials(ctx context.Context) bool

	// Models lists the models the adapter can serve.
	Models() []string

	// EstimateCost estimates USD cost for the request against a model.
	// An empty model uses the adapter's default.
	EstimateCost(req core.Request, model string) float64
}

// ModelCost holds per-token pricing for one model, in USD per million
// tokens. Used for budgeting, not billing accuracy.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Capabilities describes features and limits of a provider adapter.
type Capabilities struct {
	Provider     string
	Models       []string
	DefaultModel string

	MaxInputTokens  int
	MaxOutputTokens int

	// Guardrails marks adapters with stronger built-in safety filtering;
	// the orchestrator prefers them for young learners.
	Guardrails bool

	Costs map[string]ModelCost
}

// CostFor returns the pricing row for a model, falling back to the default
// model's row when the model is unknown.
func (c Capabilities) CostFor(model string) ModelCost {
	if cost, ok := c.Costs[model]; ok {
		return cost
	}
	return c.Costs[c.DefaultModel]
}
