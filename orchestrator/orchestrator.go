// Package orchestrator selects a provider adapter and model per request,
// estimates cost, and fails over across adapters on error.
package orchestrator

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/obs"
	"github.com/studymesh/tutorcore/providers"
)

// Config tunes adapter scoring and model selection.
type Config struct {
	// YoungLearnerAge is the age below which adapters with built-in
	// guardrails receive a selection bonus.
	YoungLearnerAge int
	// GuardrailBonus is added for guardrail-capable adapters when the
	// learner is young.
	GuardrailBonus float64
	// MaterialsThreshold is the number of course reference materials at
	// which large-context adapters receive a bonus.
	MaterialsThreshold int
	// LargeContextTokens is the context window size that qualifies an
	// adapter as large-context.
	LargeContextTokens int
	// ContextBonus is added for large-context adapters on heavy courses.
	ContextBonus float64
	// Preferences maps query classification to per-adapter score bonuses.
	Preferences map[core.QueryType]map[string]float64
	// Models optionally pins a model per adapter per classification,
	// overriding the built-in capacity heuristic.
	Models map[string]map[core.QueryType]string
}

// DefaultConfig returns the stock scoring tables.
func DefaultConfig() Config {
	return Config{
		YoungLearnerAge:    13,
		GuardrailBonus:     0.5,
		MaterialsThreshold: 3,
		LargeContextTokens: 100000,
		ContextBonus:       0.3,
		Preferences: map[core.QueryType]map[string]float64{
			core.QueryCode:     {"anthropic": 0.4, "openai": 0.3},
			core.QueryMath:     {"openai": 0.4, "gemini": 0.2},
			core.QueryCreative: {"anthropic": 0.3},
			core.QueryConcept:  {"gemini": 0.2},
			core.QueryLanguage: {"gemini": 0.3},
		},
	}
}

// Orchestrator picks adapters and models for requests.
type Orchestrator struct {
	registry *providers.Registry
	cfg      Config
	log      *zap.Logger
}

// New constructs an orchestrator over a registry. A nil logger degrades to
// a no-op logger.
func New(registry *providers.Registry, cfg Config, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.YoungLearnerAge == 0 {
		cfg.YoungLearnerAge = 13
	}
	return &Orchestrator{registry: registry, cfg: cfg, log: log}
}

type scoredAdapter struct {
	adapter providers.Adapter
	score   float64
}

// rank scores every registered adapter for the request and returns them in
// descending score order. Ties keep registration order.
func (o *Orchestrator) rank(req core.Request) []scoredAdapter {
	adapters := o.registry.Adapters()
	ranked := make([]scoredAdapter, 0, len(adapters))
	qt := req.Classification()

	for _, adapter := range adapters {
		caps := adapter.Capabilities()
		score := 1.0 // base availability

		if bonuses, ok := o.cfg.Preferences[qt]; ok {
			score += bonuses[adapter.Name()]
		}
		if age := req.LearnerAge(); age > 0 && age < o.cfg.YoungLearnerAge && caps.Guardrails {
			score += o.cfg.GuardrailBonus
		}
		if req.Course != nil && len(req.Course.ReferenceMaterials) >= o.cfg.MaterialsThreshold &&
			o.cfg.MaterialsThreshold > 0 && caps.MaxInputTokens >= o.cfg.LargeContextTokens {
			score += o.cfg.ContextBonus
		}
		ranked = append(ranked, scoredAdapter{adapter: adapter, score: score})
	}

	// Insertion sort keeps the scan stable: equal scores preserve
	// registration order, which is the tie-break contract.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].score > ranked[j-1].score; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}

// SelectModel picks a model within the adapter for the request: a pinned
// config entry wins; otherwise code and multi-step work get the adapter's
// highest-capacity model and everything else the cheap default.
func (o *Orchestrator) SelectModel(adapter providers.Adapter, req core.Request) string {
	qt := req.Classification()
	if pinned, ok := o.cfg.Models[adapter.Name()]; ok {
		if model := pinned[qt]; model != "" {
			return model
		}
	}

	caps := adapter.Capabilities()
	switch qt {
	case core.QueryCode, core.QueryMath, core.QueryProblem:
		if len(caps.Models) > 0 {
			return caps.Models[0]
		}
	}
	est := core.EstimateRequestTokens(req)
	if caps.MaxInputTokens > 0 && est.Input > caps.MaxInputTokens/2 && len(caps.Models) > 0 {
		return caps.Models[0]
	}
	return caps.DefaultModel
}

// Generate routes the request to the single top-scored adapter. Use
// GenerateWithFailover when resilience across adapters is wanted.
func (o *Orchestrator) Generate(ctx context.Context, req core.Request) (resp *core.Response, err error) {
	ranked := o.rank(req)
	if len(ranked) == 0 {
		return nil, core.NewError(core.ErrNoProvider, "orchestrator: no adapters registered")
	}
	return o.generateWith(ctx, ranked[0].adapter, req)
}

func (o *Orchestrator) generateWith(ctx context.Context, adapter providers.Adapter, req core.Request) (resp *core.Response, err error) {
	model := o.SelectModel(adapter, req)
	ctx, recorder := obs.StartRequest(ctx, "orchestrator.Generate",
		attribute.String("ai.provider", adapter.Name()),
		attribute.String("ai.model", model),
		attribute.String("ai.query_type", string(req.Classification())),
	)
	var usage obs.UsageTokens
	defer func() { recorder.End(err, usage) }()

	resp, err = adapter.Generate(ctx, req, model)
	if err != nil {
		return nil, core.WrapError(err, core.ErrProvider)
	}
	usage = obs.UsageFromCore(resp.Usage)
	recorder.AddAttributes(
		attribute.String("ai.safety", string(resp.Safety)),
		attribute.Bool("ai.cached", resp.Cached),
	)
	o.log.Debug("generation complete",
		zap.String("provider", resp.Provider),
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Int64("latency_ms", resp.LatencyMS),
	)
	return resp, nil
}
