package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/studymesh/tutorcore/cache"
	"github.com/studymesh/tutorcore/config"
	"github.com/studymesh/tutorcore/coordinator"
	"github.com/studymesh/tutorcore/escalation"
	"github.com/studymesh/tutorcore/moderation"
	"github.com/studymesh/tutorcore/notify"
	"github.com/studymesh/tutorcore/obs"
	"github.com/studymesh/tutorcore/orchestrator"
	"github.com/studymesh/tutorcore/providers"
	"github.com/studymesh/tutorcore/providers/anthropic"
	"github.com/studymesh/tutorcore/providers/gemini"
	"github.com/studymesh/tutorcore/providers/openai"
	"github.com/studymesh/tutorcore/speech"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// stack is everything a command needs to serve requests.
type stack struct {
	coordinator *coordinator.Coordinator
	engine      *escalation.Engine
	log         *zap.Logger
	shutdown    func(context.Context) error
}

func (s *stack) close(ctx context.Context) {
	if s.shutdown != nil {
		_ = s.shutdown(ctx)
	}
	_ = s.log.Sync()
}

// buildStack wires the full pipeline from configuration.
func buildStack(ctx context.Context, cfg *config.Config) (*stack, error) {
	log, err := buildLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	shutdown, err := obs.Init(ctx, obs.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Exporter:    obs.ExporterType(cfg.Telemetry.Exporter),
	})
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(cfg.Cache)
	if err != nil {
		return nil, err
	}
	responseCache := cache.New(store, cache.TTLConfig{
		Base:            time.Duration(cfg.Cache.BaseTTLSeconds) * time.Second,
		LowConfidence:   cfg.Cache.LowConfidence,
		YoungLearnerAge: cfg.Cache.YoungLearnerAge,
	}, log)

	pipeline := moderation.NewPipeline(
		moderation.WithLogger(log),
		moderation.WithExtraProfanity(cfg.Moderation.ExtraProfanity),
		moderation.WithRestrictedTopics(func(userID string) []string {
			return cfg.Moderation.RestrictedTopics
		}),
	)

	var rules []escalation.Rule
	if cfg.Escalation.RulesFile != "" {
		rules, err = config.LoadRules(cfg.Escalation.RulesFile)
		if err != nil {
			return nil, err
		}
	}
	channels := []notify.Channel{
		notify.NewLogChannel("in-app", log),
		notify.NewLogChannel("email", log),
		notify.NewLogChannel("push", log),
	}
	if cfg.Escalation.WebhookURL != "" {
		channels = append(channels, notify.NewWebhookChannel("webhook", cfg.Escalation.WebhookURL, 10*time.Second))
	}
	engine := escalation.New(cfg.EscalationConfig(), rules, channels, log)

	orch := orchestrator.New(registry, cfg.OrchestratorConfig(), log)

	var copts []coordinator.Option
	if t, ok := buildSpeech(cfg).Transcriber("openai"); ok {
		copts = append(copts, coordinator.WithTranscriber(t))
	}

	return &stack{
		coordinator: coordinator.New(pipeline, responseCache, orch, engine, log, copts...),
		engine:      engine,
		log:         log,
		shutdown:    shutdown,
	}, nil
}

// buildRegistry registers enabled adapters with resolved credentials.
// Registration order is the failover tie-break order.
func buildRegistry(ctx context.Context, cfg *config.Config) (*providers.Registry, error) {
	registry := providers.NewRegistry()

	if p := cfg.Providers.OpenAI; p.Enabled {
		if key := p.ResolveAPIKey("openai"); key != "" {
			opts := []openai.Option{}
			if p.BaseURL != "" {
				opts = append(opts, openai.WithBaseURL(p.BaseURL))
			}
			if err := registry.Register(openai.New(key, opts...)); err != nil {
				return nil, err
			}
		}
	}
	if p := cfg.Providers.Anthropic; p.Enabled {
		if key := p.ResolveAPIKey("anthropic"); key != "" {
			opts := []anthropic.Option{anthropic.WithAPIKey(key)}
			if p.BaseURL != "" {
				opts = append(opts, anthropic.WithBaseURL(p.BaseURL))
			}
			if err := registry.Register(anthropic.New(opts...)); err != nil {
				return nil, err
			}
		}
	}
	if p := cfg.Providers.Gemini; p.Enabled {
		if key := p.ResolveAPIKey("gemini"); key != "" {
			adapter, err := gemini.New(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("building gemini adapter: %w", err)
			}
			if err := registry.Register(adapter); err != nil {
				return nil, err
			}
		}
	}

	if registry.Len() == 0 {
		return nil, fmt.Errorf("no provider credentials found; set %s, %s, or %s",
			config.APIKeyEnvVar("openai"), config.APIKeyEnvVar("anthropic"), config.APIKeyEnvVar("gemini"))
	}
	return registry, nil
}

// buildSpeech registers speech collaborators for providers with credentials.
// Voice requests need at least one transcriber; text-only setups get none.
func buildSpeech(cfg *config.Config) *speech.Registry {
	registry := speech.NewRegistry()
	if p := cfg.Providers.OpenAI; p.Enabled {
		if key := p.ResolveAPIKey("openai"); key != "" {
			opts := []openai.Option{}
			if p.BaseURL != "" {
				opts = append(opts, openai.WithBaseURL(p.BaseURL))
			}
			_ = registry.RegisterTranscriber(openai.NewTranscriber(key, opts...))
		}
	}
	return registry
}

func buildStore(cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return cache.NewSQLiteStore(cfg.Path)
	default:
		return cache.NewMemoryStore(), nil
	}
}
