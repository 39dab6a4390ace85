// Package config loads tutorcore configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/escalation"
	"github.com/studymesh/tutorcore/orchestrator"
)

// DefaultConfig returns the stock configuration: all adapters enabled with
// env-var credentials, in-memory cache, stdout telemetry off.
func DefaultConfig() *Config {
	return &Config{
		Log:       LogConfig{Level: "info"},
		Telemetry: TelemetryConfig{Exporter: "none", ServiceName: "tutorcore"},
		Providers: ProvidersConfig{
			OpenAI:    ProviderConfig{Enabled: true},
			Anthropic: ProviderConfig{Enabled: true},
			Gemini:    ProviderConfig{Enabled: true},
		},
		Orchestrator: OrchestratorConfig{
			YoungLearnerAge:    13,
			GuardrailBonus:     0.5,
			MaterialsThreshold: 3,
			LargeContextTokens: 100000,
			ContextBonus:       0.3,
		},
		Cache: CacheConfig{
			Store:           StoreMemory,
			BaseTTLSeconds:  3600,
			LowConfidence:   0.7,
			YoungLearnerAge: 13,
		},
		Escalation: EscalationConfig{Threshold: 0.8},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TUTORCORE_*). Nested keys use underscores
// doubled into dots: TUTORCORE_CACHE__STORE -> cache.store.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("TUTORCORE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "TUTORCORE_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validStores = map[StoreKind]bool{
	StoreMemory: true,
	StoreSQLite: true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Log.Level != "" && !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Telemetry.Exporter {
	case "", "none", "stdout":
	default:
		return fmt.Errorf("invalid telemetry exporter %q: must be stdout or none", c.Telemetry.Exporter)
	}
	if !validStores[c.Cache.Store] {
		return fmt.Errorf("invalid cache store %q: must be memory or sqlite", c.Cache.Store)
	}
	if c.Cache.Store == StoreSQLite && c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required for the sqlite store")
	}
	if c.Cache.BaseTTLSeconds < 0 {
		return fmt.Errorf("cache.base_ttl_seconds must be non-negative")
	}
	if c.Escalation.Threshold < 0 || c.Escalation.Threshold > 1 {
		return fmt.Errorf("escalation.threshold must be in [0, 1]")
	}
	for qt := range c.Orchestrator.Preferences {
		if !core.ValidQueryType(core.QueryType(qt)) {
			return fmt.Errorf("orchestrator.preferences: unknown query type %q", qt)
		}
	}
	if !c.Providers.OpenAI.Enabled && !c.Providers.Anthropic.Enabled && !c.Providers.Gemini.Enabled {
		return fmt.Errorf("at least one provider must be enabled")
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given provider.
func APIKeyEnvVar(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// ResolveAPIKey returns the configured key or the conventional env var.
func (p ProviderConfig) ResolveAPIKey(provider string) string {
	if p.APIKey != "" {
		return p.APIKey
	}
	return os.Getenv(APIKeyEnvVar(provider))
}

// OrchestratorConfig converts the string-keyed tables into the typed form
// the orchestrator consumes.
func (c *Config) OrchestratorConfig() orchestrator.Config {
	out := orchestrator.DefaultConfig()
	o := c.Orchestrator
	if o.YoungLearnerAge > 0 {
		out.YoungLearnerAge = o.YoungLearnerAge
	}
	if o.GuardrailBonus > 0 {
		out.GuardrailBonus = o.GuardrailBonus
	}
	if o.MaterialsThreshold > 0 {
		out.MaterialsThreshold = o.MaterialsThreshold
	}
	if o.LargeContextTokens > 0 {
		out.LargeContextTokens = o.LargeContextTokens
	}
	if o.ContextBonus > 0 {
		out.ContextBonus = o.ContextBonus
	}
	if len(o.Preferences) > 0 {
		prefs := make(map[core.QueryType]map[string]float64, len(o.Preferences))
		for qt, bonuses := range o.Preferences {
			prefs[core.QueryType(qt)] = bonuses
		}
		out.Preferences = prefs
	}
	if len(o.Models) > 0 {
		models := make(map[string]map[core.QueryType]string, len(o.Models))
		for adapter, byType := range o.Models {
			pinned := make(map[core.QueryType]string, len(byType))
			for qt, model := range byType {
				pinned[core.QueryType(qt)] = model
			}
			models[adapter] = pinned
		}
		out.Models = models
	}
	return out
}

// EscalationConfig converts the escalation section into engine form.
func (c *Config) EscalationConfig() escalation.Config {
	out := escalation.DefaultConfig()
	if c.Escalation.Threshold > 0 {
		out.Threshold = c.Escalation.Threshold
	}
	if len(c.Escalation.DistressKeywords) > 0 {
		out.DistressKeywords = c.Escalation.DistressKeywords
	}
	return out
}

// LoadRules reads an escalation rule table from a YAML file.
func LoadRules(path string) ([]escalation.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}
	var doc struct {
		Rules []escalation.Rule `yaml:"rules"`
	}
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	for i, rule := range doc.Rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("rules %s: rule %d has no id", path, i)
		}
		if len(rule.Conditions) == 0 {
			return nil, fmt.Errorf("rules %s: rule %q has no conditions", path, rule.ID)
		}
	}
	return doc.Rules, nil
}
