package config

// StoreKind selects the cache backing store.
type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreSQLite StoreKind = "sqlite"
)

// Config is the top-level tutorcore configuration, corresponding to
// tutorcore.yml.
type Config struct {
	Log          LogConfig          `yaml:"log" koanf:"log"`
	Telemetry    TelemetryConfig    `yaml:"telemetry" koanf:"telemetry"`
	Providers    ProvidersConfig    `yaml:"providers" koanf:"providers"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator" koanf:"orchestrator"`
	Moderation   ModerationConfig   `yaml:"moderation" koanf:"moderation"`
	Cache        CacheConfig        `yaml:"cache" koanf:"cache"`
	Escalation   EscalationConfig   `yaml:"escalation" koanf:"escalation"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" koanf:"level"`
	// Development switches to the human-readable console encoder.
	Development bool `yaml:"development" koanf:"development"`
}

// TelemetryConfig controls trace and metric export.
type TelemetryConfig struct {
	// Exporter is one of stdout, none.
	Exporter    string `yaml:"exporter" koanf:"exporter"`
	ServiceName string `yaml:"service_name" koanf:"service_name"`
}

// ProviderConfig holds per-adapter credentials and switches. An empty APIKey
// falls back to the provider's conventional environment variable.
type ProviderConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	APIKey  string `yaml:"api_key" koanf:"api_key"`
	BaseURL string `yaml:"base_url" koanf:"base_url"`
}

// ProvidersConfig lists the adapters to register, in registration (and
// therefore tie-break) order: openai, anthropic, gemini.
type ProvidersConfig struct {
	OpenAI    ProviderConfig `yaml:"openai" koanf:"openai"`
	Anthropic ProviderConfig `yaml:"anthropic" koanf:"anthropic"`
	Gemini    ProviderConfig `yaml:"gemini" koanf:"gemini"`
}

// OrchestratorConfig tunes adapter scoring. Preference and model tables are
// keyed by query type string, converted to typed maps at wiring time.
type OrchestratorConfig struct {
	YoungLearnerAge    int                           `yaml:"young_learner_age" koanf:"young_learner_age"`
	GuardrailBonus     float64                       `yaml:"guardrail_bonus" koanf:"guardrail_bonus"`
	MaterialsThreshold int                           `yaml:"materials_threshold" koanf:"materials_threshold"`
	LargeContextTokens int                           `yaml:"large_context_tokens" koanf:"large_context_tokens"`
	ContextBonus       float64                       `yaml:"context_bonus" koanf:"context_bonus"`
	Preferences        map[string]map[string]float64 `yaml:"preferences" koanf:"preferences"`
	Models             map[string]map[string]string  `yaml:"models" koanf:"models"`
}

// ModerationConfig extends the built-in checker vocabularies.
type ModerationConfig struct {
	RestrictedTopics []string `yaml:"restricted_topics" koanf:"restricted_topics"`
	ExtraProfanity   []string `yaml:"extra_profanity" koanf:"extra_profanity"`
}

// CacheConfig selects and tunes the response cache.
type CacheConfig struct {
	Store StoreKind `yaml:"store" koanf:"store"`
	// Path is the SQLite database location when Store is sqlite.
	Path string `yaml:"path" koanf:"path"`
	// BaseTTLSeconds anchors the classification-scaled TTL computation.
	BaseTTLSeconds int `yaml:"base_ttl_seconds" koanf:"base_ttl_seconds"`
	// LowConfidence halves the TTL for responses below this confidence.
	LowConfidence float64 `yaml:"low_confidence" koanf:"low_confidence"`
	// YoungLearnerAge shortens the TTL for learners below this age.
	YoungLearnerAge int `yaml:"young_learner_age" koanf:"young_learner_age"`
}

// EscalationConfig tunes the escalation engine.
type EscalationConfig struct {
	Threshold float64 `yaml:"threshold" koanf:"threshold"`
	// DistressKeywords overrides the built-in list when non-empty.
	DistressKeywords []string `yaml:"distress_keywords" koanf:"distress_keywords"`
	// RulesFile points at a YAML rule table loaded separately.
	RulesFile string `yaml:"rules_file" koanf:"rules_file"`
	// WebhookURL, when set, registers a webhook notification channel.
	WebhookURL string `yaml:"webhook_url" koanf:"webhook_url"`
}
