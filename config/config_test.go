package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/studymesh/tutorcore/core"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }},
		{"bad exporter", func(c *Config) { c.Telemetry.Exporter = "jaeger" }},
		{"bad store", func(c *Config) { c.Cache.Store = "redis" }},
		{"sqlite without path", func(c *Config) { c.Cache.Store = StoreSQLite; c.Cache.Path = "" }},
		{"negative ttl", func(c *Config) { c.Cache.BaseTTLSeconds = -1 }},
		{"threshold out of range", func(c *Config) { c.Escalation.Threshold = 1.5 }},
		{"unknown query type", func(c *Config) {
			c.Orchestrator.Preferences = map[string]map[string]float64{"essay_grading": {"openai": 0.5}}
		}},
		{"no providers", func(c *Config) {
			c.Providers.OpenAI.Enabled = false
			c.Providers.Anthropic.Enabled = false
			c.Providers.Gemini.Enabled = false
		}},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestLoadFileAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tutorcore.yml")
	yaml := `
log:
  level: debug
cache:
  store: sqlite
  path: /tmp/cache.db
  base_ttl_seconds: 1800
escalation:
  threshold: 0.9
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TUTORCORE_CACHE__BASE_TTL_SECONDS", "900")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %s, want debug", cfg.Log.Level)
	}
	if cfg.Cache.Store != StoreSQLite {
		t.Errorf("store = %s, want sqlite", cfg.Cache.Store)
	}
	if cfg.Cache.BaseTTLSeconds != 900 {
		t.Errorf("base ttl = %d, want env override 900", cfg.Cache.BaseTTLSeconds)
	}
	if cfg.Escalation.Threshold != 0.9 {
		t.Errorf("threshold = %v, want 0.9", cfg.Escalation.Threshold)
	}
	// Untouched sections keep defaults.
	if !cfg.Providers.OpenAI.Enabled {
		t.Error("provider defaults should survive partial config files")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Cache.Store != StoreMemory {
		t.Errorf("store = %s, want memory default", cfg.Cache.Store)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yml")
	cfg := DefaultConfig()
	cfg.Log.Level = "warn"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Log.Level != "warn" {
		t.Errorf("level = %s, want warn", loaded.Log.Level)
	}
}

func TestOrchestratorConfigConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Orchestrator.Preferences = map[string]map[string]float64{
		"math_problem": {"openai": 0.6},
	}
	cfg.Orchestrator.Models = map[string]map[string]string{
		"openai": {"code_assistance": "gpt-4o"},
	}

	oc := cfg.OrchestratorConfig()
	if oc.Preferences[core.QueryMath]["openai"] != 0.6 {
		t.Errorf("preferences not converted: %v", oc.Preferences)
	}
	if oc.Models["openai"][core.QueryCode] != "gpt-4o" {
		t.Errorf("models not converted: %v", oc.Models)
	}
	if oc.YoungLearnerAge != 13 {
		t.Errorf("young learner age = %d, want 13", oc.YoungLearnerAge)
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	yaml := `
rules:
  - id: struggling-student
    enabled: true
    conditions:
      - type: complex_topic
        keywords: ["confused", "don't understand"]
      - type: repeated_questions
        count: 3
        window_seconds: 600
    action: notify_teacher
    priority: medium
  - id: off-duty
    enabled: false
    conditions:
      - type: emotional_distress
        keywords: ["frustrated"]
    action: notify_teacher
    priority: low
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(rules))
	}
	first := rules[0]
	if first.ID != "struggling-student" || !first.Enabled {
		t.Errorf("first rule = %+v", first)
	}
	if len(first.Conditions) != 2 || first.Conditions[1].Count != 3 {
		t.Errorf("conditions = %+v", first.Conditions)
	}
	if first.Priority != core.SafetyMedium {
		t.Errorf("priority = %s, want medium", first.Priority)
	}
}

func TestLoadRulesRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	yaml := `
rules:
  - enabled: true
    conditions:
      - type: emotional_distress
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("rule without id should be rejected")
	}
}
