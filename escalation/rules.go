package escalation

import (
	"strings"
	"time"

	"github.com/studymesh/tutorcore/core"
)

// Condition is one conjunctive clause of a rule. All of a rule's conditions
// must hold for the rule to fire.
type Condition struct {
	// Type is one of safety_check_failed, repeated_questions,
	// emotional_distress, complex_topic.
	Type string `yaml:"type" json:"type"`

	// Keywords drives emotional_distress and complex_topic matching.
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`

	// MinConfidence applies to safety_check_failed.
	MinConfidence float64 `yaml:"min_confidence,omitempty" json:"min_confidence,omitempty"`

	// Count and WindowSeconds apply to repeated_questions.
	Count         int `yaml:"count,omitempty" json:"count,omitempty"`
	WindowSeconds int `yaml:"window_seconds,omitempty" json:"window_seconds,omitempty"`

	// MinMatches applies to complex_topic.
	MinMatches int `yaml:"min_matches,omitempty" json:"min_matches,omitempty"`
}

// Rule is one configured escalation rule. Rules are loaded at start and
// replaceable at runtime; no rule mutates another.
type Rule struct {
	ID         string           `yaml:"id" json:"id"`
	Enabled    bool             `yaml:"enabled" json:"enabled"`
	Conditions []Condition      `yaml:"conditions" json:"conditions"`
	Action     string           `yaml:"action" json:"action"`
	Priority   core.SafetyLevel `yaml:"priority" json:"priority"`
	Channels   []string         `yaml:"channels,omitempty" json:"channels,omitempty"`
}

// ruleInput bundles what conditions are evaluated against.
type ruleInput struct {
	query        string
	checks       []core.SafetyCheck
	repeatCount  func(window time.Duration) int
}

// holds reports whether the condition is satisfied by the input.
func (c Condition) holds(in ruleInput) bool {
	switch c.Type {
	case "safety_check_failed":
		for _, check := range in.checks {
			if !check.Passed && check.Confidence >= c.MinConfidence {
				return true
			}
		}
		return false
	case "repeated_questions":
		if c.Count <= 0 || in.repeatCount == nil {
			return false
		}
		window := time.Duration(c.WindowSeconds) * time.Second
		if window <= 0 {
			window = 10 * time.Minute
		}
		return in.repeatCount(window) >= c.Count
	case "emotional_distress":
		_, ok := matchAny(in.query, c.Keywords)
		return ok
	case "complex_topic":
		needed := c.MinMatches
		if needed <= 0 {
			needed = 1
		}
		return countMatches(in.query, c.Keywords) >= needed
	default:
		return false
	}
}

// matches reports whether every condition of the rule holds.
func (r Rule) matches(in ruleInput) bool {
	if !r.Enabled || len(r.Conditions) == 0 {
		return false
	}
	for _, cond := range r.Conditions {
		if !cond.holds(in) {
			return false
		}
	}
	return true
}

func matchAny(text string, keywords []string) (string, bool) {
	q := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(q, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}

func joinFields(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func countMatches(text string, keywords []string) int {
	q := strings.ToLower(text)
	n := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(q, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}
