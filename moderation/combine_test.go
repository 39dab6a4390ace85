package moderation

import (
	"testing"

	"github.com/studymesh/tutorcore/core"
)

func TestCombineEmpty(t *testing.T) {
	got := Combine(nil)
	if !got.Appropriate || got.Action != core.ActionAllow {
		t.Errorf("empty combine = %+v, want allow", got)
	}
}

func TestCombineBlockPrecedenceIsAbsolute(t *testing.T) {
	// A single low-confidence block must win over any number of
	// high-confidence allows.
	results := []core.ModerationResult{
		{Appropriate: true, Confidence: 0.99, Severity: core.SafetyLow, Action: core.ActionAllow},
		{Appropriate: true, Confidence: 0.98, Severity: core.SafetyLow, Action: core.ActionAllow},
		{Appropriate: false, Confidence: 0.2, Severity: core.SafetyHigh, Action: core.ActionBlock, Categories: []string{"age_inappropriate"}},
		{Appropriate: true, Confidence: 0.97, Severity: core.SafetyLow, Action: core.ActionAllow},
	}
	got := Combine(results)
	if got.Action != core.ActionBlock {
		t.Errorf("action = %s, want block", got.Action)
	}
	if got.Appropriate {
		t.Error("blocked content must not be appropriate")
	}
	if got.Severity != core.SafetyHigh {
		t.Errorf("severity = %s, want high", got.Severity)
	}
}

func TestCombineActionPrecedenceOrder(t *testing.T) {
	block := core.ModerationResult{Action: core.ActionBlock, Severity: core.SafetyHigh, Confidence: 0.5}
	escalate := core.ModerationResult{Action: core.ActionEscalate, Severity: core.SafetyCritical, Confidence: 0.9}
	filter := core.ModerationResult{Action: core.ActionFilter, Severity: core.SafetyMedium, Confidence: 0.8}

	if got := Combine([]core.ModerationResult{escalate, block}); got.Action != core.ActionBlock {
		t.Errorf("block should beat escalate, got %s", got.Action)
	}
	if got := Combine([]core.ModerationResult{filter, escalate}); got.Action != core.ActionEscalate {
		t.Errorf("escalate should beat filter, got %s", got.Action)
	}
	if got := Combine([]core.ModerationResult{filter}); got.Action != core.ActionFilter {
		t.Errorf("filter should beat allow, got %s", got.Action)
	}
}

func TestCombineSeverityIsMax(t *testing.T) {
	results := []core.ModerationResult{
		{Action: core.ActionFilter, Severity: core.SafetyMedium, Confidence: 0.8},
		{Action: core.ActionEscalate, Severity: core.SafetyCritical, Confidence: 0.9},
	}
	got := Combine(results)
	if got.Severity != core.SafetyCritical {
		t.Errorf("severity = %s, want critical", got.Severity)
	}
}

func TestCombineCategoriesUnion(t *testing.T) {
	results := []core.ModerationResult{
		{Action: core.ActionFilter, Confidence: 0.8, Categories: []string{"profanity"}},
		{Action: core.ActionFilter, Confidence: 0.7, Categories: []string{"bias", "profanity"}},
	}
	got := Combine(results)
	if len(got.Categories) != 2 || got.Categories[0] != "profanity" || got.Categories[1] != "bias" {
		t.Errorf("categories = %v, want [profanity bias]", got.Categories)
	}
}

func TestCombineConfidence(t *testing.T) {
	// Allow branch takes the conservative minimum.
	allows := []core.ModerationResult{
		{Appropriate: true, Action: core.ActionAllow, Confidence: 0.9},
		{Appropriate: true, Action: core.ActionAllow, Confidence: 0.6},
	}
	if got := Combine(allows); got.Confidence != 0.6 {
		t.Errorf("allow confidence = %v, want 0.6", got.Confidence)
	}

	// Non-allow takes the strongest vote for the winning action.
	mixed := []core.ModerationResult{
		{Action: core.ActionBlock, Confidence: 0.4},
		{Action: core.ActionBlock, Confidence: 0.7},
		{Action: core.ActionFilter, Confidence: 0.99},
	}
	if got := Combine(mixed); got.Confidence != 0.7 {
		t.Errorf("block confidence = %v, want 0.7", got.Confidence)
	}
}
