// Package moderation screens learner queries and generated answers through
// independent policy checkers and merges their verdicts under explicit
// precedence rules.
package moderation

import (
	"strings"

	"github.com/studymesh/tutorcore/core"
)

// Direction marks whether content entering a checker is the learner's query
// or the model's answer.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Context carries everything a checker may consult besides the text itself.
// Checkers are pure: they read the context, never mutate it.
type Context struct {
	Direction Direction
	Learner   *core.LearnerProfile
	Course    *core.CourseContext

	// RestrictedTopics is the per-user parental-controls topic list.
	RestrictedTopics []string

	// Sources lists citations attached to the response, output side only.
	Sources []string
}

// LearnerAge returns the learner age or 0 when unknown.
func (c Context) LearnerAge() int {
	if c.Learner == nil {
		return 0
	}
	return c.Learner.Age
}

// Checker is one independent policy check. Implementations must be pure and
// deterministic so they can be swapped for ML classifiers later without
// touching the combiner.
type Checker interface {
	Name() string
	Check(text string, mctx Context) core.SafetyCheck
}

// normalize lowercases text for lexical matching.
func normalize(text string) string {
	return strings.ToLower(text)
}

// containsAny reports the first phrase found in the normalized text.
func containsAny(normalized string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if strings.Contains(normalized, p) {
			return p, true
		}
	}
	return "", false
}

// passed builds a passing SafetyCheck.
func passed(typ string, confidence float64) core.SafetyCheck {
	return core.SafetyCheck{Type: typ, Passed: true, Confidence: confidence}
}

// failed builds a failing SafetyCheck.
func failed(typ string, confidence float64, details string) core.SafetyCheck {
	return core.SafetyCheck{Type: typ, Passed: false, Confidence: confidence, Details: details}
}
