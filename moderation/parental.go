package moderation

import "github.com/studymesh/tutorcore/core"

// ParentalChecker enforces the per-user restricted-topic list supplied by
// parental controls. The list arrives through the moderation Context; an
// empty list passes everything.
type ParentalChecker struct{}

// NewParentalChecker builds the checker.
func NewParentalChecker() *ParentalChecker { return &ParentalChecker{} }

func (c *ParentalChecker) Name() string { return "parental_controls" }

func (c *ParentalChecker) Check(text string, mctx Context) core.SafetyCheck {
	if len(mctx.RestrictedTopics) == 0 {
		return passed("parental_restriction", 0.9)
	}
	q := normalize(text)
	lowered := make([]string, len(mctx.RestrictedTopics))
	for i, topic := range mctx.RestrictedTopics {
		lowered[i] = normalize(topic)
	}
	if topic, ok := containsAny(q, lowered); ok {
		return failed("parental_restriction", 0.9, "restricted by parental controls: "+topic)
	}
	return passed("parental_restriction", 0.9)
}
