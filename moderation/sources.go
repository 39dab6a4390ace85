package moderation

import "github.com/studymesh/tutorcore/core"

// SourceChecker verifies that factual answers carry citations, either as
// metadata sources or inline citation markers. Advisory, output side only.
type SourceChecker struct {
	markers []string
}

// NewSourceChecker builds the checker.
func NewSourceChecker() *SourceChecker {
	return &SourceChecker{
		markers: []string{"according to", "source:", "sources:", "[1]", "et al.", "cited in"},
	}
}

func (c *SourceChecker) Name() string { return "source_reliability" }

func (c *SourceChecker) Check(text string, mctx Context) core.SafetyCheck {
	if mctx.Direction != DirectionOutput {
		return passed("unverified_sources", 0.5)
	}
	if len(mctx.Sources) > 0 {
		return passed("unverified_sources", 0.9)
	}
	if _, ok := containsAny(normalize(text), c.markers); ok {
		return passed("unverified_sources", 0.75)
	}
	return failed("unverified_sources", 0.55, "no citations or sources attached")
}
