package moderation

import "github.com/studymesh/tutorcore/core"

// IntegrityChecker flags direct-answer requests and cheating phrasing so
// the pipeline can redirect toward guided help instead of completed work.
type IntegrityChecker struct {
	patterns []string
}

// NewIntegrityChecker builds the checker with the stock phrase list.
func NewIntegrityChecker() *IntegrityChecker {
	return &IntegrityChecker{
		patterns: []string{
			"do my homework", "do my assignment",
			"write my essay", "write my paper", "write this essay for me",
			"just give me the answer", "give me the answers",
			"answers to the test", "answers to the quiz", "exam answers",
			"solve this for me", "complete my assignment",
			"so i can copy", "without getting caught",
		},
	}
}

func (c *IntegrityChecker) Name() string { return "academic_integrity" }

func (c *IntegrityChecker) Check(text string, _ Context) core.SafetyCheck {
	if phrase, ok := containsAny(normalize(text), c.patterns); ok {
		return failed("academic_integrity", 0.85, "cheating phrase: "+phrase)
	}
	return passed("academic_integrity", 0.9)
}
