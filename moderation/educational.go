package moderation

import (
	"fmt"
	"strings"

	"github.com/studymesh/tutorcore/core"
)

// EducationalChecker scores keyword density against an educational
// vocabulary. It is advisory: a low score tags the content but never
// blocks it on its own.
type EducationalChecker struct {
	vocabulary map[string]struct{}
	minDensity float64
	minWords   int
}

// NewEducationalChecker builds the checker with the stock vocabulary.
func NewEducationalChecker() *EducationalChecker {
	words := []string{
		"learn", "understand", "explain", "example", "practice",
		"concept", "theory", "method", "process", "because",
		"therefore", "definition", "means", "works", "steps",
		"formula", "principle", "evidence", "compare", "analyze",
		"remember", "summary", "question", "answer", "solve",
	}
	vocab := make(map[string]struct{}, len(words))
	for _, w := range words {
		vocab[w] = struct{}{}
	}
	return &EducationalChecker{vocabulary: vocab, minDensity: 0.02, minWords: 30}
}

func (c *EducationalChecker) Name() string { return "educational_value" }

func (c *EducationalChecker) Check(text string, _ Context) core.SafetyCheck {
	fields := strings.Fields(normalize(text))
	if len(fields) < c.minWords {
		// Too short to judge.
		return passed("low_educational_value", 0.5)
	}
	hits := 0
	for _, f := range fields {
		word := strings.Trim(f, ".,!?;:\"'()")
		if _, ok := c.vocabulary[word]; ok {
			hits++
		}
	}
	density := float64(hits) / float64(len(fields))
	if density < c.minDensity {
		return failed("low_educational_value", 0.6,
			fmt.Sprintf("educational keyword density %.3f below %.3f", density, c.minDensity))
	}
	return passed("low_educational_value", 0.7)
}
