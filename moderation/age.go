package moderation

import (
	"fmt"

	"github.com/studymesh/tutorcore/core"
)

// AgeChecker compares content categories found in the text against a
// category -> minimum-age table and the learner's age. Without a learner
// profile the check passes: there is nothing to compare against.
type AgeChecker struct {
	minAges map[string]int
	markers map[string][]string
}

// NewAgeChecker builds the checker with the stock category table.
func NewAgeChecker() *AgeChecker {
	return &AgeChecker{
		minAges: map[string]int{
			"violence":      13,
			"war":           11,
			"romance":       13,
			"dating":        16,
			"politics":      14,
			"finance":       14,
			"true_crime":    16,
			"horror":        13,
		},
		markers: map[string][]string{
			"violence":   {"violence", "violent", "fight", "blood", "gore"},
			"war":        {"war", "battle", "warfare", "invasion"},
			"romance":    {"romance", "romantic", "kissing", "crush"},
			"dating":     {"dating", "date someone", "boyfriend", "girlfriend"},
			"politics":   {"election", "political party", "propaganda"},
			"finance":    {"invest", "stock market", "cryptocurrency", "loan"},
			"true_crime": {"murder case", "serial killer", "true crime"},
			"horror":     {"horror", "ghost story", "nightmare creature"},
		},
	}
}

func (c *AgeChecker) Name() string { return "age_appropriateness" }

func (c *AgeChecker) Check(text string, mctx Context) core.SafetyCheck {
	age := mctx.LearnerAge()
	if age <= 0 {
		return passed("age_inappropriate", 0.5)
	}
	q := normalize(text)
	for category, words := range c.markers {
		if _, ok := containsAny(q, words); !ok {
			continue
		}
		if minAge := c.minAges[category]; age < minAge {
			return failed("age_inappropriate", 0.8,
				fmt.Sprintf("category %s requires age %d, learner is %d", category, minAge, age))
		}
	}
	return passed("age_inappropriate", 0.85)
}
