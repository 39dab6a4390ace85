package moderation

import (
	"fmt"
	"strings"

	"github.com/studymesh/tutorcore/core"
)

// biasFlagThreshold is the number of absolutist or generalizing phrases at
// which content is flagged for bias.
const biasFlagThreshold = 3

// BiasChecker counts absolutist and generalizing phrases.
type BiasChecker struct {
	phrases []string
}

// NewBiasChecker builds the checker with the stock phrase list.
func NewBiasChecker() *BiasChecker {
	return &BiasChecker{
		phrases: []string{
			"everyone knows", "everybody knows", "obviously",
			"all people", "no one ever", "nobody ever",
			"always true", "never true", "without exception",
			"women are", "men are", "boys are", "girls are",
			"people like that", "those people", "they all",
		},
	}
}

func (c *BiasChecker) Name() string { return "bias" }

func (c *BiasChecker) Check(text string, _ Context) core.SafetyCheck {
	q := normalize(text)
	count := 0
	for _, p := range c.phrases {
		count += strings.Count(q, p)
	}
	if count >= biasFlagThreshold {
		return failed("bias", 0.7, fmt.Sprintf("%d generalizing phrases", count))
	}
	return passed("bias", 0.8)
}
