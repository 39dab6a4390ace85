package moderation

import (
	"strings"

	"github.com/studymesh/tutorcore/core"
)

// ProfanityChecker flags lexical matches against a banned-word set.
type ProfanityChecker struct {
	banned map[string]struct{}
}

// NewProfanityChecker builds the checker with the stock word set, extended
// by any extra words supplied from configuration.
func NewProfanityChecker(extra ...string) *ProfanityChecker {
	words := []string{
		"damn", "hell", "crap", "ass", "bastard", "bitch",
		"shit", "fuck", "piss", "dick", "slut", "whore",
	}
	banned := make(map[string]struct{}, len(words)+len(extra))
	for _, w := range words {
		banned[w] = struct{}{}
	}
	for _, w := range extra {
		banned[strings.ToLower(w)] = struct{}{}
	}
	return &ProfanityChecker{banned: banned}
}

func (c *ProfanityChecker) Name() string { return "profanity" }

func (c *ProfanityChecker) Check(text string, _ Context) core.SafetyCheck {
	for _, word := range strings.FieldsFunc(normalize(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
	}) {
		if _, ok := c.banned[word]; ok {
			return failed("profanity", 0.9, "banned word: "+word)
		}
	}
	return passed("profanity", 0.95)
}
