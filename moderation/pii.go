package moderation

import (
	"regexp"

	"github.com/studymesh/tutorcore/core"
)

// PIIChecker pattern-matches personal information: emails, phone numbers,
// government-id-like numbers and street addresses.
type PIIChecker struct{}

// NewPIIChecker builds the checker.
func NewPIIChecker() *PIIChecker { return &PIIChecker{} }

var piiPatterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{"email", regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)},
	{"phone", regexp.MustCompile(`(\+?\d{1,2}[\s\-.]?)?\(?\d{3}\)?[\s\-.]?\d{3}[\s\-.]?\d{4}\b`)},
	{"government_id", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"street_address", regexp.MustCompile(`(?i)\b\d{1,5}\s+\w+(\s\w+)?\s+(street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|court|ct)\b`)},
}

func (c *PIIChecker) Name() string { return "personal_information" }

func (c *PIIChecker) Check(text string, _ Context) core.SafetyCheck {
	for _, p := range piiPatterns {
		if p.re.MatchString(text) {
			return failed("personal_information", 0.9, "detected "+p.kind)
		}
	}
	return passed("personal_information", 0.95)
}
