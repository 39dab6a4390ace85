package moderation

import "github.com/studymesh/tutorcore/core"

// Combine merges independent moderation results into one verdict.
//
// Severity is the maximum across results. The action follows the absolute
// precedence block > escalate > filter > allow; confidence values never
// short-circuit it. Categories are the union across results. Confidence is
// the minimum across results only in the allow branch, as a conservative
// lower bound; otherwise it is the highest confidence among the results
// that voted for the winning action.
func Combine(results []core.ModerationResult) core.ModerationResult {
	if len(results) == 0 {
		return core.ModerationResult{
			Appropriate: true,
			Confidence:  1.0,
			Severity:    core.SafetyLow,
			Action:      core.ActionAllow,
		}
	}

	severity := core.SafetyLow
	var categories []string
	seen := map[string]struct{}{}
	counts := map[core.Action]int{}

	for _, r := range results {
		severity = core.MaxSafetyLevel(severity, r.Severity)
		counts[r.Action]++
		for _, cat := range r.Categories {
			if _, dup := seen[cat]; dup {
				continue
			}
			seen[cat] = struct{}{}
			categories = append(categories, cat)
		}
	}

	action := core.ActionAllow
	switch {
	case counts[core.ActionBlock] > 0:
		action = core.ActionBlock
	case counts[core.ActionEscalate] > 0:
		action = core.ActionEscalate
	case counts[core.ActionFilter] > 0:
		action = core.ActionFilter
	}

	var confidence float64
	if action == core.ActionAllow {
		confidence = 1.0
		for _, r := range results {
			if r.Confidence < confidence {
				confidence = r.Confidence
			}
		}
	} else {
		for _, r := range results {
			if r.Action == action && r.Confidence > confidence {
				confidence = r.Confidence
			}
		}
	}

	return core.ModerationResult{
		Appropriate: action == core.ActionAllow,
		Confidence:  confidence,
		Categories:  categories,
		Severity:    severity,
		Action:      action,
	}
}
