package providers

import (
	"fmt"
	"strings"

	"github.com/studymesh/tutorcore/core"
)

// BuildPrompt renders a request into a (system, user) prompt pair shared by
// all adapters so backends receive equivalent instructions.
func BuildPrompt(req core.Request) (system string, user string) {
	var b strings.Builder
	b.WriteString("You are a patient tutor on a learning platform. ")
	b.WriteString("Guide the learner toward understanding; do not just hand over final answers to graded work.")

	if req.Learner != nil {
		if req.Learner.Age > 0 {
			fmt.Fprintf(&b, " The learner is %d years old; keep content age-appropriate.", req.Learner.Age)
		}
		if req.Learner.Grade > 0 {
			fmt.Fprintf(&b, " They are in grade %d.", req.Learner.Grade)
		}
		if req.Learner.LearningStyle != "" {
			fmt.Fprintf(&b, " Preferred learning style: %s.", req.Learner.LearningStyle)
		}
		if req.Learner.Language != "" {
			fmt.Fprintf(&b, " Respond in %s.", req.Learner.Language)
		}
	}
	if req.Course != nil {
		if req.Course.Subject != "" {
			fmt.Fprintf(&b, " Current subject: %s.", req.Course.Subject)
		}
		if req.Course.CurrentLesson != "" {
			fmt.Fprintf(&b, " Current lesson: %s.", req.Course.CurrentLesson)
		}
		if len(req.Course.ReferenceMaterials) > 0 {
			fmt.Fprintf(&b, " Reference materials: %s.", strings.Join(req.Course.ReferenceMaterials, "; "))
		}
	}
	return b.String(), req.Query
}

// ConfidenceFromFinish maps a backend finish reason onto a confidence score.
// Complete answers score high; truncated or filtered ones are discounted.
func ConfidenceFromFinish(reason string) float64 {
	switch strings.ToLower(reason) {
	case "stop", "end_turn", "complete", "finish_reason_stop":
		return 0.9
	case "length", "max_tokens", "finish_reason_max_tokens":
		return 0.6
	case "content_filter", "safety", "finish_reason_safety":
		return 0.3
	default:
		return 0.75
	}
}

// EstimateRequestCost implements the shared cost formula: input estimate
// plus a capped output estimate, priced with the model's cost row.
func EstimateRequestCost(req core.Request, caps Capabilities, model string) float64 {
	if model == "" {
		model = caps.DefaultModel
	}
	est := core.EstimateRequestTokens(req)
	cost := caps.CostFor(model)
	return float64(est.Input)/1e6*cost.InputPerMTok + float64(est.MaxOutput)/1e6*cost.OutputPerMTok
}
