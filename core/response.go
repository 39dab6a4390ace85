package core

import "time"

// SafetyLevel is the ordered severity scale used across checks, moderation
// results, responses and escalation events: low < medium < high < critical.
type SafetyLevel string

const (
	SafetyLow      SafetyLevel = "low"
	SafetyMedium   SafetyLevel = "medium"
	SafetyHigh     SafetyLevel = "high"
	SafetyCritical SafetyLevel = "critical"
)

var safetyRank = map[SafetyLevel]int{
	SafetyLow:      0,
	SafetyMedium:   1,
	SafetyHigh:     2,
	SafetyCritical: 3,
}

// Rank returns the position of the level in the total order. Unknown levels
// rank lowest.
func (l SafetyLevel) Rank() int { return safetyRank[l] }

// AtLeast reports whether l is at least as severe as other.
func (l SafetyLevel) AtLeast(other SafetyLevel) bool { return l.Rank() >= other.Rank() }

// MaxSafetyLevel returns the more severe of two levels.
func MaxSafetyLevel(a, b SafetyLevel) SafetyLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Usage captures token accounting for a single generation.
type Usage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	CostUSD      float64 `json:"cost_usd,omitempty"`
}

// ResponseMetadata carries optional annotations attached at generation or
// moderation time.
type ResponseMetadata struct {
	Sources               []string `json:"sources,omitempty"`
	FollowUps             []string `json:"follow_ups,omitempty"`
	EscalationRecommended bool     `json:"escalation_recommended,omitempty"`
	ContentWarnings       []string `json:"content_warnings,omitempty"`
}

// Response is the pipeline's answer to a Request. Created once per
// generation or safety short-circuit; only the Cached flag changes after
// creation, when the response is served from cache.
type Response struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id"`
	Text      string `json:"text"`

	Provider string `json:"provider"`
	Model    string `json:"model"`

	Confidence float64     `json:"confidence"`
	Safety     SafetyLevel `json:"safety"`

	Usage     Usage `json:"usage"`
	LatencyMS int64 `json:"latency_ms,omitempty"`
	Cached    bool  `json:"cached"`

	Metadata *ResponseMetadata `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// EscalationRecommended reports whether the response was flagged for human
// review.
func (r *Response) EscalationRecommended() bool {
	return r.Metadata != nil && r.Metadata.EscalationRecommended
}

// Cacheable reports whether the response may be written to the response
// cache. High and critical safety levels, and anything flagged for
// escalation, must never be cached.
func (r *Response) Cacheable() bool {
	if r == nil {
		return false
	}
	if r.Safety.AtLeast(SafetyHigh) {
		return false
	}
	return !r.EscalationRecommended()
}
