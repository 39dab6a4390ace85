package core

// SafetyCheck is the verdict of one independent moderation checker. No
// single check is authoritative; the pipeline's combiner merges them.
type SafetyCheck struct {
	Type       string  `json:"type"`
	Passed     bool    `json:"passed"`
	Confidence float64 `json:"confidence"`
	Details    string  `json:"details,omitempty"`
}

// Action is the ordered moderation outcome: allow < filter < block <
// escalate in increasing strictness. The combiner applies the absolute
// precedence block > escalate > filter > allow.
type Action string

const (
	ActionAllow    Action = "allow"
	ActionFilter   Action = "filter"
	ActionBlock    Action = "block"
	ActionEscalate Action = "escalate"
)

// ModerationResult is one checker's (or the combiner's) overall verdict on
// a piece of content.
type ModerationResult struct {
	Appropriate bool        `json:"appropriate"`
	Confidence  float64     `json:"confidence"`
	Categories  []string    `json:"categories,omitempty"`
	Severity    SafetyLevel `json:"severity"`
	Action      Action      `json:"action"`
}

// Blocked reports whether the verdict stops the content outright.
func (m ModerationResult) Blocked() bool {
	return m.Action == ActionBlock || m.Action == ActionEscalate
}
