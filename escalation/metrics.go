package escalation

import (
	"time"

	"github.com/studymesh/tutorcore/core"
)

// Stats aggregates escalation counts by reason and severity. A read-only
// derived view over the append-only history.
type Stats struct {
	Total      int                      `json:"total"`
	Unresolved int                      `json:"unresolved"`
	ByReason   map[string]int           `json:"by_reason"`
	BySeverity map[core.SafetyLevel]int `json:"by_severity"`
}

// Metrics aggregates counts over an optional time window. Zero bounds mean
// unbounded on that side.
func (e *Engine) Metrics(from, to time.Time) Stats {
	stats := Stats{
		ByReason:   make(map[string]int),
		BySeverity: make(map[core.SafetyLevel]int),
	}
	for _, event := range e.history.All() {
		if !from.IsZero() && event.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && event.CreatedAt.After(to) {
			continue
		}
		stats.Total++
		if !event.Resolved {
			stats.Unresolved++
		}
		stats.ByReason[event.Reason]++
		stats.BySeverity[event.Severity]++
	}
	return stats
}
