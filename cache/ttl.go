package cache

import (
	"time"

	"github.com/studymesh/tutorcore/core"
)

// TTL bounds. Every computed TTL clamps into this range.
const (
	MinTTL = 5 * time.Minute
	MaxTTL = 24 * time.Hour
)

// TTLConfig tunes time-to-live computation.
type TTLConfig struct {
	// Base is the starting TTL before factors apply.
	Base time.Duration
	// LowConfidence is the confidence below which the TTL halves.
	LowConfidence float64
	// YoungLearnerAge is the age below which the TTL shrinks.
	YoungLearnerAge int
}

// DefaultTTLConfig returns the stock TTL policy.
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Base:            time.Hour,
		LowConfidence:   0.7,
		YoungLearnerAge: 13,
	}
}

// classification factors: stable answers cache longer, coursework-shaped
// answers shorter.
var ttlFactors = map[core.QueryType]float64{
	core.QueryGeneral:  2.0,
	core.QueryHomework: 0.5,
	core.QueryConcept:  1.5,
	core.QueryProblem:  0.3,
}

// TTLFor computes the entry lifetime for a request/response pair, clamped
// to [MinTTL, MaxTTL].
func (c TTLConfig) TTLFor(req core.Request, resp *core.Response) time.Duration {
	base := c.Base
	if base <= 0 {
		base = time.Hour
	}
	ttl := float64(base)

	if factor, ok := ttlFactors[req.Classification()]; ok {
		ttl *= factor
	}
	if resp != nil && resp.Confidence < c.LowConfidence {
		ttl *= 0.5
	}
	if age := req.LearnerAge(); age > 0 && age < c.YoungLearnerAge {
		ttl *= 0.7
	}

	d := time.Duration(ttl)
	if d < MinTTL {
		return MinTTL
	}
	if d > MaxTTL {
		return MaxTTL
	}
	return d
}
