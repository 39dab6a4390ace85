package escalation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/notify"
	"github.com/studymesh/tutorcore/obs"
)

// DefaultDistressKeywords is the stock emotional-distress and harm list.
// A match short-circuits straight to critical severity, ahead of the rule
// table and its configurable threshold. That precedence is deliberate
// policy: emotional safety always wins.
var DefaultDistressKeywords = []string{
	"hurt someone", "hurt myself", "hurt me",
	"kill myself", "kill someone", "want to die", "end my life",
	"suicide", "self harm", "self-harm",
	"give up", "hopeless", "worthless",
	"can't take it anymore", "nobody cares",
	"so stressed", "panic attack",
}

// Decision is the outcome of evaluating a request for escalation.
type Decision struct {
	Should   bool
	Reason   string
	Severity core.SafetyLevel
	RuleID   string
}

// Config tunes the engine.
type Config struct {
	// Threshold is the minimum confidence at which a failed safety check
	// escalates on its own.
	Threshold float64
	// DistressKeywords overrides DefaultDistressKeywords when non-empty.
	DistressKeywords []string
	// ChannelsBySeverity maps severity to the channel names notified.
	ChannelsBySeverity map[core.SafetyLevel][]string
}

// DefaultConfig returns the stock thresholds and channel routing: critical
// reaches every channel, high most, medium and low only the in-app feed.
func DefaultConfig() Config {
	return Config{
		Threshold: 0.8,
		ChannelsBySeverity: map[core.SafetyLevel][]string{
			core.SafetyCritical: {"email", "push", "in-app"},
			core.SafetyHigh:     {"email", "in-app"},
			core.SafetyMedium:   {"in-app"},
			core.SafetyLow:      {"in-app"},
		},
	}
}

type assignKey struct {
	userID   string
	courseID string
}

type queryRecord struct {
	query string
	at    time.Time
}

// Engine decides when a human supervisor must be alerted, tracks open
// incidents, and routes notifications. All state is explicit and injected;
// there are no package-level singletons.
type Engine struct {
	cfg Config

	mu          sync.RWMutex
	rules       []Rule
	assignments map[assignKey]string
	recent      map[string][]queryRecord

	history  *History
	channels map[string]notify.Channel
	log      *zap.Logger
	now      func() time.Time
}

// New constructs an engine with the given rules and notification channels.
func New(cfg Config, rules []Rule, channels []notify.Channel, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.8
	}
	if len(cfg.DistressKeywords) == 0 {
		cfg.DistressKeywords = DefaultDistressKeywords
	}
	if cfg.ChannelsBySeverity == nil {
		cfg.ChannelsBySeverity = DefaultConfig().ChannelsBySeverity
	}
	byName := make(map[string]notify.Channel, len(channels))
	for _, ch := range channels {
		byName[ch.Name()] = ch
	}
	return &Engine{
		cfg:         cfg,
		rules:       append([]Rule(nil), rules...),
		assignments: make(map[assignKey]string),
		recent:      make(map[string][]queryRecord),
		history:     NewHistory(),
		channels:    byName,
		log:         log,
		now:         time.Now,
	}
}

// SetRules replaces the rule table at runtime.
func (e *Engine) SetRules(rules []Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append([]Rule(nil), rules...)
}

// Rules returns a copy of the current rule table.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Rule(nil), e.rules...)
}

// AssignTeacher records the supervising teacher for a (user, course) pair.
func (e *Engine) AssignTeacher(userID, courseID, teacherID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.assignments[assignKey{userID, courseID}] = teacherID
}

// teacherFor resolves the assigned teacher, falling back to unassigned.
func (e *Engine) teacherFor(userID, courseID string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if t, ok := e.assignments[assignKey{userID, courseID}]; ok {
		return t
	}
	// Course-agnostic assignment as a fallback.
	return e.assignments[assignKey{userID, ""}]
}

// RecordQuery tracks the request for the repeated-questions condition.
func (e *Engine) RecordQuery(userID, query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	records := e.recent[userID]
	cutoff := e.now().Add(-time.Hour)
	kept := records[:0]
	for _, rec := range records {
		if rec.at.After(cutoff) {
			kept = append(kept, rec)
		}
	}
	e.recent[userID] = append(kept, queryRecord{query: normalizeQuery(query), at: e.now()})
}

func (e *Engine) repeatCount(userID, query string) func(window time.Duration) int {
	normalized := normalizeQuery(query)
	return func(window time.Duration) int {
		e.mu.RLock()
		defer e.mu.RUnlock()
		cutoff := e.now().Add(-window)
		n := 0
		for _, rec := range e.recent[userID] {
			if rec.query == normalized && rec.at.After(cutoff) {
				n++
			}
		}
		return n
	}
}

// Evaluate decides whether the request must escalate. Evaluation order is
// strict: (1) distress keywords in the raw query short-circuit to critical;
// (2) any failed safety check at or above the confidence threshold
// escalates at high; (3) the rule table; (4) no escalation.
func (e *Engine) Evaluate(req core.Request, checks []core.SafetyCheck) Decision {
	if kw, ok := matchAny(req.Query, e.cfg.DistressKeywords); ok {
		return Decision{
			Should:   true,
			Reason:   fmt.Sprintf("emotional distress signals in query (matched %q)", kw),
			Severity: core.SafetyCritical,
		}
	}

	for _, check := range checks {
		if !check.Passed && check.Confidence >= e.cfg.Threshold {
			return Decision{
				Should:   true,
				Reason:   fmt.Sprintf("safety check %s failed with confidence %.2f", check.Type, check.Confidence),
				Severity: core.SafetyHigh,
			}
		}
	}

	in := ruleInput{
		query:       req.Query,
		checks:      checks,
		repeatCount: e.repeatCount(req.UserID, req.Query),
	}
	for _, rule := range e.Rules() {
		if rule.matches(in) {
			severity := rule.Priority
			if severity == "" {
				severity = core.SafetyMedium
			}
			return Decision{
				Should:   true,
				Reason:   fmt.Sprintf("escalation rule %s matched", rule.ID),
				Severity: severity,
				RuleID:   rule.ID,
			}
		}
	}

	return Decision{}
}

// Escalate creates an event for a positive decision, appends it to the
// user's history, and dispatches notifications. Notification failures are
// logged and never surfaced: dispatch is fire-and-forget.
func (e *Engine) Escalate(ctx context.Context, req core.Request, decision Decision) *Event {
	courseID := ""
	if req.Course != nil {
		courseID = req.Course.CourseID
	}
	event := &Event{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		SessionID: req.SessionID,
		RequestID: req.ID,
		Reason:    decision.Reason,
		Severity:  decision.Severity,
		TeacherID: e.teacherFor(req.UserID, courseID),
		CreatedAt: e.now().UTC(),
	}
	e.history.Append(event)
	obs.RecordEscalation(attribute.String("severity", string(event.Severity)))
	e.log.Warn("escalation created",
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.String("severity", string(event.Severity)),
		zap.String("reason", event.Reason),
		zap.String("teacher_id", event.TeacherID),
	)
	e.dispatch(ctx, event)
	return event
}

func (e *Engine) dispatch(ctx context.Context, event *Event) {
	names := e.cfg.ChannelsBySeverity[event.Severity]
	n := notify.Notification{
		EventID:   event.ID,
		UserID:    event.UserID,
		TeacherID: event.TeacherID,
		Reason:    event.Reason,
		Severity:  event.Severity,
		CreatedAt: event.CreatedAt,
	}
	for _, name := range names {
		channel, ok := e.channels[name]
		if !ok {
			continue
		}
		if err := channel.Send(ctx, n); err != nil {
			e.log.Warn("notification send failed",
				zap.String("channel", name),
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	}
}

// Resolve closes an active event. The resolving teacher must match the
// assigned teacher; unassigned events may be resolved by anyone.
func (e *Engine) Resolve(eventID, teacherID, resolution string) error {
	event, ok := e.history.Active(eventID)
	if !ok {
		return core.NewError(core.ErrEscalationNotFound,
			fmt.Sprintf("escalation: no active event %s", eventID))
	}
	if event.TeacherID != "" && event.TeacherID != teacherID {
		return core.NewError(core.ErrEscalationUnauthorized,
			fmt.Sprintf("escalation: event %s is assigned to another teacher", eventID))
	}
	e.history.MarkResolved(eventID, teacherID, resolution, e.now().UTC())
	e.log.Info("escalation resolved",
		zap.String("event_id", eventID),
		zap.String("teacher_id", teacherID),
	)
	return nil
}

// History exposes the append-only event history.
func (e *Engine) History() *History { return e.history }

func normalizeQuery(query string) string {
	return joinFields(query)
}
