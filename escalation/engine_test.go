package escalation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/internal/testutil"
	"github.com/studymesh/tutorcore/notify"
)

func TestEvaluateDistressShortCircuitsToCritical(t *testing.T) {
	e := New(DefaultConfig(), nil, nil, nil)

	cases := []string{
		"I want to hurt someone",
		"I am so stressed and confused about everything, I want to give up",
	}
	for _, query := range cases {
		decision := e.Evaluate(core.Request{UserID: "u1", Query: query}, nil)
		if !decision.Should {
			t.Errorf("%q: expected escalation", query)
			continue
		}
		if decision.Severity != core.SafetyCritical {
			t.Errorf("%q: severity = %s, want critical", query, decision.Severity)
		}
		if !strings.Contains(decision.Reason, "distress") {
			t.Errorf("%q: reason = %q, want distress mention", query, decision.Reason)
		}
	}
}

func TestEvaluateDistressBeatsRuleTable(t *testing.T) {
	// A rule that would also match must lose to the distress short-circuit.
	rules := []Rule{{
		ID:      "catch-all-distress",
		Enabled: true,
		Conditions: []Condition{{
			Type:     "emotional_distress",
			Keywords: []string{"give up"},
		}},
		Action:   "notify_teacher",
		Priority: core.SafetyMedium,
	}}
	e := New(DefaultConfig(), rules, nil, nil)

	decision := e.Evaluate(core.Request{UserID: "u1", Query: "I want to give up"}, nil)
	if decision.Severity != core.SafetyCritical || decision.RuleID != "" {
		t.Errorf("decision = %+v, want critical with no rule id", decision)
	}
}

func TestEvaluateFailedCheckAtThreshold(t *testing.T) {
	e := New(DefaultConfig(), nil, nil, nil)
	req := core.Request{UserID: "u1", Query: "ordinary question"}

	below := []core.SafetyCheck{{Type: "bias", Passed: false, Confidence: 0.7}}
	if d := e.Evaluate(req, below); d.Should {
		t.Error("below-threshold failure should not escalate")
	}

	at := []core.SafetyCheck{{Type: "inappropriate_topic", Passed: false, Confidence: 0.8}}
	d := e.Evaluate(req, at)
	if !d.Should || d.Severity != core.SafetyHigh {
		t.Errorf("at-threshold failure: got %+v, want high", d)
	}

	passedOnly := []core.SafetyCheck{{Type: "profanity", Passed: true, Confidence: 0.99}}
	if d := e.Evaluate(req, passedOnly); d.Should {
		t.Error("passing checks should not escalate")
	}
}

func TestEvaluateRuleConditionsAreConjunctive(t *testing.T) {
	rules := []Rule{{
		ID:      "struggling-student",
		Enabled: true,
		Conditions: []Condition{
			{Type: "complex_topic", Keywords: []string{"confused", "don't understand"}},
			{Type: "repeated_questions", Count: 3, WindowSeconds: 600},
		},
		Action:   "notify_teacher",
		Priority: core.SafetyMedium,
	}}
	e := New(DefaultConfig(), rules, nil, nil)
	req := core.Request{UserID: "u1", Query: "I am confused by fractions"}

	// Only the keyword condition holds: one occurrence recorded.
	e.RecordQuery(req.UserID, req.Query)
	if d := e.Evaluate(req, nil); d.Should {
		t.Fatal("rule should not fire with only one condition satisfied")
	}

	// Two more identical questions satisfy the repeat condition too.
	e.RecordQuery(req.UserID, req.Query)
	e.RecordQuery(req.UserID, req.Query)
	d := e.Evaluate(req, nil)
	if !d.Should {
		t.Fatal("rule should fire once every condition holds")
	}
	if d.RuleID != "struggling-student" || d.Severity != core.SafetyMedium {
		t.Errorf("decision = %+v", d)
	}
}

func TestEvaluateDisabledRuleNeverFires(t *testing.T) {
	rules := []Rule{{
		ID:         "disabled",
		Enabled:    false,
		Conditions: []Condition{{Type: "complex_topic", Keywords: []string{"anything"}}},
		Priority:   core.SafetyHigh,
	}}
	e := New(DefaultConfig(), rules, nil, nil)
	if d := e.Evaluate(core.Request{UserID: "u1", Query: "anything"}, nil); d.Should {
		t.Error("disabled rule fired")
	}
}

func TestEscalateDispatchesBySeverity(t *testing.T) {
	email := testutil.NewMockChannel("email")
	push := testutil.NewMockChannel("push")
	inApp := testutil.NewMockChannel("in-app")
	e := New(DefaultConfig(), nil, []notify.Channel{email, push, inApp}, nil)

	ctx := context.Background()
	req := core.Request{ID: "r1", UserID: "u1", SessionID: "s1"}

	e.Escalate(ctx, req, Decision{Should: true, Reason: "test", Severity: core.SafetyCritical})
	if email.Count() != 1 || push.Count() != 1 || inApp.Count() != 1 {
		t.Errorf("critical should reach all channels: email=%d push=%d in-app=%d",
			email.Count(), push.Count(), inApp.Count())
	}

	e.Escalate(ctx, req, Decision{Should: true, Reason: "test", Severity: core.SafetyMedium})
	if push.Count() != 1 {
		t.Error("medium severity should not reach push")
	}
	if inApp.Count() != 2 {
		t.Errorf("medium severity should reach in-app, got %d", inApp.Count())
	}
}

func TestResolveAuthorization(t *testing.T) {
	e := New(DefaultConfig(), nil, nil, nil)
	ctx := context.Background()

	// Unknown event.
	if err := e.Resolve("missing", "t1", "done"); !core.IsEscalationNotFound(err) {
		t.Errorf("got %v, want escalation_not_found", err)
	}

	// Assigned event: only the assigned teacher may resolve.
	e.AssignTeacher("u1", "", "t1")
	event := e.Escalate(ctx, core.Request{ID: "r1", UserID: "u1"},
		Decision{Should: true, Reason: "test", Severity: core.SafetyHigh})

	if err := e.Resolve(event.ID, "t2", "done"); !core.IsEscalationUnauthorized(err) {
		t.Errorf("got %v, want escalation_unauthorized", err)
	}
	if err := e.Resolve(event.ID, "t1", "talked to student"); err != nil {
		t.Fatalf("assigned teacher resolve failed: %v", err)
	}

	// Double resolve: no longer active.
	if err := e.Resolve(event.ID, "t1", "again"); !core.IsEscalationNotFound(err) {
		t.Errorf("got %v, want escalation_not_found after resolution", err)
	}

	// Unassigned events may be resolved by anyone.
	event = e.Escalate(ctx, core.Request{ID: "r2", UserID: "u2"},
		Decision{Should: true, Reason: "test", Severity: core.SafetyHigh})
	if event.TeacherID != "" {
		t.Fatalf("expected unassigned event, got teacher %q", event.TeacherID)
	}
	if err := e.Resolve(event.ID, "anyone", "handled"); err != nil {
		t.Fatalf("unassigned resolve failed: %v", err)
	}
}

func TestHistoryLimitAndRetention(t *testing.T) {
	e := New(DefaultConfig(), nil, nil, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		e.Escalate(ctx, core.Request{UserID: "u1"},
			Decision{Should: true, Reason: "test", Severity: core.SafetyHigh})
	}

	all := e.History().ForUser("u1", 0)
	if len(all) != 5 {
		t.Fatalf("history = %d events, want 5", len(all))
	}
	recent := e.History().ForUser("u1", 2)
	if len(recent) != 2 {
		t.Fatalf("limited history = %d events, want 2", len(recent))
	}
	if recent[1] != all[4] {
		t.Error("limit should keep the most recent events")
	}

	// Resolution never removes an event from history.
	if err := e.Resolve(all[0].ID, "t1", "done"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got := len(e.History().ForUser("u1", 0)); got != 5 {
		t.Errorf("history after resolve = %d, want 5", got)
	}
	if got := len(e.History().ActiveEvents()); got != 4 {
		t.Errorf("active events = %d, want 4", got)
	}
}

func TestMetricsWindow(t *testing.T) {
	e := New(DefaultConfig(), nil, nil, nil)
	ctx := context.Background()

	e.Escalate(ctx, core.Request{UserID: "u1", Query: "q"},
		Decision{Should: true, Reason: "reason a", Severity: core.SafetyHigh})
	e.Escalate(ctx, core.Request{UserID: "u2", Query: "q"},
		Decision{Should: true, Reason: "reason a", Severity: core.SafetyCritical})

	stats := e.Metrics(time.Time{}, time.Time{})
	if stats.Total != 2 || stats.Unresolved != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByReason["reason a"] != 2 {
		t.Errorf("by reason = %v", stats.ByReason)
	}
	if stats.BySeverity[core.SafetyCritical] != 1 {
		t.Errorf("by severity = %v", stats.BySeverity)
	}

	// A window in the past excludes everything.
	past := e.Metrics(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	if past.Total != 0 {
		t.Errorf("past window total = %d, want 0", past.Total)
	}
}
