package coordinator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/studymesh/tutorcore/cache"
	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/escalation"
	"github.com/studymesh/tutorcore/internal/testutil"
	"github.com/studymesh/tutorcore/moderation"
	"github.com/studymesh/tutorcore/notify"
	"github.com/studymesh/tutorcore/orchestrator"
	"github.com/studymesh/tutorcore/providers"
)

type fixture struct {
	coordinator *Coordinator
	adapter     *testutil.MockAdapter
	store       *cache.MemoryStore
	engine      *escalation.Engine
	channel     *testutil.MockChannel
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	adapter := testutil.NewMockAdapter("mock")
	registry := providers.NewRegistry()
	if err := registry.Register(adapter); err != nil {
		t.Fatalf("register adapter: %v", err)
	}

	store := cache.NewMemoryStore()
	channel := testutil.NewMockChannel("in-app")
	engine := escalation.New(escalation.DefaultConfig(), nil, []notify.Channel{channel}, nil)

	c := New(
		moderation.NewPipeline(),
		cache.New(store, cache.DefaultTTLConfig(), nil),
		orchestrator.New(registry, orchestrator.DefaultConfig(), nil),
		engine,
		nil,
		opts...,
	)
	return &fixture{coordinator: c, adapter: adapter, store: store, engine: engine, channel: channel}
}

func TestProcessHappyPathCachesAndServes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := core.Request{UserID: "u1", SessionID: "s1", Query: "What is photosynthesis?"}

	first, err := f.coordinator.Process(ctx, req)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if first.Cached {
		t.Error("first answer should not be cached")
	}
	if first.Text != "mock answer" {
		t.Errorf("text = %q", first.Text)
	}
	if f.adapter.CallCount() != 1 {
		t.Fatalf("adapter calls = %d, want 1", f.adapter.CallCount())
	}

	second, err := f.coordinator.Process(ctx, req)
	if err != nil {
		t.Fatalf("second Process failed: %v", err)
	}
	if !second.Cached {
		t.Error("second answer should come from cache")
	}
	if f.adapter.CallCount() != 1 {
		t.Errorf("adapter calls = %d, cache hit must skip generation", f.adapter.CallCount())
	}
}

func TestProcessEquivalentQueriesShareCacheEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := core.Request{UserID: "u1", SessionID: "s1", Query: " What is  photosynthesis? "}
	b := core.Request{UserID: "u1", SessionID: "s1", Query: "what is photosynthesis"}

	if _, err := f.coordinator.Process(ctx, a); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	resp, err := f.coordinator.Process(ctx, b)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !resp.Cached {
		t.Error("normalized-equivalent query should hit the cache")
	}
}

func TestProcessBlockedInputReturnsRedirectNotError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := core.Request{UserID: "u1", SessionID: "s1", Query: "my email is kid@example.com"}

	resp, err := f.coordinator.Process(ctx, req)
	if err != nil {
		t.Fatalf("moderation violations must not surface as errors: %v", err)
	}
	if resp.Provider != "moderation" {
		t.Errorf("provider = %s, want moderation", resp.Provider)
	}
	if resp.Text == "" || strings.Contains(resp.Text, "kid@example.com") {
		t.Errorf("redirect text should be canned, got %q", resp.Text)
	}
	if f.adapter.CallCount() != 0 {
		t.Error("blocked input must never reach a provider")
	}
	if f.store.Len() != 0 {
		t.Error("redirects must not be cached")
	}
}

func TestProcessHarmfulQueryEscalatesCritical(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := core.Request{UserID: "u1", SessionID: "s1", Query: "I want to hurt someone"}

	resp, err := f.coordinator.Process(ctx, req)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if resp.Metadata == nil || !resp.Metadata.EscalationRecommended {
		t.Error("response should recommend escalation")
	}
	if resp.Safety != core.SafetyCritical {
		t.Errorf("safety = %s, want critical", resp.Safety)
	}

	events := f.engine.History().ForUser("u1", 0)
	if len(events) != 1 {
		t.Fatalf("escalation events = %d, want 1", len(events))
	}
	if events[0].Severity != core.SafetyCritical {
		t.Errorf("event severity = %s, want critical", events[0].Severity)
	}
	if !strings.Contains(events[0].Reason, "distress") {
		t.Errorf("event reason = %q, want distress mention", events[0].Reason)
	}
	if f.channel.Count() == 0 {
		t.Error("escalation should dispatch notifications")
	}
	if f.store.Len() != 0 {
		t.Error("escalated responses must never be cached")
	}
}

func TestProcessDistressQueryEscalates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := core.Request{
		UserID:    "u1",
		SessionID: "s1",
		Query:     "I am so stressed and confused about everything, I want to give up",
	}

	if _, err := f.coordinator.Process(ctx, req); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	events := f.engine.History().ForUser("u1", 0)
	if len(events) != 1 {
		t.Fatalf("escalation events = %d, want 1", len(events))
	}
	if !strings.Contains(events[0].Reason, "distress") {
		t.Errorf("reason = %q, want distress mention", events[0].Reason)
	}
}

func TestProcessBlockedOutputReplacedWithSafeContent(t *testing.T) {
	f := newFixture(t)
	// The generated answer leaks contact information.
	f.adapter.SetText("Sure! Email me at teacher@school.example.org for the answers.")

	ctx := context.Background()
	req := core.Request{UserID: "u1", SessionID: "s1", Query: "how do I contact a tutor"}

	resp, err := f.coordinator.Process(ctx, req)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if strings.Contains(resp.Text, "teacher@school.example.org") {
		t.Error("block-level output violation must replace the answer text")
	}
	if !resp.Safety.AtLeast(core.SafetyHigh) {
		t.Errorf("safety = %s, want at least high", resp.Safety)
	}
	if f.store.Len() != 0 {
		t.Error("unsafe output must never be cached")
	}
}

func TestProcessFilteredOutputKeepsAnswerWithAnnotation(t *testing.T) {
	f := newFixture(t)
	// Generalizing phrasing trips the bias checker at filter level; the
	// answer survives with a downgraded annotation.
	f.adapter.SetText("Everyone knows this. Obviously, those people never study the method.")

	ctx := context.Background()
	req := core.Request{UserID: "u1", SessionID: "s1", Query: "was the exam hard"}

	resp, err := f.coordinator.Process(ctx, req)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !strings.Contains(resp.Text, "study the method") {
		t.Error("filter-level violation should keep the generated answer")
	}
	if resp.Safety != core.SafetyMedium {
		t.Errorf("safety = %s, want medium", resp.Safety)
	}
	if resp.Metadata == nil || len(resp.Metadata.ContentWarnings) == 0 {
		t.Error("filtered answer should carry content warnings")
	}
	if resp.Metadata != nil && resp.Metadata.EscalationRecommended {
		t.Error("a low-confidence filter verdict should not escalate")
	}
}

func TestProcessProviderErrorSurfaces(t *testing.T) {
	f := newFixture(t)
	f.adapter.GenerateErr = errors.New("upstream down")

	_, err := f.coordinator.Process(context.Background(),
		core.Request{UserID: "u1", SessionID: "s1", Query: "anything"})
	if !core.IsProviderError(err) {
		t.Errorf("got %v, want provider_error", err)
	}
}

func TestProcessVoiceTranscribesThenProcesses(t *testing.T) {
	stt := &testutil.MockTranscriber{Text: "what is photosynthesis"}
	f := newFixture(t, WithTranscriber(stt))

	resp, err := f.coordinator.ProcessVoice(context.Background(),
		core.Request{UserID: "u1", SessionID: "s1", Mode: core.ModeVoice},
		[]byte("fake-audio"))
	if err != nil {
		t.Fatalf("ProcessVoice failed: %v", err)
	}
	if stt.Calls != 1 {
		t.Errorf("transcriber calls = %d, want 1", stt.Calls)
	}
	if resp.Text != "mock answer" {
		t.Errorf("text = %q", resp.Text)
	}
	if len(f.adapter.GenerateCalls) != 1 || f.adapter.GenerateCalls[0].Query != "what is photosynthesis" {
		t.Error("transcript should replace the query before the pipeline runs")
	}
}

func TestProcessVoiceWithoutTranscriber(t *testing.T) {
	f := newFixture(t)
	_, err := f.coordinator.ProcessVoice(context.Background(),
		core.Request{UserID: "u1"}, []byte("audio"))
	if err == nil {
		t.Error("missing transcriber should error")
	}
}

func TestProcessFillsDefaults(t *testing.T) {
	f := newFixture(t)
	resp, err := f.coordinator.Process(context.Background(),
		core.Request{UserID: "u1", SessionID: "s1", Query: "solve 2x = 4"})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if resp.RequestID == "" {
		t.Error("request id should be generated when empty")
	}
	if len(f.adapter.GenerateCalls) != 1 {
		t.Fatal("expected one generation")
	}
	got := f.adapter.GenerateCalls[0]
	if got.Type != core.QueryMath {
		t.Errorf("inferred type = %s, want math_problem", got.Type)
	}
	if got.Mode != core.ModeText {
		t.Errorf("default mode = %s, want text", got.Mode)
	}
}
