// Package coordinator sequences the request pipeline: moderate input,
// cache lookup, generate, moderate output, escalate, cache write. The
// ordering is a correctness requirement: later steps consume earlier
// verdicts.
package coordinator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studymesh/tutorcore/cache"
	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/escalation"
	"github.com/studymesh/tutorcore/moderation"
	"github.com/studymesh/tutorcore/obs"
	"github.com/studymesh/tutorcore/orchestrator"
	"github.com/studymesh/tutorcore/speech"
)

// Coordinator owns the per-request decision pipeline. All collaborators are
// injected at construction; the coordinator holds no global state.
type Coordinator struct {
	moderation  *moderation.Pipeline
	cache       *cache.ResponseCache
	orch        *orchestrator.Orchestrator
	escalation  *escalation.Engine
	transcriber speech.Transcriber
	log         *zap.Logger
}

// Option mutates the coordinator during construction.
type Option func(*Coordinator)

// WithTranscriber installs a speech-to-text collaborator for voice-mode
// requests.
func WithTranscriber(t speech.Transcriber) Option {
	return func(c *Coordinator) { c.transcriber = t }
}

// New wires the pipeline together.
func New(mod *moderation.Pipeline, rc *cache.ResponseCache, orch *orchestrator.Orchestrator, esc *escalation.Engine, log *zap.Logger, opts ...Option) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{
		moderation: mod,
		cache:      rc,
		orch:       orch,
		escalation: esc,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Process runs one request through the full pipeline and returns the vetted
// response. Moderation violations return safe redirect responses, never
// errors; only provider and configuration failures surface as errors.
func (c *Coordinator) Process(ctx context.Context, req core.Request) (*core.Response, error) {
	req = c.prepare(req)
	c.escalation.RecordQuery(req.UserID, req.Query)

	// Step 1: moderate the inbound query.
	inResult, inChecks := c.moderation.ModerateInput(req)
	if inResult.Action != core.ActionAllow {
		return c.redirect(ctx, req, inResult, inChecks), nil
	}

	// Step 2: cache lookup. A hit skips generation and output moderation:
	// only content that already passed both was ever written.
	if cached, ok := c.cache.Get(ctx, req); ok {
		c.log.Debug("cache hit", zap.String("request_id", req.ID))
		return cached, nil
	}

	// Step 3: generate with failover.
	resp, err := c.orch.GenerateWithFailover(ctx, req)
	if err != nil {
		return nil, err
	}

	// Step 4: moderate the generated answer.
	outResult, outChecks := c.moderation.ModerateOutput(resp, req)
	if !outResult.Appropriate {
		obs.RecordModerationBlock()
		if outResult.Blocked() {
			// Block-level violation discards the answer.
			resp.Text = moderation.SafeContent(resp.Text, outResult, req.Learner)
			resp.Confidence = 1.0
		}
		resp.Safety = core.MaxSafetyLevel(resp.Safety, outResult.Severity)
		c.annotate(resp, outResult)
	}

	// Step 5: escalation over the combined check evidence.
	checks := append(append([]core.SafetyCheck(nil), inChecks...), outChecks...)
	decision := c.escalation.Evaluate(req, checks)
	if !decision.Should && outResult.Action == core.ActionEscalate {
		decision = escalation.Decision{
			Should:   true,
			Reason:   "output moderation requested escalation",
			Severity: outResult.Severity,
		}
	}
	if decision.Should {
		if resp.Metadata == nil {
			resp.Metadata = &core.ResponseMetadata{}
		}
		resp.Metadata.EscalationRecommended = true
		resp.Safety = core.MaxSafetyLevel(resp.Safety, decision.Severity)
		c.escalation.Escalate(ctx, req, decision)
	}

	// A cancelled request must not leave partial state behind.
	if err := ctx.Err(); err != nil {
		return nil, core.WrapError(err, core.ErrCanceled)
	}

	// Step 6: cache write. The unsafe-content guard lives inside Put.
	c.cache.Put(ctx, req, resp)
	return resp, nil
}

// ProcessVoice transcribes the audio, substitutes the transcript for the
// query, and runs the standard pipeline.
func (c *Coordinator) ProcessVoice(ctx context.Context, req core.Request, audio []byte) (*core.Response, error) {
	if c.transcriber == nil {
		return nil, core.NewError(core.ErrInternal, "coordinator: no transcriber configured")
	}
	language := ""
	if req.Learner != nil {
		language = req.Learner.Language
	}
	transcript, err := c.transcriber.Transcribe(ctx, audio, language)
	if err != nil {
		return nil, core.WrapError(err, core.ErrProvider)
	}
	req.Query = transcript.Text
	req.Mode = core.ModeVoice
	return c.Process(ctx, req)
}

// EstimateCost predicts the USD cost of serving the request.
func (c *Coordinator) EstimateCost(req core.Request) (float64, error) {
	return c.orch.EstimateCost(c.prepare(req))
}

// prepare fills identity and classification defaults without mutating the
// caller's copy beyond value semantics.
func (c *Coordinator) prepare(req core.Request) core.Request {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.Type == "" {
		req.Type = core.ClassifyQuery(req.Query)
	}
	if req.Mode == "" {
		req.Mode = core.ModeText
	}
	return req
}

// redirect builds the safe response for a query moderation did not allow,
// escalating first when the verdict or the check evidence warrants it.
func (c *Coordinator) redirect(ctx context.Context, req core.Request, result core.ModerationResult, checks []core.SafetyCheck) *core.Response {
	obs.RecordModerationBlock()

	decision := c.escalation.Evaluate(req, checks)
	if !decision.Should && result.Action == core.ActionEscalate {
		decision = escalation.Decision{
			Should:   true,
			Reason:   "input moderation requested escalation",
			Severity: result.Severity,
		}
	}
	if decision.Should {
		c.escalation.Escalate(ctx, req, decision)
	}

	resp := &core.Response{
		ID:         uuid.NewString(),
		RequestID:  req.ID,
		Text:       moderation.SafeContent(req.Query, result, req.Learner),
		Provider:   "moderation",
		Model:      "safe-content",
		Confidence: 1.0,
		Safety:     result.Severity,
		Metadata: &core.ResponseMetadata{
			EscalationRecommended: decision.Should,
			ContentWarnings:       result.Categories,
		},
		CreatedAt: time.Now().UTC(),
	}
	if decision.Should {
		resp.Safety = core.MaxSafetyLevel(resp.Safety, decision.Severity)
	}
	c.log.Info("query redirected by moderation",
		zap.String("request_id", req.ID),
		zap.String("action", string(result.Action)),
		zap.Strings("categories", result.Categories),
		zap.Bool("escalated", decision.Should),
	)
	return resp
}

// annotate appends moderation categories as content warnings.
func (c *Coordinator) annotate(resp *core.Response, result core.ModerationResult) {
	if len(result.Categories) == 0 {
		return
	}
	if resp.Metadata == nil {
		resp.Metadata = &core.ResponseMetadata{}
	}
	resp.Metadata.ContentWarnings = append(resp.Metadata.ContentWarnings, result.Categories...)
}
