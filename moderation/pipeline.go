package moderation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/studymesh/tutorcore/core"
)

// verdict maps a failed check type onto the moderation category, severity
// and suggested action it implies.
type verdict struct {
	category string
	severity core.SafetyLevel
	action   core.Action
}

var verdicts = map[string]verdict{
	"profanity":             {"profanity", core.SafetyMedium, core.ActionFilter},
	"inappropriate_topic":   {"inappropriate_topic", core.SafetyHigh, core.ActionBlock},
	"harmful_intent":        {"harmful_intent", core.SafetyCritical, core.ActionEscalate},
	"age_inappropriate":     {"age_inappropriate", core.SafetyHigh, core.ActionBlock},
	"parental_restriction":  {"parental_restriction", core.SafetyMedium, core.ActionBlock},
	"academic_integrity":    {"academic_integrity", core.SafetyMedium, core.ActionFilter},
	"personal_information":  {"personal_information", core.SafetyHigh, core.ActionBlock},
	"low_educational_value": {"low_educational_value", core.SafetyLow, core.ActionAllow},
	"bias":                  {"bias", core.SafetyMedium, core.ActionFilter},
	"unverified_sources":    {"unverified_sources", core.SafetyLow, core.ActionAllow},
	// A checker crash fails closed.
	"error": {"moderation_error", core.SafetyCritical, core.ActionBlock},
}

// RestrictedTopicsLookup supplies the parental-controls topic list per user.
type RestrictedTopicsLookup func(userID string) []string

// Pipeline runs independent checkers over inbound queries and generated
// answers. Stateless across requests.
type Pipeline struct {
	inputCheckers  []Checker
	outputCheckers []Checker
	restricted     RestrictedTopicsLookup
	log            *zap.Logger
}

// Option mutates the pipeline during construction.
type Option func(*Pipeline)

// WithRestrictedTopics installs the parental-controls lookup.
func WithRestrictedTopics(lookup RestrictedTopicsLookup) Option {
	return func(p *Pipeline) { p.restricted = lookup }
}

// WithLogger installs a logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithExtraProfanity extends the banned-word set from configuration.
func WithExtraProfanity(words []string) Option {
	return func(p *Pipeline) {
		pc := NewProfanityChecker(words...)
		p.inputCheckers[0] = pc
		p.outputCheckers[0] = pc
	}
}

// NewPipeline assembles the stock checker sets: profanity, topic, age,
// parental controls, academic integrity and PII on input; profanity, topic,
// age, PII, educational value, bias and source reliability on output.
func NewPipeline(opts ...Option) *Pipeline {
	profanity := NewProfanityChecker()
	topic := NewTopicChecker()
	age := NewAgeChecker()
	pii := NewPIIChecker()

	p := &Pipeline{
		inputCheckers: []Checker{
			profanity, topic, age,
			NewParentalChecker(), NewIntegrityChecker(), pii,
		},
		outputCheckers: []Checker{
			profanity, topic, age, pii,
			NewEducationalChecker(), NewBiasChecker(), NewSourceChecker(),
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ModerateInput screens the learner's query. It returns the combined
// verdict plus the ordered raw checks for the escalation engine.
func (p *Pipeline) ModerateInput(req core.Request) (core.ModerationResult, []core.SafetyCheck) {
	mctx := Context{
		Direction: DirectionInput,
		Learner:   req.Learner,
		Course:    req.Course,
	}
	if p.restricted != nil {
		mctx.RestrictedTopics = p.restricted(req.UserID)
	}
	return p.run(req.Query, mctx, p.inputCheckers)
}

// ModerateOutput screens a generated answer in the context of its request.
func (p *Pipeline) ModerateOutput(resp *core.Response, req core.Request) (core.ModerationResult, []core.SafetyCheck) {
	mctx := Context{
		Direction: DirectionOutput,
		Learner:   req.Learner,
		Course:    req.Course,
	}
	if resp.Metadata != nil {
		mctx.Sources = resp.Metadata.Sources
	}
	return p.run(resp.Text, mctx, p.outputCheckers)
}

func (p *Pipeline) run(text string, mctx Context, checkers []Checker) (core.ModerationResult, []core.SafetyCheck) {
	checks := make([]core.SafetyCheck, 0, len(checkers))
	for _, checker := range checkers {
		checks = append(checks, p.safeCheck(checker, text, mctx))
	}

	var results []core.ModerationResult
	minPassedConfidence := 1.0
	for _, check := range checks {
		if check.Passed {
			if check.Confidence < minPassedConfidence {
				minPassedConfidence = check.Confidence
			}
			continue
		}
		v, ok := verdicts[check.Type]
		if !ok {
			v = verdicts["error"]
		}
		results = append(results, core.ModerationResult{
			Appropriate: false,
			Confidence:  check.Confidence,
			Categories:  []string{v.category},
			Severity:    v.severity,
			Action:      v.action,
		})
	}
	if len(results) == 0 {
		return core.ModerationResult{
			Appropriate: true,
			Confidence:  minPassedConfidence,
			Severity:    core.SafetyLow,
			Action:      core.ActionAllow,
		}, checks
	}
	return Combine(results), checks
}

// safeCheck runs one checker, converting a panic into a synthetic failed
// check so a checker outage blocks rather than allows.
func (p *Pipeline) safeCheck(checker Checker, text string, mctx Context) (check core.SafetyCheck) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("moderation checker panicked",
				zap.String("checker", checker.Name()),
				zap.Any("panic", r),
			)
			check = core.SafetyCheck{
				Type:       "error",
				Passed:     false,
				Confidence: 1.0,
				Details:    fmt.Sprintf("checker %s: %v", checker.Name(), r),
			}
		}
	}()
	return checker.Check(text, mctx)
}
