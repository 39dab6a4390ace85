package obs

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce        sync.Once
	requestCounter     metric.Int64Counter
	latencyHistogram   metric.Float64Histogram
	inputTokensHist    metric.Int64Histogram
	outputTokensHist   metric.Int64Histogram
	totalTokensHist    metric.Int64Histogram
	cacheHitCounter    metric.Int64Counter
	cacheMissCounter   metric.Int64Counter
	escalationCounter  metric.Int64Counter
	moderationBlockCtr metric.Int64Counter
)

type meter interface {
	Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error)
	Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error)
	Int64Histogram(string, ...metric.Int64HistogramOption) (metric.Int64Histogram, error)
}

func installMetrics(m meter) {
	metricsOnce.Do(func() {
		if m == nil {
			return
		}
		requestCounter, _ = m.Int64Counter("tutorcore.requests", metric.WithDescription("Total generation requests"))
		latencyHistogram, _ = m.Float64Histogram("tutorcore.request.latency_ms", metric.WithDescription("Generation latency (ms)"))
		inputTokensHist, _ = m.Int64Histogram("tutorcore.tokens.input", metric.WithDescription("Input tokens"))
		outputTokensHist, _ = m.Int64Histogram("tutorcore.tokens.output", metric.WithDescription("Output tokens"))
		totalTokensHist, _ = m.Int64Histogram("tutorcore.tokens.total", metric.WithDescription("Total tokens"))
		cacheHitCounter, _ = m.Int64Counter("tutorcore.cache.hits", metric.WithDescription("Response cache hits"))
		cacheMissCounter, _ = m.Int64Counter("tutorcore.cache.misses", metric.WithDescription("Response cache misses"))
		escalationCounter, _ = m.Int64Counter("tutorcore.escalations", metric.WithDescription("Escalation events created"))
		moderationBlockCtr, _ = m.Int64Counter("tutorcore.moderation.blocked", metric.WithDescription("Requests or responses blocked by moderation"))
	})
}

// UsageTokens is the observability view of token accounting.
type UsageTokens struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	CostUSD      float64
}

func recordRequest(attrs ...attribute.KeyValue) {
	if requestCounter != nil {
		requestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	}
}

func recordLatency(ms float64, attrs ...attribute.KeyValue) {
	if latencyHistogram != nil {
		latencyHistogram.Record(context.Background(), ms, metric.WithAttributes(attrs...))
	}
}

// RecordUsage records token histograms for a completed generation.
func RecordUsage(usage UsageTokens, attrs ...attribute.KeyValue) {
	ctx := context.Background()
	if inputTokensHist != nil {
		inputTokensHist.Record(ctx, int64(usage.InputTokens), metric.WithAttributes(attrs...))
	}
	if outputTokensHist != nil {
		outputTokensHist.Record(ctx, int64(usage.OutputTokens), metric.WithAttributes(attrs...))
	}
	if totalTokensHist != nil {
		totalTokensHist.Record(ctx, int64(usage.TotalTokens), metric.WithAttributes(attrs...))
	}
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit(attrs ...attribute.KeyValue) {
	if cacheHitCounter != nil {
		cacheHitCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	}
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss(attrs ...attribute.KeyValue) {
	if cacheMissCounter != nil {
		cacheMissCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	}
}

// RecordEscalation increments the escalation counter.
func RecordEscalation(attrs ...attribute.KeyValue) {
	if escalationCounter != nil {
		escalationCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	}
}

// RecordModerationBlock increments the moderation block counter.
func RecordModerationBlock(attrs ...attribute.KeyValue) {
	if moderationBlockCtr != nil {
		moderationBlockCtr.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	}
}
