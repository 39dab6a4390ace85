package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/studymesh/tutorcore/core"
	"github.com/studymesh/tutorcore/obs"
)

// ErrNotFound is returned by stores for missing or expired keys.
var ErrNotFound = errors.New("cache: key not found")

// Store is the key-value byte store the cache runs on. Implementations must
// be safe for concurrent independent-key access. The cache treats every
// store failure as recoverable: a broken store degrades to always-miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes keys matching a glob-style pattern where '*'
	// matches any suffix.
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ResponseCache fronts a Store with fingerprint keys, TTL policy and the
// unsafe-content write guard.
type ResponseCache struct {
	store Store
	ttl   TTLConfig
	log   *zap.Logger
}

// New constructs a response cache over a store.
func New(store Store, ttl TTLConfig, log *zap.Logger) *ResponseCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResponseCache{store: store, ttl: ttl, log: log}
}

// Get looks up the cached response for a request. A store outage or decode
// failure is a miss, never an error. On a hit the returned copy carries
// Cached=true; the stored entry is untouched.
func (c *ResponseCache) Get(ctx context.Context, req core.Request) (*core.Response, bool) {
	key := Key(req)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.Warn("cache read failed, treating as miss",
				zap.String("key", key), zap.Error(err))
		}
		obs.RecordCacheMiss()
		return nil, false
	}
	var resp core.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		c.log.Warn("cache entry corrupt, treating as miss",
			zap.String("key", key), zap.Error(err))
		obs.RecordCacheMiss()
		return nil, false
	}
	resp.Cached = true
	obs.RecordCacheHit()
	return &resp, true
}

// Put writes a response under the request's fingerprint. The write guard
// lives here, not only upstream: responses with high or critical safety, or
// flagged for escalation, are silently dropped so the invariant holds even
// when a caller forgets to check. Store failures are no-ops.
func (c *ResponseCache) Put(ctx context.Context, req core.Request, resp *core.Response) {
	if !resp.Cacheable() {
		c.log.Debug("refusing to cache unsafe response",
			zap.String("request_id", req.ID),
			zap.String("safety", string(resp.Safety)),
			zap.Bool("escalation", resp.EscalationRecommended()),
		)
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		c.log.Warn("cache encode failed", zap.Error(err))
		return
	}
	key := Key(req)
	ttl := c.ttl.TTLFor(req, resp)
	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		c.log.Warn("cache write failed, skipping",
			zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes the exact entry for a request. Best-effort.
func (c *ResponseCache) Invalidate(ctx context.Context, req core.Request) {
	if err := c.store.Delete(ctx, Key(req)); err != nil && !errors.Is(err, ErrNotFound) {
		c.log.Warn("cache invalidate failed", zap.Error(err))
	}
}

// InvalidateUser removes every entry scoped to the user. Best-effort.
func (c *ResponseCache) InvalidateUser(ctx context.Context, userID string) {
	if err := c.store.DeleteByPattern(ctx, UserScope(userID)); err != nil {
		c.log.Warn("cache user invalidation failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}

// InvalidateSession removes every entry scoped to one session. Best-effort.
func (c *ResponseCache) InvalidateSession(ctx context.Context, userID, sessionID string) {
	if err := c.store.DeleteByPattern(ctx, SessionScope(userID, sessionID)); err != nil {
		c.log.Warn("cache session invalidation failed",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Clear removes everything. Best-effort.
func (c *ResponseCache) Clear(ctx context.Context) {
	if err := c.store.DeleteByPattern(ctx, "*"); err != nil {
		c.log.Warn("cache clear failed", zap.Error(err))
	}
}
