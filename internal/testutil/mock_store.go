package testutil

import (
	"context"
	"sync"
	"time"
)

// FailingStore is a cache store whose operations always fail, for exercising
// cache-unavailable degradation paths.
type FailingStore struct {
	Err error

	mu       sync.Mutex
	SetCalls int
	GetCalls int
}

// NewFailingStore creates a store that fails every call with err.
func NewFailingStore(err error) *FailingStore {
	return &FailingStore{Err: err}
}

func (s *FailingStore) Get(context.Context, string) ([]byte, error) {
	s.mu.Lock()
	s.GetCalls++
	s.mu.Unlock()
	return nil, s.Err
}

func (s *FailingStore) Set(context.Context, string, []byte, time.Duration) error {
	s.mu.Lock()
	s.SetCalls++
	s.mu.Unlock()
	return s.Err
}

func (s *FailingStore) Delete(context.Context, string) error { return s.Err }

func (s *FailingStore) DeleteByPattern(context.Context, string) error { return s.Err }
