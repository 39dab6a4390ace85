package testutil

import (
	"context"
	"sync"

	"github.com/studymesh/tutorcore/notify"
)

// MockChannel records notifications for assertions.
type MockChannel struct {
	ChannelName string
	SendErr     error

	mu   sync.Mutex
	Sent []notify.Notification
}

// NewMockChannel creates a recording channel under the given name.
func NewMockChannel(name string) *MockChannel {
	return &MockChannel{ChannelName: name}
}

func (c *MockChannel) Name() string { return c.ChannelName }

func (c *MockChannel) Send(_ context.Context, n notify.Notification) error {
	c.mu.Lock()
	c.Sent = append(c.Sent, n)
	c.mu.Unlock()
	return c.SendErr
}

// Count reports how many notifications were sent.
func (c *MockChannel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Sent)
}
