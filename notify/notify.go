// Package notify defines the notification channel boundary the escalation
// engine dispatches through. Sends are fire-and-forget: failures are logged
// by the caller, never retried here.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studymesh/tutorcore/core"
)

// Notification is one alert routed to a human supervisor.
type Notification struct {
	EventID   string           `json:"event_id"`
	UserID    string           `json:"user_id"`
	TeacherID string           `json:"teacher_id,omitempty"`
	Reason    string           `json:"reason"`
	Severity  core.SafetyLevel `json:"severity"`
	CreatedAt time.Time        `json:"created_at"`
}

// Channel delivers notifications over one transport ("email", "push",
// "in-app", ...).
type Channel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

// LogChannel writes notifications to the structured log. It stands in for
// the in-app feed in deployments without a real transport.
type LogChannel struct {
	name string
	log  *zap.Logger
}

// NewLogChannel constructs a logging channel under the given name.
func NewLogChannel(name string, log *zap.Logger) *LogChannel {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogChannel{name: name, log: log}
}

func (c *LogChannel) Name() string { return c.name }

func (c *LogChannel) Send(_ context.Context, n Notification) error {
	c.log.Info("escalation notification",
		zap.String("channel", c.name),
		zap.String("event_id", n.EventID),
		zap.String("user_id", n.UserID),
		zap.String("teacher_id", n.TeacherID),
		zap.String("severity", string(n.Severity)),
		zap.String("reason", n.Reason),
	)
	return nil
}
