package escalation

import (
	"sync"
	"time"

	"github.com/studymesh/tutorcore/core"
)

// Event records one escalation to a human supervisor. Events are append-only
// history: a resolve operation flips Resolved and fills the resolution
// fields, nothing is ever deleted.
type Event struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`

	Reason   string           `json:"reason"`
	Severity core.SafetyLevel `json:"severity"`

	// TeacherID may be empty: unassigned is a valid, queryable state.
	TeacherID string `json:"teacher_id,omitempty"`

	Resolved   bool      `json:"resolved"`
	ResolvedBy string    `json:"resolved_by,omitempty"`
	Resolution string    `json:"resolution,omitempty"`
	ResolvedAt time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// History is the append-only per-user escalation record plus an index of
// unresolved events. Safe for concurrent use; entries for different users
// never contend beyond the map lock.
type History struct {
	mu      sync.RWMutex
	byUser  map[string][]*Event
	active  map[string]*Event
	allOrder []*Event
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{
		byUser: make(map[string][]*Event),
		active: make(map[string]*Event),
	}
}

// Append records a new event and indexes it as active.
func (h *History) Append(event *Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byUser[event.UserID] = append(h.byUser[event.UserID], event)
	h.allOrder = append(h.allOrder, event)
	h.active[event.ID] = event
}

// ForUser returns the user's events, newest last. A positive limit returns
// only the most recent entries.
func (h *History) ForUser(userID string, limit int) []*Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	events := h.byUser[userID]
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return append([]*Event(nil), events...)
}

// Active returns the unresolved event with the given id.
func (h *History) Active(eventID string) (*Event, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	event, ok := h.active[eventID]
	return event, ok
}

// ActiveEvents returns all unresolved events.
func (h *History) ActiveEvents() []*Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Event, 0, len(h.active))
	for _, event := range h.allOrder {
		if _, ok := h.active[event.ID]; ok {
			out = append(out, event)
		}
	}
	return out
}

// MarkResolved flips the event's resolved state and drops it from the
// active index. History retains the event.
func (h *History) MarkResolved(eventID, teacherID, resolution string, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	event, ok := h.active[eventID]
	if !ok {
		return
	}
	event.Resolved = true
	event.ResolvedBy = teacherID
	event.Resolution = resolution
	event.ResolvedAt = at
	delete(h.active, eventID)
}

// All returns every recorded event in creation order.
func (h *History) All() []*Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*Event(nil), h.allOrder...)
}
