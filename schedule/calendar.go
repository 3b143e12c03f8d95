// Package schedule implements the calendar scheduling engine: event
// validation, business-hours policy, deterministic conflict detection and
// alternative-slot search, plus the calendar tool set exposed to
// assistants. Events are owned by the external calendar service; the engine
// only reads and creates them and never caches beyond a single conflict
// check.
package schedule

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/billriesner/vongab2b/internal/util"
)

// Event is one calendar entry. Start and End are instants; all interval
// comparisons in the engine are half-open over [Start, End) so back-to-back
// events never falsely conflict.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
	HTMLLink    string    `json:"html_link,omitempty"`
}

// Overlaps reports whether the event's [Start, End) interval intersects
// [min, max).
func (e Event) Overlaps(min, max time.Time) bool {
	return e.Start.Before(max) && e.End.After(min)
}

// Calendar is the external calendar service contract consumed by the
// engine. Time bounds are UTC instants; ListEvents returns events whose
// interval intersects the half-open [timeMin, timeMax), ordered by start.
type Calendar interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error)
	SearchEvents(ctx context.Context, query string, timeMin, timeMax time.Time) ([]Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	InsertEvent(ctx context.Context, ev Event) (*Event, error)
	UpdateEvent(ctx context.Context, ev Event) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// MemoryCalendar is an in-process Calendar used by tests and examples. It
// is safe for concurrent use.
type MemoryCalendar struct {
	mu     sync.RWMutex
	events map[string]Event
}

// NewMemoryCalendar constructs an empty in-memory calendar.
func NewMemoryCalendar() *MemoryCalendar {
	return &MemoryCalendar{events: make(map[string]Event)}
}

// ListEvents implements Calendar.
func (c *MemoryCalendar) ListEvents(_ context.Context, timeMin, timeMax time.Time) ([]Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Event
	for _, ev := range c.events {
		if ev.Overlaps(timeMin, timeMax) {
			out = append(out, ev)
		}
	}
	sortByStart(out)
	return out, nil
}

// SearchEvents implements Calendar with a case-insensitive substring match
// on summary and description.
func (c *MemoryCalendar) SearchEvents(_ context.Context, query string, timeMin, timeMax time.Time) ([]Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q := strings.ToLower(query)
	var out []Event
	for _, ev := range c.events {
		if !ev.Overlaps(timeMin, timeMax) {
			continue
		}
		if strings.Contains(strings.ToLower(ev.Summary), q) ||
			strings.Contains(strings.ToLower(ev.Description), q) {
			out = append(out, ev)
		}
	}
	sortByStart(out)
	return out, nil
}

// GetEvent implements Calendar.
func (c *MemoryCalendar) GetEvent(_ context.Context, id string) (*Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ev, ok := c.events[id]
	if !ok {
		return nil, &NotFoundError{EventID: id}
	}
	return &ev, nil
}

// InsertEvent implements Calendar, assigning a fresh id.
func (c *MemoryCalendar) InsertEvent(_ context.Context, ev Event) (*Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev.ID = util.NewID()
	c.events[ev.ID] = ev
	return &ev, nil
}

// UpdateEvent implements Calendar.
func (c *MemoryCalendar) UpdateEvent(_ context.Context, ev Event) (*Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.events[ev.ID]; !ok {
		return nil, &NotFoundError{EventID: ev.ID}
	}
	c.events[ev.ID] = ev
	return &ev, nil
}

// DeleteEvent implements Calendar.
func (c *MemoryCalendar) DeleteEvent(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.events[id]; !ok {
		return &NotFoundError{EventID: id}
	}
	delete(c.events, id)
	return nil
}

// Len returns the number of stored events.
func (c *MemoryCalendar) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

func sortByStart(events []Event) {
	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
}
