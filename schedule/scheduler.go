package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/billriesner/vongab2b/logging"
)

// Window is the tz-aware business window within which events may be
// created without an explicit override. Hours are local and half-open:
// a start at OpenHour is allowed, a start at CloseHour is not.
type Window struct {
	Location    *time.Location
	OpenHour    int // first allowed local start hour (inclusive)
	CloseHour   int // local hour at which the window closes (exclusive)
	DefaultHour int // local hour proposed when a request falls outside the window
}

// DefaultWindow returns the stock 7am-6pm US-Eastern window with 9am
// suggestions.
func DefaultWindow() Window {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// EST fixed offset fallback when the tz database is unavailable.
		loc = time.FixedZone("EST", -5*3600)
	}
	return Window{Location: loc, OpenHour: 7, CloseHour: 18, DefaultHour: 9}
}

// Contains reports whether the local representation of t starts inside the
// window.
func (w Window) Contains(t time.Time) bool {
	h := t.In(w.Location).Hour()
	return h >= w.OpenHour && h < w.CloseHour
}

// Scheduler validates and creates calendar events, detecting conflicts and
// proposing alternatives. All decisions are deterministic for a fixed
// calendar state: the earliest in-day candidate slot always wins.
type Scheduler struct {
	cal    Calendar
	window Window
	now    func() time.Time
	logger logging.Logger
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithWindow overrides the business window.
func WithWindow(w Window) SchedulerOption {
	return func(s *Scheduler) { s.window = w }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l logging.Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = l }
}

// NewScheduler constructs a Scheduler over the given calendar service.
func NewScheduler(cal Calendar, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		cal:    cal,
		window: DefaultWindow(),
		now:    time.Now,
		logger: logging.NoOpLogger{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Window returns the configured business window.
func (s *Scheduler) Window() Window { return s.window }

// Now returns the scheduler's current time in UTC.
func (s *Scheduler) Now() time.Time { return s.now().UTC() }

// CreateRequest describes one event creation attempt.
type CreateRequest struct {
	Summary           string
	Description       string
	Start             time.Time
	End               time.Time
	Attendees         []string
	ForceOutsideHours bool // allow starts outside the business window
	ForceConflict     bool // create despite conflicting events
}

// CreateResult reports a successful creation. OverriddenConflicts lists the
// titles of conflicting events that were knowingly overridden with
// ForceConflict, for auditability.
type CreateResult struct {
	Event               *Event
	OverriddenConflicts []string
}

// CreateEvent runs the full validation pipeline and creates the event.
//
//  1. Normalize start/end to UTC.
//  2. Reject past starts and non-positive durations (ValidationError,
//     before any calendar call).
//  3. Enforce the business window unless ForceOutsideHours, suggesting the
//     default local hour on the same calendar day, duration preserved.
//  4. Compute the ConflictSet over the half-open [start, end), fresh.
//  5. On conflict without ForceConflict, search the same day for the
//     earliest same-duration in-window slot and refuse with the
//     suggestion (PolicyError). Nothing is created.
//  6. Otherwise insert via the calendar service.
func (s *Scheduler) CreateEvent(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	start := req.Start.UTC()
	end := req.End.UTC()

	if err := s.validateInterval(start, end); err != nil {
		return nil, err
	}

	if !req.ForceOutsideHours {
		if err := s.checkWindow(start, end); err != nil {
			return nil, err
		}
	}

	conflicts, err := s.ConflictSet(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("conflict check failed: %w", err)
	}

	if len(conflicts) > 0 && !req.ForceConflict {
		return nil, s.refuseWithAlternative(ctx, start, end, conflicts)
	}

	created, err := s.cal.InsertEvent(ctx, Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       start,
		End:         end,
		Attendees:   req.Attendees,
	})
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	res := &CreateResult{Event: created}
	if len(conflicts) > 0 && req.ForceConflict {
		res.OverriddenConflicts = titles(conflicts)
		s.logger.Warn("schedule.create.conflict_override",
			"event_id", created.ID, "conflicts", strings.Join(res.OverriddenConflicts, ", "))
	}

	s.logger.Info("schedule.create.success", "event_id", created.ID, "summary", created.Summary)

	return res, nil
}

// ConflictSet returns the existing events whose interval intersects the
// half-open [start, end). It is computed fresh on every call and never
// persisted: two queries against an unmodified calendar over the same
// interval return the same set.
func (s *Scheduler) ConflictSet(ctx context.Context, start, end time.Time) ([]Event, error) {
	return s.cal.ListEvents(ctx, start, end)
}

// validateInterval rejects unusable intervals before any calendar call.
func (s *Scheduler) validateInterval(start, end time.Time) error {
	now := s.now().UTC()
	if !start.After(now) {
		return &ValidationError{Reason: fmt.Sprintf(
			"cannot schedule events in the past: start time %s is not after current time %s",
			start.Format(time.RFC3339), now.Format(time.RFC3339))}
	}
	if !end.After(start) {
		return &ValidationError{Reason: fmt.Sprintf(
			"end time must be after start time: %s is not after %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))}
	}
	return nil
}

// checkWindow rejects starts outside the business window, proposing the
// default local hour on the requested calendar day with the original
// duration. The suggested end is clamped to the window close, shifting the
// start back to keep the duration, matching the window's half-open bounds.
func (s *Scheduler) checkWindow(start, end time.Time) error {
	local := start.In(s.window.Location)
	if s.window.Contains(start) {
		return nil
	}

	duration := end.Sub(start)
	y, m, d := start.Date() // calendar day of the request as given (UTC)
	sugStart := time.Date(y, m, d, s.window.DefaultHour, 0, 0, 0, s.window.Location)
	sugEnd := sugStart.Add(duration)

	if closeOf := time.Date(y, m, d, s.window.CloseHour, 0, 0, 0, s.window.Location); sugEnd.After(closeOf) {
		sugEnd = closeOf
		sugStart = sugEnd.Add(-duration)
	}

	return &PolicyError{
		Reason: fmt.Sprintf("event time %s (%02d:00 local) is outside business hours (%d:00-%d:00 %s)",
			start.Format(time.RFC3339), local.Hour(), s.window.OpenHour, s.window.CloseHour, s.window.Location),
		SuggestedStart: sugStart.UTC(),
		SuggestedEnd:   sugEnd.UTC(),
	}
}

// refuseWithAlternative blocks creation and searches the same local day for
// the earliest conflict-free slot of identical duration. Candidate local
// start hours run from the window's default hour up to (but not including)
// the close hour; each candidate is re-queried against the live calendar
// and must also end inside the window.
func (s *Scheduler) refuseWithAlternative(ctx context.Context, start, end time.Time, conflicts []Event) error {
	duration := end.Sub(start)
	local := start.In(s.window.Location)
	ly, lm, ld := local.Date()

	perr := &PolicyError{
		Reason:    "requested time conflicts with existing event(s)",
		Conflicts: titles(conflicts),
	}

	for hour := s.window.DefaultHour; hour < s.window.CloseHour; hour++ {
		candStart := time.Date(ly, lm, ld, hour, 0, 0, 0, s.window.Location)
		candEnd := candStart.Add(duration)

		if candEnd.In(s.window.Location).Hour() >= s.window.CloseHour {
			continue // candidate would run past the window close
		}

		existing, err := s.ConflictSet(ctx, candStart.UTC(), candEnd.UTC())
		if err != nil {
			s.logger.Warn("schedule.slot_search.query_failed", "error", err.Error())
			return perr
		}
		if len(existing) == 0 {
			perr.SuggestedStart = candStart.UTC()
			perr.SuggestedEnd = candEnd.UTC()
			return perr
		}
	}

	perr.NoSlot = true
	return perr
}

// EditRequest describes an event update. Nil time pointers leave the
// corresponding bound untouched; supplying only one of Start/End preserves
// the event's original duration.
type EditRequest struct {
	EventID           string
	Summary           string // empty = keep
	Description       *string
	Start             *time.Time
	End               *time.Time
	Attendees         []string // nil = keep
	ForceOutsideHours bool
}

// EditEvent updates an existing event, re-running window validation when
// times change.
func (s *Scheduler) EditEvent(ctx context.Context, req EditRequest) (*Event, error) {
	ev, err := s.cal.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if req.Summary != "" {
		ev.Summary = req.Summary
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.Attendees != nil {
		ev.Attendees = req.Attendees
	}

	if req.Start != nil || req.End != nil {
		duration := ev.End.Sub(ev.Start)
		switch {
		case req.Start != nil && req.End != nil:
			ev.Start = req.Start.UTC()
			ev.End = req.End.UTC()
		case req.Start != nil:
			ev.Start = req.Start.UTC()
			ev.End = ev.Start.Add(duration)
		case req.End != nil:
			ev.End = req.End.UTC()
		}

		if !ev.End.After(ev.Start) {
			return nil, &ValidationError{Reason: fmt.Sprintf(
				"end time must be after start time: %s is not after %s",
				ev.End.Format(time.RFC3339), ev.Start.Format(time.RFC3339))}
		}

		if !req.ForceOutsideHours && !s.window.Contains(ev.Start) {
			return nil, &PolicyError{
				Reason: fmt.Sprintf("updated start time %s (%02d:00 local) is outside business hours (%d:00-%d:00 %s)",
					ev.Start.Format(time.RFC3339), ev.Start.In(s.window.Location).Hour(),
					s.window.OpenHour, s.window.CloseHour, s.window.Location),
			}
		}
	}

	updated, err := s.cal.UpdateEvent(ctx, *ev)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.logger.Info("schedule.edit.success", "event_id", updated.ID, "summary", updated.Summary)

	return updated, nil
}

// DeleteEvent permanently removes an event. The deletion is explicit and
// cannot be undone; the engine never deletes events implicitly.
func (s *Scheduler) DeleteEvent(ctx context.Context, eventID string) (*Event, error) {
	ev, err := s.cal.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.cal.DeleteEvent(ctx, eventID); err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}

	s.logger.Info("schedule.delete.success", "event_id", eventID, "summary", ev.Summary)

	return ev, nil
}

func titles(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		title := ev.Summary
		if title == "" {
			title = "Untitled"
		}
		out = append(out, title)
	}
	return out
}
