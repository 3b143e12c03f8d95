// Package googlecal adapts the Google Calendar v3 API to the schedule.Calendar
// interface. Credentials are supplied through the standard google.golang.org
// option mechanisms (service account JSON, ADC, or a pre-built HTTP client).
package googlecal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/billriesner/vongab2b/schedule"
)

// Calendar is a schedule.Calendar backed by a single Google calendar,
// addressed by calendarID ("primary" for the authenticated user's default).
type Calendar struct {
	svc        *calendar.Service
	calendarID string
}

// New builds a Calendar, passing opts through to the Google API client.
func New(ctx context.Context, calendarID string, opts ...option.ClientOption) (*Calendar, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Calendar{svc: svc, calendarID: calendarID}, nil
}

// NewFromService wraps an already-configured calendar.Service.
func NewFromService(svc *calendar.Service, calendarID string) *Calendar {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Calendar{svc: svc, calendarID: calendarID}
}

func (c *Calendar) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]schedule.Event, error) {
	res, err := c.svc.Events.List(c.calendarID).
		TimeMin(timeMin.UTC().Format(time.RFC3339)).
		TimeMax(timeMax.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return fromAPIEvents(res.Items), nil
}

func (c *Calendar) SearchEvents(ctx context.Context, query string, timeMin, timeMax time.Time) ([]schedule.Event, error) {
	res, err := c.svc.Events.List(c.calendarID).
		Q(query).
		TimeMin(timeMin.UTC().Format(time.RFC3339)).
		TimeMax(timeMax.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return fromAPIEvents(res.Items), nil
}

func (c *Calendar) GetEvent(ctx context.Context, eventID string) (*schedule.Event, error) {
	ev, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, &schedule.NotFoundError{EventID: eventID}
	}
	out := fromAPIEvent(ev)
	return &out, nil
}

func (c *Calendar) InsertEvent(ctx context.Context, ev schedule.Event) (*schedule.Event, error) {
	created, err := c.svc.Events.Insert(c.calendarID, toAPIEvent(ev)).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	out := fromAPIEvent(created)
	return &out, nil
}

func (c *Calendar) UpdateEvent(ctx context.Context, ev schedule.Event) (*schedule.Event, error) {
	updated, err := c.svc.Events.Update(c.calendarID, ev.ID, toAPIEvent(ev)).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", ev.ID, err)
	}
	out := fromAPIEvent(updated)
	return &out, nil
}

func (c *Calendar) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}

func toAPIEvent(ev schedule.Event) *calendar.Event {
	out := &calendar.Event{
		Id:          ev.ID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.UTC().Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: ev.End.UTC().Format(time.RFC3339)},
	}
	for _, email := range ev.Attendees {
		out.Attendees = append(out.Attendees, &calendar.EventAttendee{Email: email})
	}
	return out
}

func fromAPIEvent(ev *calendar.Event) schedule.Event {
	out := schedule.Event{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		HTMLLink:    ev.HtmlLink,
		Start:       parseEventTime(ev.Start),
		End:         parseEventTime(ev.End),
	}
	for _, a := range ev.Attendees {
		out.Attendees = append(out.Attendees, a.Email)
	}
	return out
}

func fromAPIEvents(items []*calendar.Event) []schedule.Event {
	out := make([]schedule.Event, 0, len(items))
	for _, it := range items {
		out = append(out, fromAPIEvent(it))
	}
	return out
}

// parseEventTime handles both timed events (DateTime) and all-day events
// (Date), normalizing to UTC.
func parseEventTime(dt *calendar.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t.UTC()
		}
	}
	if dt.Date != "" {
		if t, err := time.Parse("2006-01-02", dt.Date); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
