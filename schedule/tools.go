package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billriesner/vongab2b/tool"
)

// Tools returns the full calendar tool set backed by the given scheduler,
// in registration order.
func Tools(s *Scheduler) []tool.Tool {
	return []tool.Tool{
		NewCurrentTimeTool(s),
		NewListTool(s),
		NewSearchTool(s),
		NewCreateEventTool(s),
		NewEditEventTool(s),
		NewDeleteEventTool(s),
	}
}

// NewCurrentTimeTool reports the current date and time so the model can
// resolve relative dates like "today" and "tomorrow" before scheduling.
func NewCurrentTimeTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionTool(
		"calendar_get_current_time",
		"Get the current date and time in UTC. Use this when you need to know what 'today' or 'tomorrow' means, or when the user asks for the current date/time.",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			now := s.Now()
			tomorrow := now.Add(24 * time.Hour)
			var b strings.Builder
			b.WriteString("Current date and time:\n")
			fmt.Fprintf(&b, "- UTC: %s UTC\n", now.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(&b, "- ISO 8601: %s\n", now.Format("2006-01-02T15:04:05")+"Z")
			fmt.Fprintf(&b, "- Today's date: %s\n", now.Format("2006-01-02"))
			fmt.Fprintf(&b, "- Tomorrow's date: %s\n", tomorrow.Format("2006-01-02"))
			return b.String(), nil
		},
	)
}

// NewListTool lists upcoming events in a time range (default: the next
// seven days).
func NewListTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionTool(
		"calendar_list",
		"List upcoming calendar events. Optionally specify time range (ISO 8601) and max results.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"time_min":    map[string]any{"type": "string", "description": "Start time for events (ISO 8601, default: now)"},
				"time_max":    map[string]any{"type": "string", "description": "End time for events (ISO 8601, default: 7 days from now)"},
				"max_results": map[string]any{"type": "integer", "description": "Maximum number of events to return (default 10)"},
			},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			timeMin, timeMax, err := rangeArgs(s, args, 7*24*time.Hour)
			if err != nil {
				return errorText(err), nil
			}
			maxResults := intArg(args, "max_results", 10)

			events, err := s.cal.ListEvents(ctx, timeMin, timeMax)
			if err != nil {
				return fmt.Sprintf("Error listing calendar events: %v", err), nil
			}
			if len(events) == 0 {
				return fmt.Sprintf("No events found between %s and %s",
					timeMin.Format(time.RFC3339), timeMax.Format(time.RFC3339)), nil
			}
			if len(events) > maxResults {
				events = events[:maxResults]
			}
			return formatEventList(fmt.Sprintf("Found %d events:", len(events)), events), nil
		},
	)
}

// NewSearchTool searches events by query string over a time range
// (default: the next thirty days).
func NewSearchTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionTool(
		"calendar_search",
		"Search calendar events by query string (matches title and description).",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":    map[string]any{"type": "string", "description": "Search query to filter events"},
				"time_min": map[string]any{"type": "string", "description": "Start time for search (ISO 8601)"},
				"time_max": map[string]any{"type": "string", "description": "End time for search (ISO 8601)"},
			},
			"required": []string{"query"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			query := stringArg(args, "query")
			timeMin, timeMax, err := rangeArgs(s, args, 30*24*time.Hour)
			if err != nil {
				return errorText(err), nil
			}

			events, err := s.cal.SearchEvents(ctx, query, timeMin, timeMax)
			if err != nil {
				return fmt.Sprintf("Error searching calendar: %v", err), nil
			}
			if len(events) == 0 {
				return fmt.Sprintf("No events found matching query: %s", query), nil
			}
			return formatEventList(fmt.Sprintf("Found %d events matching %q:", len(events), query), events), nil
		},
	)
}

// NewCreateEventTool validates and creates a calendar event, blocking on
// conflicts or out-of-window times and reporting an alternative slot when
// one exists.
func NewCreateEventTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionTool(
		"calendar_create_event",
		"Create a new calendar event to block time. Requires summary, start_time and end_time (ISO 8601, UTC, future). "+
			"Events are restricted to business hours unless force_outside_hours is set. "+
			"Conflicting times are rejected with a suggested available slot; set force_conflict only when the user explicitly asks to override.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary":             map[string]any{"type": "string", "description": "Event title/summary"},
				"description":         map[string]any{"type": "string", "description": "Event description"},
				"start_time":          map[string]any{"type": "string", "description": "Start time in ISO 8601 format (e.g. '2025-01-15T10:00:00Z')"},
				"end_time":            map[string]any{"type": "string", "description": "End time in ISO 8601 format"},
				"attendees":           map[string]any{"type": "string", "description": "Comma-separated attendee email addresses"},
				"force_outside_hours": map[string]any{"type": "boolean", "description": "Allow scheduling outside business hours"},
				"force_conflict":      map[string]any{"type": "boolean", "description": "Create the event even if it conflicts with existing events"},
			},
			"required": []string{"summary", "start_time", "end_time"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			start, err := ParseTime(stringArg(args, "start_time"))
			if err != nil {
				return errorText(err), nil
			}
			end, err := ParseTime(stringArg(args, "end_time"))
			if err != nil {
				return errorText(err), nil
			}

			res, err := s.CreateEvent(ctx, CreateRequest{
				Summary:           stringArg(args, "summary"),
				Description:       stringArg(args, "description"),
				Start:             start,
				End:               end,
				Attendees:         splitAttendees(stringArg(args, "attendees")),
				ForceOutsideHours: boolArg(args, "force_outside_hours"),
				ForceConflict:     boolArg(args, "force_conflict"),
			})
			if err != nil {
				return errorText(err), nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "✓ Event '%s' created successfully!\n", res.Event.Summary)
			fmt.Fprintf(&b, "- Start: %s\n", res.Event.Start.Format(time.RFC3339))
			fmt.Fprintf(&b, "- Event ID: %s\n", res.Event.ID)
			if res.Event.HTMLLink != "" {
				fmt.Fprintf(&b, "- Link: %s\n", res.Event.HTMLLink)
			}
			if len(res.OverriddenConflicts) > 0 {
				fmt.Fprintf(&b, "\nNote: event created despite conflicts with: %s",
					strings.Join(res.OverriddenConflicts, ", "))
			}
			return b.String(), nil
		},
	)
}

// NewEditEventTool updates an existing event by id. Supplying only one of
// start_time/end_time keeps the event's original duration.
func NewEditEventTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionTool(
		"calendar_edit_event",
		"Edit an existing calendar event by event_id. Updatable: summary, start_time, end_time, description, attendees. "+
			"Find event IDs with calendar_list or calendar_search first. Business hours validation applies to updated times unless force_outside_hours is set.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"event_id":            map[string]any{"type": "string", "description": "ID of the event to edit"},
				"summary":             map[string]any{"type": "string", "description": "New event title"},
				"start_time":          map[string]any{"type": "string", "description": "New start time (ISO 8601)"},
				"end_time":            map[string]any{"type": "string", "description": "New end time (ISO 8601)"},
				"description":         map[string]any{"type": "string", "description": "New event description"},
				"attendees":           map[string]any{"type": "string", "description": "Comma-separated attendee email addresses"},
				"force_outside_hours": map[string]any{"type": "boolean", "description": "Allow times outside business hours"},
			},
			"required": []string{"event_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			req := EditRequest{
				EventID:           stringArg(args, "event_id"),
				Summary:           stringArg(args, "summary"),
				ForceOutsideHours: boolArg(args, "force_outside_hours"),
			}
			if v, ok := args["description"].(string); ok {
				req.Description = &v
			}
			if v := stringArg(args, "start_time"); v != "" {
				t, err := ParseTime(v)
				if err != nil {
					return errorText(err), nil
				}
				req.Start = &t
			}
			if v := stringArg(args, "end_time"); v != "" {
				t, err := ParseTime(v)
				if err != nil {
					return errorText(err), nil
				}
				req.End = &t
			}
			if v, ok := args["attendees"].(string); ok {
				req.Attendees = splitAttendees(v)
			}

			updated, err := s.EditEvent(ctx, req)
			if err != nil {
				return errorText(err), nil
			}
			return fmt.Sprintf("✓ Event '%s' updated successfully!\n- Event ID: %s\n- Start: %s",
				updated.Summary, updated.ID, updated.Start.Format(time.RFC3339)), nil
		},
	)
}

// NewDeleteEventTool permanently deletes an event by id.
func NewDeleteEventTool(s *Scheduler) tool.Tool {
	return tool.NewFunctionTool(
		"calendar_delete_event",
		"Delete a calendar event by event_id. Find event IDs with calendar_list or calendar_search first. This action cannot be undone.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"event_id": map[string]any{"type": "string", "description": "ID of the event to delete"},
			},
			"required": []string{"event_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			ev, err := s.DeleteEvent(ctx, stringArg(args, "event_id"))
			if err != nil {
				return errorText(err), nil
			}
			return fmt.Sprintf("✓ Event '%s' (ID: %s) deleted successfully.", ev.Summary, ev.ID), nil
		},
	)
}

// errorText renders scheduling failures as tool-result text the model can
// react to. Infrastructure failures keep their plain error string.
func errorText(err error) string {
	var verr *ValidationError
	var perr *PolicyError
	var nferr *NotFoundError
	switch {
	case errors.As(err, &verr):
		return "Error: " + verr.Error()
	case errors.As(err, &perr):
		return "Error: " + perr.Error()
	case errors.As(err, &nferr):
		return "Error: " + nferr.Error()
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func formatEventList(header string, events []Event) string {
	var b strings.Builder
	b.WriteString(header)
	for _, ev := range events {
		summary := ev.Summary
		if summary == "" {
			summary = "No Title"
		}
		fmt.Fprintf(&b, "\n- %s (ID: %s, Start: %s)", summary, ev.ID, ev.Start.Format(time.RFC3339))
	}
	return b.String()
}

func rangeArgs(s *Scheduler, args map[string]any, defaultSpan time.Duration) (time.Time, time.Time, error) {
	timeMin := s.Now()
	timeMax := timeMin.Add(defaultSpan)
	if v := stringArg(args, "time_min"); v != "" {
		t, err := ParseTime(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		timeMin = t
	}
	if v := stringArg(args, "time_max"); v != "" {
		t, err := ParseTime(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		timeMax = t
	}
	return timeMin, timeMax, nil
}

func stringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}

func boolArg(args map[string]any, name string) bool {
	v, _ := args[name].(bool)
	return v
}

func intArg(args map[string]any, name string, def int) int {
	switch v := args[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

func splitAttendees(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if email := strings.TrimSpace(p); email != "" {
			out = append(out, email)
		}
	}
	return out
}
