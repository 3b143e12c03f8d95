package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billriesner/vongab2b/tool"
)

func findTool(t *testing.T, s *Scheduler, name string) tool.Tool {
	t.Helper()
	for _, tl := range Tools(s) {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %q not registered", name)
	return nil
}

func TestCurrentTimeTool(t *testing.T) {
	s := testScheduler(NewMemoryCalendar())
	tl := findTool(t, s, "calendar_get_current_time")

	out, err := tl.Invoke(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "- UTC: 2025-12-01 12:00:00 UTC")
	assert.Contains(t, out, "- Today's date: 2025-12-01")
	assert.Contains(t, out, "- Tomorrow's date: 2025-12-02")
}

func TestCreateEventTool_Success(t *testing.T) {
	cal := NewMemoryCalendar()
	s := testScheduler(cal)
	tl := findTool(t, s, "calendar_create_event")

	out, err := tl.Invoke(context.Background(), map[string]any{
		"summary":    "Deep Work",
		"start_time": "2025-12-29T14:00:00Z",
		"end_time":   "2025-12-29T15:00:00Z",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Event 'Deep Work' created successfully!")
	assert.Contains(t, out, "- Start: 2025-12-29T14:00:00Z")
	assert.Contains(t, out, "- Event ID: ")
	assert.Equal(t, 1, cal.Len())
}

func TestCreateEventTool_ConflictReportsSuggestion(t *testing.T) {
	cal := NewMemoryCalendar()
	_, err := cal.InsertEvent(context.Background(), Event{
		Summary: "Team Sync",
		Start:   time.Date(2025, 12, 29, 14, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 12, 29, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	s := testScheduler(cal)
	tl := findTool(t, s, "calendar_create_event")

	out, err := tl.Invoke(context.Background(), map[string]any{
		"summary":    "Deep Work",
		"start_time": "2025-12-29T14:00:00Z",
		"end_time":   "2025-12-29T15:00:00Z",
	})
	require.NoError(t, err, "a refusal is tool-result text, not an invocation error")
	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "Team Sync")
	assert.Contains(t, out, "Suggested available time: 2025-12-29T15:00:00Z to 2025-12-29T16:00:00Z")
	assert.Contains(t, out, "Use these exact times to retry")
	assert.Equal(t, 1, cal.Len())
}

func TestCreateEventTool_ForceConflictNote(t *testing.T) {
	cal := NewMemoryCalendar()
	_, err := cal.InsertEvent(context.Background(), Event{
		Summary: "Team Sync",
		Start:   time.Date(2025, 12, 29, 14, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 12, 29, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	s := testScheduler(cal)
	tl := findTool(t, s, "calendar_create_event")

	out, err := tl.Invoke(context.Background(), map[string]any{
		"summary":        "Urgent Review",
		"start_time":     "2025-12-29T14:30:00Z",
		"end_time":       "2025-12-29T15:30:00Z",
		"force_conflict": true,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "created successfully")
	assert.Contains(t, out, "Note: event created despite conflicts with: Team Sync")
}

func TestCreateEventTool_BadTimestamp(t *testing.T) {
	s := testScheduler(NewMemoryCalendar())
	tl := findTool(t, s, "calendar_create_event")

	out, err := tl.Invoke(context.Background(), map[string]any{
		"summary":    "Deep Work",
		"start_time": "next tuesday",
		"end_time":   "2025-12-29T15:00:00Z",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Error: could not parse timestamp")
}

func TestListTool(t *testing.T) {
	cal := NewMemoryCalendar()
	_, err := cal.InsertEvent(context.Background(), Event{
		Summary: "Standup",
		Start:   time.Date(2025, 12, 2, 14, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 12, 2, 14, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	s := testScheduler(cal)
	tl := findTool(t, s, "calendar_list")

	out, err := tl.Invoke(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 events:")
	assert.Contains(t, out, "- Standup (ID: ")

	out, err = tl.Invoke(context.Background(), map[string]any{
		"time_min": "2026-01-01T00:00:00Z",
		"time_max": "2026-01-07T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "No events found between")
}

func TestSearchTool(t *testing.T) {
	cal := NewMemoryCalendar()
	_, err := cal.InsertEvent(context.Background(), Event{
		Summary: "Quarterly Review",
		Start:   time.Date(2025, 12, 10, 15, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 12, 10, 16, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	s := testScheduler(cal)
	tl := findTool(t, s, "calendar_search")

	out, err := tl.Invoke(context.Background(), map[string]any{"query": "review"})
	require.NoError(t, err)
	assert.Contains(t, out, `Found 1 events matching "review":`)

	out, err = tl.Invoke(context.Background(), map[string]any{"query": "standup"})
	require.NoError(t, err)
	assert.Contains(t, out, "No events found matching query: standup")
}

func TestEditEventTool(t *testing.T) {
	cal := NewMemoryCalendar()
	ev, err := cal.InsertEvent(context.Background(), Event{
		Summary: "Planning",
		Start:   time.Date(2025, 12, 29, 14, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 12, 29, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	s := testScheduler(cal)
	tl := findTool(t, s, "calendar_edit_event")

	out, err := tl.Invoke(context.Background(), map[string]any{
		"event_id":   ev.ID,
		"start_time": "2025-12-29T16:00:00Z",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Event 'Planning' updated successfully!")
	assert.Contains(t, out, "- Start: 2025-12-29T16:00:00Z")
}

func TestDeleteEventTool(t *testing.T) {
	cal := NewMemoryCalendar()
	ev, err := cal.InsertEvent(context.Background(), Event{
		Summary: "Doomed",
		Start:   time.Date(2025, 12, 29, 14, 0, 0, 0, time.UTC),
		End:     time.Date(2025, 12, 29, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	s := testScheduler(cal)
	tl := findTool(t, s, "calendar_delete_event")

	out, err := tl.Invoke(context.Background(), map[string]any{"event_id": ev.ID})
	require.NoError(t, err)
	assert.Contains(t, out, "deleted successfully")
	assert.Zero(t, cal.Len())

	out, err = tl.Invoke(context.Background(), map[string]any{"event_id": ev.ID})
	require.NoError(t, err)
	assert.Contains(t, out, "Error: ")
}
