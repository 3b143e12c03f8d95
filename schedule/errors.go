package schedule

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports malformed or logically impossible input: an
// unparseable timestamp, a past start, or an end not after the start. It is
// always rendered as tool-result text, never raised past the dispatcher.
type ValidationError struct {
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Reason }

// PolicyError reports well-formed input that violates a business rule:
// outside the business window, or conflicting with existing events without
// an override. It carries an actionable suggestion when one was computable.
type PolicyError struct {
	Reason         string
	Conflicts      []string  // titles of conflicting events, if any
	SuggestedStart time.Time // zero when no suggestion exists
	SuggestedEnd   time.Time
	NoSlot         bool // true when a slot search ran and found nothing that day
}

// HasSuggestion reports whether an alternative slot was computed.
func (e *PolicyError) HasSuggestion() bool { return !e.SuggestedStart.IsZero() }

// Error implements the error interface.
func (e *PolicyError) Error() string {
	var b strings.Builder
	b.WriteString(e.Reason)
	if len(e.Conflicts) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Conflicts, ", "))
	}
	if e.HasSuggestion() {
		fmt.Fprintf(&b, ". Suggested available time: %s to %s. Use these exact times to retry",
			e.SuggestedStart.UTC().Format(time.RFC3339), e.SuggestedEnd.UTC().Format(time.RFC3339))
	}
	if e.NoSlot {
		b.WriteString(". No available slots found within business hours on that date; please try a different date")
	}
	return b.String()
}

// NotFoundError reports that a calendar event id does not exist.
type NotFoundError struct {
	EventID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event %q not found", e.EventID)
}
