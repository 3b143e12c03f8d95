package schedule

import (
	"fmt"
	"strings"
	"time"
)

// parseLayouts are the accepted timestamp shapes, tried in order. Naive
// timestamps are interpreted as UTC; zoned ones are converted to UTC.
var parseLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTime normalizes a model-supplied timestamp string to a UTC instant.
// Surrounding whitespace and stray quotes are stripped; a bare date is
// treated as local midnight UTC. A failure is a *ValidationError so it
// surfaces to the model as ordinary tool-result text.
func ParseTime(s string) (time.Time, error) {
	clean := strings.Trim(strings.TrimSpace(s), `'"`)
	if clean == "" {
		return time.Time{}, &ValidationError{Reason: "timestamp is empty"}
	}

	if len(clean) == 10 {
		if d, err := time.ParseInLocation("2006-01-02", clean, time.UTC); err == nil {
			return d, nil
		}
	}

	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, clean, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, &ValidationError{Reason: fmt.Sprintf(
		"could not parse timestamp %q: use ISO 8601 format (e.g. '2025-01-15T10:00:00Z', '2025-01-15T10:00:00', or '2025-01-15T10:00:00-05:00')", clean)}
}
