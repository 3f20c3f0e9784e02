package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var reDateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseDue parses:
// - YYYY-MM-DD (midnight UTC)
// - RFC3339 / RFC3339Nano (stored in UTC)
func parseDue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}
	if reDateOnly.MatchString(s) {
		ts, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid due date %q: %w", s, err)
		}
		return ts.UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q (expected YYYY-MM-DD or RFC3339)", s)
}
