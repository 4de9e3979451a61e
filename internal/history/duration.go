package history

import (
	"fmt"
	"strconv"
	"strings"
)

// NoDuration marks a record whose build duration was not reported.
const NoDuration = "N/A"

// FormatDuration renders a second count as H:MM:SS, or MM:SS below an
// hour. Negative input means the duration was absent or unparseable
// upstream and yields the absence marker.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		return NoDuration
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ParseDuration converts a formatted duration (H:MM:SS, MM:SS, or SS)
// back to total seconds. The value only drives chart scaling, so any
// empty, absent, or malformed input collapses to 0 rather than erroring.
func ParseDuration(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || s == NoDuration {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
