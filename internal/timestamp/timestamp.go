// Package timestamp converts between textual video timestamps and integer
// seconds. Absence of a timestamp is common, so malformed input yields
// ok=false rather than an error.
package timestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pattern accepts HH:MM:SS and M:SS / MM:SS forms.
var pattern = regexp.MustCompile(`^(?:(\d{1,2}):)?(\d{1,2}):(\d{2})$`)

// Parse converts "HH:MM:SS" or "MM:SS" to seconds. It returns ok=false for
// anything else, including out-of-range minute/second components.
func Parse(text string) (int, bool) {
	m := pattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}

	hours := 0
	if m[1] != "" {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		hours = h
	}
	mins, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	secs, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, false
	}

	// With an hour component the minutes must be a real minute value.
	if m[1] != "" && mins > 59 {
		return 0, false
	}
	if secs > 59 {
		return 0, false
	}

	return hours*3600 + mins*60 + secs, true
}

// Format renders seconds as canonical "HH:MM:SS". Negative input is treated
// as zero.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Normalize parses text and re-renders it canonically, so that
// Normalize("1:05") == ("00:01:05", true).
func Normalize(text string) (string, bool) {
	secs, ok := Parse(text)
	if !ok {
		return "", false
	}
	return Format(secs), true
}
