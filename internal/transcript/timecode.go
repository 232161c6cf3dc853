package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimecode converts "HH:MM:SS" or "HH:MM:SS.mmm" to whole seconds.
// Milliseconds are truncated.
func ParseTimecode(label string) (float64, error) {
	clock, _, _ := strings.Cut(strings.TrimSpace(label), ".")
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timecode %q: expected HH:MM:SS", label)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in timecode %q: %w", label, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in timecode %q: %w", label, err)
	}
	s, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in timecode %q: %w", label, err)
	}
	if m >= 60 || s >= 60 || h < 0 || m < 0 || s < 0 {
		return 0, fmt.Errorf("timecode %q out of range", label)
	}

	return float64(h*3600 + m*60 + s), nil
}

// FormatTimecode renders seconds as HH:MM:SS, with .mmm when withMillis is set.
func FormatTimecode(seconds float64, withMillis bool) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(seconds*1000 + 0.5)
	if !withMillis {
		totalMillis = int64(seconds) * 1000
	}

	hours := totalMillis / 3_600_000
	minutes := (totalMillis / 60_000) % 60
	secs := (totalMillis / 1000) % 60
	millis := totalMillis % 1000

	if withMillis {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
