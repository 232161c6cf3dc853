package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mgpai22/lekh/internal/store"
	"github.com/mgpai22/lekh/internal/transcript"
)

// Write renders segments in the given format.
func Write(w io.Writer, format Format, segments []transcript.Segment) error {
	var err error
	switch format {
	case FormatSRT:
		_, err = io.WriteString(w, renderSRT(FromSegments(segments)))
	case FormatVTT:
		_, err = io.WriteString(w, renderVTT(FromSegments(segments)))
	case FormatTXT:
		_, err = io.WriteString(w, transcript.Serialize(segments)+"\n")
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	return nil
}

// WriteFile renders segments into path, replacing it atomically.
func WriteFile(path string, format Format, segments []transcript.Segment) error {
	var buf bytes.Buffer
	if err := Write(&buf, format, segments); err != nil {
		return err
	}
	return store.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

func renderSRT(entries []Entry) string {
	var sb strings.Builder
	for i, entry := range entries {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(entry.Start),
			formatSRTTime(entry.End)))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func renderVTT(entries []Entry) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(entry.Start),
			formatVTTTime(entry.End)))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func splitDuration(d time.Duration) (hours, minutes, seconds, millis int) {
	hours = int(d.Hours())
	minutes = int(d.Minutes()) % 60
	seconds = int(d.Seconds()) % 60
	millis = int(d.Milliseconds()) % 1000
	return
}

func formatSRTTime(d time.Duration) string {
	h, m, s, ms := splitDuration(d)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func formatVTTTime(d time.Duration) string {
	h, m, s, ms := splitDuration(d)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
