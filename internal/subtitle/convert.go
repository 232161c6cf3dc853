package subtitle

import (
	"strconv"
	"strings"
	"time"

	"github.com/mgpai22/lekh/internal/transcript"
)

// ToSegments turns cues into transcript segments. Multi-line cue text is
// joined into one line.
func ToSegments(entries []Entry) []transcript.Segment {
	segments := make([]transcript.Segment, 0, len(entries))
	for _, e := range entries {
		text := strings.Join(strings.Fields(strings.ReplaceAll(e.Text, "\n", " ")), " ")
		start, end := durationLabel(e.Start), durationLabel(e.End)
		segments = append(segments, transcript.Segment{
			Index:        len(segments),
			StartLabel:   start,
			EndLabel:     end,
			StartSeconds: float64(e.Start / time.Second),
			EndSeconds:   float64(e.End / time.Second),
			Text:         text,
		})
	}
	return segments
}

// FromSegments returns one cue per timed segment; untimed segments have no
// place on a subtitle timeline and are skipped.
func FromSegments(segments []transcript.Segment) []Entry {
	var entries []Entry
	for _, seg := range segments {
		if !seg.Timed() {
			continue
		}
		start, ok := labelDuration(seg.StartLabel)
		if !ok {
			continue
		}
		end, ok := labelDuration(seg.EndLabel)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Index: len(entries) + 1,
			Start: start,
			End:   end,
			Text:  seg.Text,
		})
	}
	return entries
}

// HH:MM:SS, with .mmm only when there are milliseconds
func durationLabel(d time.Duration) string {
	seconds := d.Seconds()
	return transcript.FormatTimecode(seconds, d%time.Second != 0)
}

func labelDuration(label string) (time.Duration, bool) {
	whole, err := transcript.ParseTimecode(label)
	if err != nil {
		return 0, false
	}
	d := time.Duration(whole) * time.Second
	if _, frac, found := strings.Cut(label, "."); found {
		ms, err := strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		d += time.Duration(ms) * time.Millisecond
	}
	return d, true
}
