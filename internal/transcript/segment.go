package transcript

import (
	"regexp"
	"strings"
)

// one utterance of a transcript
type Segment struct {
	Index        int
	StartLabel   string // original timecode, empty when the line had none
	EndLabel     string
	StartSeconds float64
	EndSeconds   float64
	Text         string
}

// reports whether the segment carries both timecodes
func (s Segment) Timed() bool {
	return s.StartLabel != "" && s.EndLabel != ""
}

// Contains reports whether t falls inside the segment's time range.
// Untimed segments never contain any position.
func (s Segment) Contains(t float64) bool {
	return s.Timed() && s.StartSeconds <= t && t <= s.EndSeconds
}

var lineRegex = regexp.MustCompile(
	`^\[(\d{2}:\d{2}:\d{2}(?:\.\d{3})?)\s*(?:-->|->|→)\s*(\d{2}:\d{2}:\d{2}(?:\.\d{3})?)\]\s*(.*)$`,
)

// Parse splits raw transcript text into segments.
//
// Lines like "[00:00:01 --> 00:00:04]  text" become timed segments; any other
// non-blank line is kept as an untimed segment. Blank lines are dropped.
func Parse(raw string) []Segment {
	raw = strings.TrimPrefix(raw, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	segments := make([]Segment, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		segments = append(segments, parseLine(line, len(segments)))
	}
	return segments
}

func parseLine(line string, index int) Segment {
	matches := lineRegex.FindStringSubmatch(line)
	if len(matches) != 4 {
		return Segment{Index: index, Text: line}
	}

	start, errStart := ParseTimecode(matches[1])
	end, errEnd := ParseTimecode(matches[2])
	if errStart != nil || errEnd != nil {
		return Segment{Index: index, Text: line}
	}

	return Segment{
		Index:        index,
		StartLabel:   matches[1],
		EndLabel:     matches[2],
		StartSeconds: start,
		EndSeconds:   end,
		Text:         strings.TrimSpace(matches[3]),
	}
}

// formats one segment as a transcript line
func FormatLine(s Segment) string {
	if s.Timed() {
		line := "[" + s.StartLabel + " --> " + s.EndLabel + "]"
		if s.Text == "" {
			return line
		}
		return line + "  " + s.Text
	}
	return s.Text
}

// Serialize is the inverse of Parse.
func Serialize(segments []Segment) string {
	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = FormatLine(seg)
	}
	return strings.Join(lines, "\n")
}

// Reindex reassigns indices contiguously from 0.
func Reindex(segments []Segment) {
	for i := range segments {
		segments[i].Index = i
	}
}
