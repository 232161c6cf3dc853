package transcript

import (
	"testing"
)

func TestParseTwoTimedSegments(t *testing.T) {
	raw := "[00:00:00 --> 00:00:05]  Hello\n[00:00:05 --> 00:00:10]  World"

	segments := Parse(raw)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	want := []Segment{
		{Index: 0, StartLabel: "00:00:00", EndLabel: "00:00:05", StartSeconds: 0, EndSeconds: 5, Text: "Hello"},
		{Index: 1, StartLabel: "00:00:05", EndLabel: "00:00:10", StartSeconds: 5, EndSeconds: 10, Text: "World"},
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Errorf("segment %d: got %+v, want %+v", i, segments[i], want[i])
		}
	}
}

func TestParseLineVariants(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantTimed bool
		wantStart float64
		wantEnd   float64
		wantText  string
	}{
		{"double arrow", "[00:01:02 --> 00:01:05]  text", true, 62, 65, "text"},
		{"single arrow", "[00:00:01->00:00:02] text", true, 1, 2, "text"},
		{"unicode arrow", "[00:00:01 → 00:00:02]  привет", true, 1, 2, "привет"},
		{"milliseconds truncated", "[00:00:01.999 --> 01:00:00.500]  x", true, 1, 3600, "x"},
		{"no timecode", "  just words  ", false, 0, 0, "just words"},
		{"malformed timecode", "[0:00:01 --> 00:00:02] oops", false, 0, 0, "[0:00:01 --> 00:00:02] oops"},
		{"out of range minutes", "[00:61:00 --> 00:62:00] oops", false, 0, 0, "[00:61:00 --> 00:62:00] oops"},
		{"empty text", "[00:00:01 --> 00:00:02]", true, 1, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := Parse(tt.line)
			if len(segments) != 1 {
				t.Fatalf("expected 1 segment, got %d", len(segments))
			}
			seg := segments[0]
			if seg.Timed() != tt.wantTimed {
				t.Fatalf("Timed() = %v, want %v", seg.Timed(), tt.wantTimed)
			}
			if seg.StartSeconds != tt.wantStart || seg.EndSeconds != tt.wantEnd {
				t.Errorf(
					"seconds = [%v, %v], want [%v, %v]",
					seg.StartSeconds, seg.EndSeconds, tt.wantStart, tt.wantEnd,
				)
			}
			if seg.Text != tt.wantText {
				t.Errorf("text = %q, want %q", seg.Text, tt.wantText)
			}
		})
	}
}

func TestParseDropsBlankLinesAndReindexes(t *testing.T) {
	raw := "\ufeff\n\nfirst\r\n\n   \n[00:00:01 --> 00:00:02]  second\n\nthird\n"

	segments := Parse(raw)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.Index != i {
			t.Errorf("segment %d has index %d", i, seg.Index)
		}
	}
	if segments[0].Text != "first" || segments[2].Text != "third" {
		t.Errorf("unexpected texts: %q, %q", segments[0].Text, segments[2].Text)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	inputs := []string{
		"[00:00:00 --> 00:00:05]  Hello\n[00:00:05 --> 00:00:10]  World",
		"[00:00:00.250 --> 00:00:05.750]  keeps labels verbatim",
		"untimed line\n[00:10:00 --> 00:10:04]  timed\nanother untimed",
		"[00:00:01 --> 00:00:02]\n[00:00:02 --> 00:00:03]  after an empty cue",
		"",
	}

	for _, in := range inputs {
		if got := Serialize(Parse(in)); got != in {
			t.Errorf("Serialize(Parse(%q)) = %q", in, got)
		}
	}
}

func TestSerializeNormalizesSeparators(t *testing.T) {
	got := Serialize(Parse("[00:00:01->00:00:02] a\n\n[00:00:02 → 00:00:03]    b"))
	want := "[00:00:01 --> 00:00:02]  a\n[00:00:02 --> 00:00:03]  b"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSegmentContains(t *testing.T) {
	seg := Segment{StartLabel: "00:00:05", EndLabel: "00:00:10", StartSeconds: 5, EndSeconds: 10}
	for _, tc := range []struct {
		t    float64
		want bool
	}{{4.99, false}, {5, true}, {7.5, true}, {10, true}, {10.01, false}} {
		if got := seg.Contains(tc.t); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}

	untimed := Segment{Text: "x"}
	if untimed.Contains(0) {
		t.Error("untimed segment should never contain a position")
	}
}

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		seconds    float64
		withMillis bool
		want       string
	}{
		{0, false, "00:00:00"},
		{65.9, false, "00:01:05"},
		{3725.25, true, "01:02:05.250"},
		{-3, false, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatTimecode(tt.seconds, tt.withMillis); got != tt.want {
			t.Errorf("FormatTimecode(%v, %v) = %q, want %q", tt.seconds, tt.withMillis, got, tt.want)
		}
	}
}
