package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/lekh/internal/transcript"
)

func TestReadSRT(t *testing.T) {
	content := "\ufeff1\r\n" +
		"00:00:01,000 --> 00:00:04,000\r\n" +
		"Hello, world!\r\n" +
		"\r\n" +
		"2\n" +
		"00:00:05,500 --> 00:00:08,200\n" +
		"This is a test.\n" +
		"With multiple lines.\n" +
		"\n" +
		"3\n" +
		"00:00:10,000 --> 00:00:12,500\n" +
		"Final subtitle.\n"

	entries, err := Read(strings.NewReader(content), FormatSRT)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Start != 1*time.Second || entries[0].End != 4*time.Second {
		t.Errorf("entry 0 timing = %v..%v", entries[0].Start, entries[0].End)
	}
	if entries[0].Text != "Hello, world!" {
		t.Errorf("entry 0 text = %q", entries[0].Text)
	}
	if want := "This is a test.\nWith multiple lines."; entries[1].Text != want {
		t.Errorf("entry 1 text = %q, want %q", entries[1].Text, want)
	}
	if entries[1].Start != 5500*time.Millisecond {
		t.Errorf("entry 1 start = %v", entries[1].Start)
	}
}

func TestReadVTT(t *testing.T) {
	content := `WEBVTT

NOTE this is
a comment

1
00:00:01.000 --> 00:00:04.000
Hello, world!

intro
00:05.500 --> 00:08.200 align:start
Short timestamps.

00:00:10.000 --> 00:00:12.500
No cue identifier.
`
	entries, err := Read(strings.NewReader(content), FormatVTT)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}
	if entries[1].Start != 5500*time.Millisecond || entries[1].Text != "Short timestamps." {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[2].Text != "No cue identifier." {
		t.Errorf("entry 2 text = %q", entries[2].Text)
	}
}

func TestReadRejectsBadTimestamp(t *testing.T) {
	content := "1\n00:61:00,000 --> 00:62:00,000\ntext\n"
	if _, err := Read(strings.NewReader(content), FormatSRT); err == nil {
		t.Error("expected error for out of range timestamp")
	}
}

func TestToSegments(t *testing.T) {
	entries := []Entry{
		{Start: 0, End: 5 * time.Second, Text: "Hello"},
		{Start: 5*time.Second + 250*time.Millisecond, End: 10 * time.Second, Text: "two\nlines"},
	}

	got := transcript.Serialize(ToSegments(entries))
	want := "[00:00:00 --> 00:00:05]  Hello\n[00:00:05.250 --> 00:00:10]  two lines"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	segs := transcript.Parse(got)
	if segs[1].StartSeconds != 5 || segs[1].EndSeconds != 10 {
		t.Errorf("reparsed timing = %v..%v", segs[1].StartSeconds, segs[1].EndSeconds)
	}
}

func TestWriteSRTSkipsUntimed(t *testing.T) {
	segments := transcript.Parse("[00:00:00 --> 00:00:05]  Hello\n" +
		"a note without timing\n" +
		"[00:00:05.500 --> 00:00:10]  World")

	var sb strings.Builder
	if err := Write(&sb, FormatSRT, segments); err != nil {
		t.Fatal(err)
	}
	want := "1\n00:00:00,000 --> 00:00:05,000\nHello\n\n" +
		"2\n00:00:05,500 --> 00:00:10,000\nWorld\n\n"
	if sb.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteVTTAndTXT(t *testing.T) {
	segments := transcript.Parse("[00:00:00 --> 00:00:05]  Hello\nuntimed")

	var vtt strings.Builder
	if err := Write(&vtt, FormatVTT, segments); err != nil {
		t.Fatal(err)
	}
	if want := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:05.000\nHello\n\n"; vtt.String() != want {
		t.Errorf("vtt = %q", vtt.String())
	}

	var txt strings.Builder
	if err := Write(&txt, FormatTXT, segments); err != nil {
		t.Fatal(err)
	}
	if want := "[00:00:00 --> 00:00:05]  Hello\nuntimed\n"; txt.String() != want {
		t.Errorf("txt = %q", txt.String())
	}
}

func TestRoundTripThroughFile(t *testing.T) {
	segments := transcript.Parse("[00:00:01 --> 00:00:03]  One\n[00:00:03.200 --> 00:00:07]  Two")
	path := filepath.Join(t.TempDir(), "out", "captions.vtt")

	if err := WriteFile(path, FormatVTT, segments); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	entries, err := Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	got := transcript.Serialize(ToSegments(entries))
	if want := transcript.Serialize(segments); got != want {
		t.Errorf("round trip = %q, want %q", got, want)
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ass")
	if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Open(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"srt", "VTT", ".txt"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q) error: %v", name, err)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Error("expected error for docx")
	}
}
