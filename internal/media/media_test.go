package media

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mgpai22/lekh/internal/transcript"
)

func TestParseProbeDuration(t *testing.T) {
	got, err := parseProbeDuration([]byte(`{"format":{"duration":"12.500000"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 12500 * time.Millisecond; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := parseProbeDuration([]byte(`{"format":{}}`)); err == nil {
		t.Error("expected error for missing duration")
	}
	if _, err := parseProbeDuration([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestClipRange(t *testing.T) {
	segs := transcript.Parse("[00:00:05 --> 00:00:09]  hi\nuntimed\n[00:00:10 --> 00:00:10]  empty")

	start, length, err := ClipRange(segs[0])
	if err != nil || start != 5 || length != 4 {
		t.Errorf("got (%v, %v, %v), want (5, 4, nil)", start, length, err)
	}
	if _, _, err := ClipRange(segs[1]); !errors.Is(err, ErrUntimedSegment) {
		t.Errorf("got %v, want ErrUntimedSegment", err)
	}
	if _, _, err := ClipRange(segs[2]); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestClipPath(t *testing.T) {
	got := ClipPath("/media/talk.mp3", "/tmp/clips", 7)
	if want := filepath.Join("/tmp/clips", "talk_segment_007.mp3"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMediaFileDetection(t *testing.T) {
	tests := []struct {
		path  string
		audio bool
		video bool
	}{
		{"a.mp3", true, false},
		{"a.WAV", true, false},
		{"a.mp4", false, true},
		{"a.txt", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsAudioFile(tt.path); got != tt.audio {
				t.Errorf("IsAudioFile = %v, want %v", got, tt.audio)
			}
			if got := IsVideoFile(tt.path); got != tt.video {
				t.Errorf("IsVideoFile = %v, want %v", got, tt.video)
			}
			if got := IsMediaFile(tt.path); got != (tt.audio || tt.video) {
				t.Errorf("IsMediaFile = %v", got)
			}
		})
	}
}
