package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "transcripts")
	s := NewFileStore(dir, nil)
	ctx := context.Background()

	text := "[00:00:00 --> 00:00:05]  Hello\n[00:00:05 --> 00:00:10]  World"
	if err := s.SaveTranscript(ctx, "meeting-1", text); err != nil {
		t.Fatalf("SaveTranscript error: %v", err)
	}
	if !s.Exists("meeting-1") {
		t.Error("Exists should report the saved transcript")
	}

	got, err := s.LoadTranscript(ctx, "meeting-1")
	if err != nil {
		t.Fatalf("LoadTranscript error: %v", err)
	}
	if got != text {
		t.Errorf("got %q, want %q", got, text)
	}

	if err := s.SaveTranscript(ctx, "meeting-1", "replaced"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.LoadTranscript(ctx, "meeting-1")
	if got != "replaced" {
		t.Errorf("overwrite: got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestFileStoreMissing(t *testing.T) {
	s := NewFileStore(t.TempDir(), nil)
	_, err := s.LoadTranscript(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestValidateFileID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"abc", true},
		{"a1.b_c-d", true},
		{"", false},
		{"..", false},
		{"../etc", false},
		{"dir/file", false},
		{`dir\file`, false},
		{".hidden", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateFileID(tt.id)
			if (err == nil) != tt.want {
				t.Errorf("ValidateFileID(%q) = %v, want valid=%v", tt.id, err, tt.want)
			}
		})
	}
}

func TestSaveTranscriptRespectsContext(t *testing.T) {
	s := NewFileStore(t.TempDir(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.SaveTranscript(ctx, "x", "y"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c.json")
	if err := WriteFileAtomic(path, []byte("{}"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{}" {
		t.Errorf("read back %q, %v", data, err)
	}
}
