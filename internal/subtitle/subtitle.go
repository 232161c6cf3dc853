// Package subtitle converts transcripts to and from subtitle files.
package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// single cue
type Entry struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatTXT Format = "txt"
)

// ParseFormat validates a format name given on the command line.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatSRT, FormatVTT, FormatTXT:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// format based on file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot detect subtitle format of %s", path)
	}
	return ParseFormat(ext)
}

// file extension for a format
func (f Format) Extension() string {
	return "." + string(f)
}
