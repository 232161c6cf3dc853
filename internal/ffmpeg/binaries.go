// Package ffmpeg locates the ffmpeg and ffprobe executables.
package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	EnvFFmpegPath  = "LEKH_FFMPEG_PATH"
	EnvFFprobePath = "LEKH_FFPROBE_PATH"
)

var ErrNotFound = errors.New("ffmpeg binaries not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves both binaries once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = Locate(os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

// Locate prefers explicit env overrides and falls back to PATH lookup.
func Locate(
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  getenv(EnvFFmpegPath),
		FFprobe: getenv(EnvFFprobePath),
	}

	if paths.FFmpeg == "" {
		if found, err := lookPath("ffmpeg"); err == nil {
			paths.FFmpeg = found
		}
	}
	if paths.FFprobe == "" {
		if found, err := lookPath("ffprobe"); err == nil {
			paths.FFprobe = found
		}
	}

	switch {
	case paths.FFmpeg == "" && paths.FFprobe == "":
		return BinaryPaths{}, fmt.Errorf("%w: install ffmpeg or set %s and %s",
			ErrNotFound, EnvFFmpegPath, EnvFFprobePath)
	case paths.FFmpeg == "":
		return BinaryPaths{}, fmt.Errorf("%w: ffmpeg missing, set %s", ErrNotFound, EnvFFmpegPath)
	case paths.FFprobe == "":
		return BinaryPaths{}, fmt.Errorf("%w: ffprobe missing, set %s", ErrNotFound, EnvFFprobePath)
	}
	return paths, nil
}
