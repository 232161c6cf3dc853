// Package config loads lekh settings from YAML and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mgpai22/lekh/internal/autosave"
	"github.com/mgpai22/lekh/internal/history"
	"github.com/mgpai22/lekh/internal/translate"
)

const DefaultPath = "lekh.yaml"

type Config struct {
	Autosave struct {
		Delay time.Duration `yaml:"delay"`
	} `yaml:"autosave"`

	History struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"history"`

	Translation TranslationConfig `yaml:"translation"`

	Storage struct {
		TranscriptDir string `yaml:"transcript_dir"`
		BookmarkFile  string `yaml:"bookmark_file"`
	} `yaml:"storage"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	path string
}

type TranslationConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// first entry is the default target; "l" in the editor cycles the rest
	Languages    []string      `yaml:"languages"`
	BatchSize    int           `yaml:"batch_size"`
	RequestDelay time.Duration `yaml:"request_delay"`
	BatchDelay   time.Duration `yaml:"batch_delay"`
	MinLength    int           `yaml:"min_length"`
}

func Default() *Config {
	c := &Config{}
	c.Autosave.Delay = autosave.DefaultDelay
	c.History.Capacity = history.DefaultCapacity

	c.Translation.Provider = string(translate.ProviderGemini)
	c.Translation.Languages = []string{"English"}
	c.Translation.BatchSize = translate.DefaultBatchSize
	c.Translation.RequestDelay = translate.DefaultRequestDelay
	c.Translation.BatchDelay = translate.DefaultBatchDelay
	c.Translation.MinLength = translate.DefaultMinLength

	c.Storage.TranscriptDir = "transcripts"
	c.Storage.BookmarkFile = "bookmarks.json"
	return c
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Validate() error {
	if c.Autosave.Delay <= 0 {
		return fmt.Errorf("autosave.delay must be positive, got %v", c.Autosave.Delay)
	}
	if c.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}

	t := c.Translation
	switch translate.Provider(t.Provider) {
	case translate.ProviderGemini, translate.ProviderOpenAI, translate.ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported translation provider: %s", t.Provider)
	}
	if len(t.Languages) == 0 {
		return errors.New("translation.languages must list at least one language")
	}
	if t.BatchSize <= 0 {
		return fmt.Errorf("translation.batch_size must be positive, got %d", t.BatchSize)
	}
	if t.RequestDelay < 0 || t.BatchDelay < 0 {
		return errors.New("translation delays must not be negative")
	}
	if t.MinLength < 0 {
		return fmt.Errorf("translation.min_length must not be negative, got %d", t.MinLength)
	}
	if c.Storage.TranscriptDir == "" {
		return errors.New("storage.transcript_dir is required")
	}
	return nil
}

// batcher settings for the translation section
func (t TranslationConfig) BatchOptions() translate.BatchOptions {
	return translate.BatchOptions{
		BatchSize:    t.BatchSize,
		RequestDelay: t.RequestDelay,
		BatchDelay:   t.BatchDelay,
	}
}

// LoadEnv loads .env files into the process environment. Missing files are
// skipped; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}
