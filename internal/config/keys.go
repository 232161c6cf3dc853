package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const keyringService = "lekh"

var ErrNoAPIKey = errors.New("no API key available")

// env var holding the key for each provider
var apiKeyEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

func APIKeyEnv(provider string) string {
	return apiKeyEnv[provider]
}

// KeyResolver finds provider API keys: flag, env var, keyring, then prompt.
type KeyResolver struct {
	Getenv func(string) string
	// nil disables prompting
	Prompt func(label string) (string, error)
}

func NewKeyResolver() *KeyResolver {
	return &KeyResolver{
		Getenv: os.Getenv,
		Prompt: terminalPrompt(os.Stdin, os.Stderr),
	}
}

func (r *KeyResolver) Resolve(provider, flagValue string) (string, error) {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, nil
	}

	envName := APIKeyEnv(provider)
	if envName == "" {
		return "", fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if key := strings.TrimSpace(r.Getenv(envName)); key != "" {
		return key, nil
	}

	key, err := keyring.Get(keyringService, provider)
	switch {
	case err == nil && key != "":
		return key, nil
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		return "", fmt.Errorf("failed to read API key from keyring: %w", err)
	}

	if r.Prompt == nil {
		return "", fmt.Errorf("%w: set %s or pass --api-key", ErrNoAPIKey, envName)
	}
	key, err = r.Prompt(envName)
	if err != nil {
		return "", err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: an API key for %s is required", ErrNoAPIKey, provider)
	}

	if err := keyring.Set(keyringService, provider, key); err != nil {
		return "", fmt.Errorf("failed to save API key: %w", err)
	}
	return key, nil
}

// ForgetKey removes a stored key; a missing entry is not an error.
func ForgetKey(provider string) error {
	err := keyring.Delete(keyringService, provider)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	return nil
}

// reads a hidden line from the terminal; nil when stdin is not a tty
func terminalPrompt(in *os.File, out io.Writer) func(string) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}
	return func(label string) (string, error) {
		_, _ = fmt.Fprintf(out, "%s not found, enter one: ", label)
		raw, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		return string(raw), nil
	}
}
