package translate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"testing"
	"time"
)

func TestFactoryReturnsProviderTranslators(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		provider Provider
		want     string
	}{
		{ProviderGemini, "*translate.GeminiTranslator"},
		{ProviderOpenAI, "*translate.OpenAITranslator"},
		{ProviderAnthropic, "*translate.AnthropicTranslator"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			translator, err := Factory(ctx, tt.provider, "fake-key", Options{})
			if err != nil {
				t.Fatalf("Factory(%s) returned error: %v", tt.provider, err)
			}
			if got := fmt.Sprintf("%T", translator); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	if _, err := Factory(context.Background(), ProviderOpenAI, "", Options{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	_, err := Factory(context.Background(), Provider("unknown"), "fake-key", Options{})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Options{InputLanguage: "English"}, "Hello world", "Japanese")

	for _, want := range []string{"English transcript segment", "to Japanese", "Hello world", `"index": 0`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

func TestBuildPromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("é", MaxTextLength+10)
	prompt := BuildPrompt(Options{}, long, "French")

	if strings.Contains(prompt, strings.Repeat("é", MaxTextLength+1)) {
		t.Error("prompt should truncate text to MaxTextLength runes")
	}
	if strings.Contains(prompt, "English") {
		t.Error("prompt should not mention an input language")
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassify(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name   string
		status int
		err    error
		want   error
		msg    string
	}{
		{"rate limited", 429, base, ErrRateLimited, "Translation limit reached, try again later"},
		{"unavailable", 503, base, ErrUnavailable, "Translation service is unavailable"},
		{"server error", 500, base, ErrUnavailable, "Translation service is unavailable"},
		{"network", 0, timeoutErr{}, ErrConnectivity, "Translation failed, check your network connection"},
		{"deadline", 0, context.DeadlineExceeded, ErrConnectivity, "Translation failed, check your network connection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.status, tt.err)
			if !errors.Is(got, tt.want) {
				t.Fatalf("classify() = %v, want %v", got, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
			if m := Message(got); m != tt.msg {
				t.Errorf("Message() = %q, want %q", m, tt.msg)
			}
		})
	}

	if got := classify(0, context.Canceled); got != context.Canceled {
		t.Errorf("cancellation should pass through, got %v", got)
	}
	if got := Message(classify(400, base)); got != "Translation failed" {
		t.Errorf("Message for client error = %q", got)
	}
}

type scriptedTranslator struct {
	errs  []error
	calls int
}

func (s *scriptedTranslator) Translate(ctx context.Context, text, lang string) (string, error) {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return text + " (" + lang + ")", nil
}

func TestRetryingRetriesTransientFailures(t *testing.T) {
	next := &scriptedTranslator{errs: []error{
		fmt.Errorf("%w: x", ErrUnavailable),
		fmt.Errorf("%w: x", ErrConnectivity),
	}}
	var pauses []time.Duration
	r := NewRetrying(next, nil)
	r.Sleep = func(ctx context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}

	got, err := r.Translate(context.Background(), "hello", "de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello (de)" {
		t.Errorf("got %q", got)
	}
	if next.calls != 3 {
		t.Errorf("calls = %d, want 3", next.calls)
	}
	if len(pauses) != 2 || pauses[0] != DefaultBackoff || pauses[1] != 2*DefaultBackoff {
		t.Errorf("pauses = %v", pauses)
	}
}

func TestRetryingStopsOnRateLimit(t *testing.T) {
	next := &scriptedTranslator{errs: []error{fmt.Errorf("%w: x", ErrRateLimited)}}
	r := NewRetrying(next, nil)
	r.Sleep = func(context.Context, time.Duration) error { return nil }

	_, err := r.Translate(context.Background(), "hello", "de")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("error = %v, want ErrRateLimited", err)
	}
	if next.calls != 1 {
		t.Errorf("calls = %d, want 1", next.calls)
	}
}

// Integration test: only runs if OPENAI_API_KEY is set
func TestOpenAITranslatorIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	translator, err := NewOpenAITranslator(ctx, apiKey, Options{})
	if err != nil {
		t.Fatalf("NewOpenAITranslator error: %v", err)
	}

	got, err := translator.Translate(ctx, "Good morning", "Spanish")
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if got == "" {
		t.Error("expected non-empty translation")
	}
}
