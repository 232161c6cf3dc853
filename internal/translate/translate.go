package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// interface for single-text translation
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// longer inputs are truncated before they are sent
const MaxTextLength = 5000

type Options struct {
	InputLanguage string
	Model         string
	Prompt        string
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// single item sent to and expected back from the model
type promptItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, text, targetLanguage string) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s transcript segment to %s.\n\n",
			opts.InputLanguage,
			targetLanguage,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following transcript segment to %s.\n\n",
			targetLanguage,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString(
		"1. Translate ONLY the text content, preserving the meaning.\n",
	)
	sb.WriteString("2. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("3. The object must keep its 'index' and 'text' fields.\n")
	sb.WriteString("4. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(
			fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt),
		)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(
		[]promptItem{{Index: 0, Text: truncateRunes(text, MaxTextLength)}},
		"",
		"  ",
	)
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
