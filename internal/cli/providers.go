package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lekh/internal/config"
	"github.com/mgpai22/lekh/internal/translate"
)

var knownModels = map[translate.Provider][]string{
	translate.ProviderGemini: {
		"gemini-3-pro-preview",
		"gemini-3-flash-preview",
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-2.5-flash-lite",
	},
	translate.ProviderOpenAI: {
		"gpt-5",
		"gpt-5-mini",
		"gpt-5-nano",
		"gpt-5.1",
		"gpt-4.1",
		"gpt-4.1-mini",
		"o3",
		"o3-mini",
	},
	translate.ProviderAnthropic: {
		"claude-sonnet-4-5",
		"claude-haiku-4-5",
		"claude-opus-4-1",
	},
}

func validateModel(provider translate.Provider, model string, override bool) error {
	if model == "" || override {
		return nil
	}
	models, ok := knownModels[provider]
	if !ok {
		return fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if !slices.Contains(models, model) {
		return fmt.Errorf(
			"unsupported %s model %q: valid models are %s (use --model-override to bypass)",
			provider,
			model,
			strings.Join(models, ", "),
		)
	}
	return nil
}

func addTranslatorFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	cmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic); defaults to the config")
	cmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	cmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	cmd.Flags().
		StringP("language", "l", "", "Language of the transcript, if known")
}

// builds the configured translator wrapped in retries
func newTranslator(ctx context.Context, cmd *cobra.Command) (translate.Translator, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	inputLang, _ := cmd.Flags().GetString("language")

	if providerStr == "" {
		providerStr = cfg.Translation.Provider
	}
	if model == "" {
		model = cfg.Translation.Model
	}
	provider := translate.Provider(providerStr)

	if err := validateModel(provider, model, modelOverride); err != nil {
		return nil, err
	}

	key, err := config.NewKeyResolver().Resolve(providerStr, apiKey)
	if err != nil {
		return nil, err
	}

	translator, err := translate.Factory(ctx, provider, key, translate.Options{
		InputLanguage: inputLang,
		Model:         model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	logger.Debugw("Translator ready", "provider", provider, "model", model)
	return translate.NewRetrying(translator, logger), nil
}
