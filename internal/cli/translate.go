package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lekh/internal/store"
	"github.com/mgpai22/lekh/internal/transcript"
	"github.com/mgpai22/lekh/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [file_id]",
	Short: "Translate a stored transcript using AI",
	Long: `Translate every segment of a stored transcript.

Segments are sent one at a time in small paced batches. Segments that fail
keep their original text and are reported at the end.

The --overlay flag writes bilingual output with the translated text
under each original line.

Examples:
  lekh translate interview --target-language japanese
  lekh translate interview -t spanish --overlay -o interview.es.txt
  lekh translate interview -t french --provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (defaults to the config)")
	translateCmd.Flags().
		Bool("overlay", false, "Keep the original text and add the translation below it")
	translateCmd.Flags().
		Int("batch-size", 0, "Segments per batch before pausing (defaults to the config)")
	addTranslatorFlags(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	fileID := args[0]
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	targetLang, _ := cmd.Flags().GetString("target-language")
	overlay, _ := cmd.Flags().GetBool("overlay")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	outputPath, _ := cmd.Flags().GetString("output")
	inputLang, _ := cmd.Flags().GetString("language")

	if targetLang == "" {
		targetLang = cfg.Translation.Languages[0]
	}
	if inputLang != "" &&
		strings.EqualFold(
			strings.TrimSpace(inputLang),
			strings.TrimSpace(targetLang),
		) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}
	if batchSize < 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	st := transcriptStore()
	_, segments, err := loadSegments(ctx, st, fileID)
	if err != nil {
		return err
	}

	translator, err := newTranslator(ctx, cmd)
	if err != nil {
		return err
	}

	logger.Infow("Starting transcript translation",
		"file_id", fileID,
		"segments", len(segments),
		"target_language", targetLang,
		"overlay", overlay,
	)

	cache := translate.NewCache(translator, translate.CacheOptions{
		MinLength: cfg.Translation.MinLength,
		Logger:    logger,
	})
	opts := cfg.Translation.BatchOptions()
	if batchSize > 0 {
		opts.BatchSize = batchSize
	}
	opts.Logger = logger
	summary, err := translate.NewBatcher(cache, opts).TranslateAll(ctx, targetLang, segments)
	if err != nil {
		return fmt.Errorf("translation stopped: %w", err)
	}

	out := renderTranslated(cache, segments, targetLang, overlay)
	if outputPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), out)
	} else {
		if err := store.WriteFileAtomic(outputPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		absOutput, _ := filepath.Abs(outputPath)
		fmt.Fprintf(cmd.OutOrStdout(), "Transcript translated successfully: %s\n", absOutput)
	}

	logger.Infow("Translation complete",
		"requested", summary.Requested,
		"translated", summary.Translated,
		"failed", summary.Failed,
	)
	if summary.Failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %d segment(s) could not be translated\n", summary.Failed)
	}
	return nil
}

// transcript lines with translations substituted or appended
func renderTranslated(
	cache *translate.Cache,
	segments []transcript.Segment,
	lang string,
	overlay bool,
) string {
	var sb strings.Builder
	for _, seg := range segments {
		entry, ok := cache.Lookup(seg.Index, lang)
		translated := ok && !entry.Failed()

		switch {
		case overlay:
			sb.WriteString(transcript.FormatLine(seg))
			sb.WriteString("\n")
			if ok {
				sb.WriteString("    ")
				sb.WriteString(entry.Display())
				sb.WriteString("\n")
			}
		case translated:
			out := seg
			out.Text = entry.Text
			sb.WriteString(transcript.FormatLine(out))
			sb.WriteString("\n")
		default:
			sb.WriteString(transcript.FormatLine(seg))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
