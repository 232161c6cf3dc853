package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lekh/internal/media"
)

var clipCmd = &cobra.Command{
	Use:   "clip [file_id]",
	Short: "Cut the audio of one segment",
	Long: `Copy the span of a segment out of its media file with ffmpeg.

Examples:
  lekh clip interview --audio interview.mp3 --segment 12
  lekh clip interview --audio interview.mp4 -s 3 -o quote.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runClip,
}

func init() {
	rootCmd.AddCommand(clipCmd)

	clipCmd.Flags().String("audio", "", "Media file of the transcript (required)")
	clipCmd.Flags().IntP("segment", "s", -1, "Segment index (required)")
	_ = clipCmd.MarkFlagRequired("audio")
	_ = clipCmd.MarkFlagRequired("segment")
}

func runClip(cmd *cobra.Command, args []string) error {
	fileID := args[0]
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	audioPath, _ := cmd.Flags().GetString("audio")
	index, _ := cmd.Flags().GetInt("segment")
	outputPath, _ := cmd.Flags().GetString("output")

	if !media.IsMediaFile(audioPath) {
		return fmt.Errorf("unsupported media file: %s", audioPath)
	}

	_, segments, err := loadSegments(ctx, transcriptStore(), fileID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(segments) {
		return fmt.Errorf("segment %d out of range (transcript has %d)", index, len(segments))
	}
	seg := segments[index]

	if outputPath == "" {
		outputPath = media.ClipPath(audioPath, ".", index)
	}

	logger.Infow("Extracting segment audio",
		"file_id", fileID,
		"segment", index,
		"start", seg.StartLabel,
		"end", seg.EndLabel,
		"output", outputPath,
	)
	if err := media.ExtractClip(ctx, audioPath, outputPath, seg); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Clip saved: %s\n", absOutput)
	return nil
}
