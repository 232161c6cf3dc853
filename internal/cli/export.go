package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lekh/internal/subtitle"
)

var exportCmd = &cobra.Command{
	Use:   "export [file_id]",
	Short: "Export a transcript as SRT, VTT or plain text",
	Long: `Export a stored transcript.

SRT and VTT output only carries segments with timecodes; untimed lines
are left out. TXT keeps the transcript as is.

Examples:
  lekh export interview --format srt
  lekh export interview -o captions.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("format", "f", "", "Output format: srt, vtt or txt (defaults to the output extension, then srt)")
}

func runExport(cmd *cobra.Command, args []string) error {
	fileID := args[0]
	formatStr, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	format, err := exportFormat(formatStr, outputPath)
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = fileID + format.Extension()
	}

	_, segments, err := loadSegments(context.Background(), transcriptStore(), fileID)
	if err != nil {
		return err
	}

	if err := subtitle.WriteFile(outputPath, format, segments); err != nil {
		return fmt.Errorf("failed to export transcript: %w", err)
	}

	exported := len(segments)
	if format != subtitle.FormatTXT {
		exported = len(subtitle.FromSegments(segments))
	}
	logger.Infow("Transcript exported",
		"file_id", fileID,
		"format", format,
		"segments", exported,
		"skipped", len(segments)-exported,
	)

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d segment(s) to %s\n", exported, absOutput)
	return nil
}

func exportFormat(name, outputPath string) (subtitle.Format, error) {
	switch {
	case name != "":
		return subtitle.ParseFormat(name)
	case outputPath != "" && filepath.Ext(outputPath) != "":
		return subtitle.FormatFromPath(outputPath)
	default:
		return subtitle.FormatSRT, nil
	}
}
