package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lekh/internal/store"
	"github.com/mgpai22/lekh/internal/subtitle"
	"github.com/mgpai22/lekh/internal/transcript"
)

var importCmd = &cobra.Command{
	Use:   "import [subtitle_file]",
	Short: "Import an SRT or VTT file as a transcript",
	Long: `Convert subtitle cues into a stored transcript.

Multi-line cues are joined into one segment line.

Examples:
  lekh import interview.srt
  lekh import captions.vtt --file-id interview --force`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().
		String("file-id", "", "Transcript id (defaults to the subtitle file name)")
	importCmd.Flags().
		Bool("force", false, "Replace an existing transcript")
}

func runImport(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	fileID, _ := cmd.Flags().GetString("file-id")
	force, _ := cmd.Flags().GetBool("force")

	if fileID == "" {
		fileID = strings.TrimSuffix(filepath.Base(subtitlePath), filepath.Ext(subtitlePath))
	}
	if err := store.ValidateFileID(fileID); err != nil {
		return err
	}

	st := transcriptStore()
	if st.Exists(fileID) && !force {
		return fmt.Errorf("transcript %q already exists (use --force to replace it)", fileID)
	}

	entries, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	segments := subtitle.ToSegments(entries)
	if err := st.SaveTranscript(context.Background(), fileID, transcript.Serialize(segments)); err != nil {
		return err
	}

	logger.Infow("Transcript imported",
		"file_id", fileID,
		"source", subtitlePath,
		"segments", len(segments),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d segment(s) as %s\n", len(segments), fileID)
	return nil
}
