package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark [file_id]",
	Short: "Show, set or clear the bookmark of a transcript",
	Long: `Each transcript has at most one bookmarked segment.

Examples:
  lekh bookmark interview
  lekh bookmark interview --set 14
  lekh bookmark interview --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runBookmark,
}

func init() {
	rootCmd.AddCommand(bookmarkCmd)

	bookmarkCmd.Flags().Int("set", -1, "Bookmark this segment index")
	bookmarkCmd.Flags().Bool("clear", false, "Remove the bookmark")
	bookmarkCmd.MarkFlagsMutuallyExclusive("set", "clear")
}

func runBookmark(cmd *cobra.Command, args []string) error {
	fileID := args[0]
	setIndex, _ := cmd.Flags().GetInt("set")
	remove, _ := cmd.Flags().GetBool("clear")
	out := cmd.OutOrStdout()

	bookmarks := bookmarkStore()

	switch {
	case remove:
		if err := bookmarks.Clear(fileID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Bookmark cleared for %s\n", fileID)
		return nil

	case cmd.Flags().Changed("set"):
		_, segments, err := loadSegments(context.Background(), transcriptStore(), fileID)
		if err != nil {
			return err
		}
		if setIndex < 0 || setIndex >= len(segments) {
			return fmt.Errorf("segment %d out of range (transcript has %d)", setIndex, len(segments))
		}
		if err := bookmarks.Set(fileID, setIndex); err != nil {
			return err
		}
		fmt.Fprintf(out, "Bookmark set to segment %d\n", setIndex)
		return nil
	}

	index, ok := bookmarks.Get(fileID)
	if !ok {
		fmt.Fprintf(out, "No bookmark for %s\n", fileID)
		return nil
	}
	fmt.Fprintf(out, "Bookmark: segment %d\n", index)
	return nil
}
