package cli

import (
	"github.com/spf13/cobra"

	"github.com/mgpai22/lekh/internal/config"
	"github.com/mgpai22/lekh/internal/logging"
)

var (
	verbose    bool
	configPath string
	envFile    string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lekh",
	Short: "Edit, translate and export timed transcripts",
	Long: `Lekh is a terminal editor for timed transcripts.

Edits are autosaved, playback follows the active segment, and segments can
be translated with an AI provider. Transcripts can be imported from and
exported to SRT and VTT subtitles.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		if err := config.LoadEnv(envFile); err != nil {
			return err
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Debugw("Loaded configuration",
			"path", cfg.Path(),
			"transcript_dir", cfg.Storage.TranscriptDir,
		)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().
		StringVar(&envFile, "env-file", ".env", "Environment file loaded before the config")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
