package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mgpai22/lekh/internal/autosave"
	"github.com/mgpai22/lekh/internal/bookmark"
	"github.com/mgpai22/lekh/internal/logging"
	"github.com/mgpai22/lekh/internal/media"
	"github.com/mgpai22/lekh/internal/metrics"
	"github.com/mgpai22/lekh/internal/playback"
	"github.com/mgpai22/lekh/internal/session"
	"github.com/mgpai22/lekh/internal/store"
	"github.com/mgpai22/lekh/internal/transcript"
	"github.com/mgpai22/lekh/internal/translate"
	"github.com/mgpai22/lekh/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [file_id]",
	Short: "Open a transcript in the terminal editor",
	Long: `Open a stored transcript in the interactive editor.

Edits are saved automatically after a short pause. With --audio the
playback clock spans the media file; otherwise it spans the transcript.

Examples:
  lekh edit interview
  lekh edit interview --audio interview.mp3 --metrics-addr :9090`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().
		String("audio", "", "Media file whose duration drives the playback clock")
	editCmd.Flags().
		String("metrics-addr", "", "Serve Prometheus metrics on this address while editing")
	editCmd.Flags().
		String("log-file", "lekh.log", "Log file used while the editor owns the terminal")
	editCmd.Flags().
		Bool("no-translate", false, "Start without a translation provider")
	addTranslatorFlags(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	fileID := args[0]
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	audioPath, _ := cmd.Flags().GetString("audio")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	logFile, _ := cmd.Flags().GetString("log-file")
	noTranslate, _ := cmd.Flags().GetBool("no-translate")
	if metricsAddr == "" {
		metricsAddr = cfg.Metrics.Addr
	}

	fileLogger, err := logging.NewFileLogger(logFile, verbose)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = fileLogger.Sync() }()

	st := store.NewFileStore(cfg.Storage.TranscriptDir, fileLogger)
	raw, _, err := loadSegments(ctx, st, fileID)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if metricsAddr != "" {
		srv := metrics.NewServer(metricsAddr, reg, fileLogger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	newClock, err := clockFactory(ctx, audioPath)
	if err != nil {
		return err
	}

	var translator translate.Translator
	if !noTranslate {
		translator, err = newTranslator(ctx, cmd)
		if err != nil {
			// editing still works; "t" reports that translation is off
			logger.Warnw("Translation disabled", "error", err)
		}
	}

	adapter := tui.NewAdapter()
	sess, err := session.New(session.Options{
		Saver:           st,
		Bookmarks:       bookmark.New(bookmark.NewFileKV(cfg.Storage.BookmarkFile), fileLogger),
		Translator:      translator,
		Renderer:        adapter,
		NewClock:        newClock,
		AutosaveDelay:   cfg.Autosave.Delay,
		HistoryCapacity: cfg.History.Capacity,
		Language:        cfg.Translation.Languages[0],
		MinLength:       cfg.Translation.MinLength,
		Batch:           cfg.Translation.BatchOptions(),
		Logger:          fileLogger,
		Metrics:         m,
	})
	if err != nil {
		return err
	}
	if err := sess.Open(ctx, fileID, raw); err != nil {
		return err
	}

	model := tui.New(sess, tui.Options{
		FileID:    fileID,
		Languages: cfg.Translation.Languages,
		Logger:    fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	adapter.Start(p.Send)

	_, runErr := p.Run()
	adapter.Close()

	flushErr := flushOnExit(sess)
	sess.Close()
	sess.Wait()

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("editor failed: %w", runErr)
	}
	if flushErr != nil {
		return fmt.Errorf("unsaved edits for %s: %w", fileID, flushErr)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", st.Path(fileID))
	return nil
}

// clock spanning the media file, or the transcript when no audio is given
func clockFactory(ctx context.Context, audioPath string) (func([]transcript.Segment) playback.Clock, error) {
	if audioPath == "" {
		return nil, nil
	}
	if !media.IsMediaFile(audioPath) {
		return nil, fmt.Errorf("unsupported media file: %s", audioPath)
	}
	duration, err := media.GetDuration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read media duration: %w", err)
	}
	return func([]transcript.Segment) playback.Clock {
		return playback.NewVirtualClock(duration.Seconds(), nil)
	}, nil
}

// persists what is left, waiting out a save that is still running
func flushOnExit(sess *session.Session) error {
	for attempt := 0; attempt < 50; attempt++ {
		err := sess.Flush()
		if !errors.Is(err, autosave.ErrSaveInProgress) {
			if errors.Is(err, session.ErrNoDocument) {
				return nil
			}
			return err
		}
		time.Sleep(100 * time.Millisecond)
	}
	return autosave.ErrSaveInProgress
}
